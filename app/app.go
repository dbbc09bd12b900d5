package app

import (
	"github.com/go-chi/jwtauth"
	"github.com/jmoiron/sqlx"

	"github.com/mbolis/quick-forms/config"
)

type App struct {
	*sqlx.DB
	*jwtauth.JWTAuth
	config.Config
}
