package routes

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/routes/middlewares"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Register(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds credentials
		err := render.DecodeJSON(r.Body, &creds)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		creds.Name = strings.TrimSpace(creds.Name)
		creds.Email = strings.TrimSpace(strings.ToLower(creds.Email))
		if creds.Name == "" || creds.Email == "" || creds.Password == "" {
			httpx.LogMessage(w, r, http.StatusBadRequest, log.DebugLevel, "register.validate",
				"name, email and password are required")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
		if err != nil {
			httpx.LogInternalError(w, "register.hash_password", err)
			return
		}

		now := time.Now().UTC()
		user := model.User{Name: creds.Name, Email: creds.Email, CreatedAt: now, UpdatedAt: now}
		err = app.QueryRowContext(r.Context(), `
			INSERT INTO user (name, email, password_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id`,
			user.Name, user.Email, string(hash), user.CreatedAt, user.UpdatedAt,
		).Scan(&user.ID)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint") {
				httpx.LogMessage(w, r, http.StatusConflict, log.DebugLevel, "register.duplicate",
					"email already registered")
				return
			}
			httpx.LogInternalError(w, "db.insert_user", err)
			return
		}

		token, err := issueToken(app, user.ID)
		if err != nil {
			httpx.LogInternalError(w, "register.issue_token", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"message": "registered",
			"token":   token,
			"user":    user,
		})
	}
}

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds credentials
		err := render.DecodeJSON(r.Body, &creds)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		var user model.User
		var hash string
		err = app.QueryRowContext(r.Context(), `
			SELECT id, name, email, password_hash, created_at, updated_at
			FROM user
			WHERE email = ?`,
			strings.TrimSpace(strings.ToLower(creds.Email)),
		).Scan(&user.ID, &user.Name, &user.Email, &hash, &user.CreatedAt, &user.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogMessage(w, r, http.StatusUnauthorized, log.DebugLevel, "login.unknown_user",
				"invalid credentials")
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_user", err)
			return
		}

		err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password))
		if err != nil {
			httpx.LogMessage(w, r, http.StatusUnauthorized, log.DebugLevel, "login.bad_password",
				"invalid credentials")
			return
		}

		token, err := issueToken(app, user.ID)
		if err != nil {
			httpx.LogInternalError(w, "login.issue_token", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"message": "logged in",
			"token":   token,
			"user":    user,
		})
	}
}

func Profile(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "profile.claims")
			return
		}

		var user model.User
		err = app.GetContext(r.Context(), &user, `
			SELECT id, name, email, created_at, updated_at
			FROM user
			WHERE id = ?`,
			userId,
		)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_profile", userId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_user", err)
			return
		}

		render.JSON(w, r, user)
	}
}

func issueToken(app app.App, userId int) (string, error) {
	now := time.Now()
	_, token, err := app.Encode(map[string]any{
		"user_id": userId,
		"iat":     now.Unix(),
		"exp":     now.Add(app.TokenTTL).Unix(),
	})
	return token, err
}
