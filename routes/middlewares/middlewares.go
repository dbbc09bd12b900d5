package middlewares

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
)

// Authenticated verifies the bearer token on the request and rejects the
// call with 401 before it reaches the controller. Claims end up in the
// request context, see UserID.
func Authenticated(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(jwtauth.Verifier(ja), jwtauth.Authenticator).Handler(next)
	}
}

// UserID extracts the authenticated user's id from the verified token
// claims. Only meaningful below the Authenticated middleware.
func UserID(r *http.Request) (int, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return 0, err
	}

	switch id := claims["user_id"].(type) {
	case float64:
		return int(id), nil
	case int64:
		return int(id), nil
	case int:
		return id, nil
	}
	return 0, errors.New("missing user_id claim")
}
