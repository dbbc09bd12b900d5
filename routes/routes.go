package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RealIP, middleware.Logger, middleware.Recoverer)

	root.Route("/auth", func(r chi.Router) {
		r.Post("/register", Register(app))
		r.Post("/login", Login(app))
		r.With(middlewares.Authenticated(app.JWTAuth)).Get("/profile", Profile(app))
	})

	root.Route("/forms", func(r chi.Router) {
		// no auth on the public fetch and submit routes
		r.Get(`/public/{id:^\d+$}`, PublicGetForm(app))
		r.Post(`/public/{id:^\d+$}/submit`, SubmitResponse(app))

		r.Group(func(r chi.Router) {
			r.Use(middlewares.Authenticated(app.JWTAuth))

			// CRUD form, owner-scoped
			r.Post("/", CreateForm(app))
			r.Get("/", ListForms(app))
			r.Get(`/{id:^\d+$}`, GetFormById(app))
			r.Put(`/{id:^\d+$}`, UpdateForm(app))
			r.Delete(`/{id:^\d+$}`, DeleteForm(app))

			r.Post(`/{id:^\d+$}/publish`, PublishForm(app))
			r.Post(`/{id:^\d+$}/unpublish`, UnpublishForm(app))

			r.Get(`/{id:^\d+$}/responses`, GetFormResponses(app))
		})
	})

	return root
}
