package routes

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/routing"
)

func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		form, err := getPublishedForm(r, app, formId)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_public_form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_public_form", err)
			return
		}

		// owner identity is nobody's business on the public route
		form.CreatedBy = 0

		render.JSON(w, r, map[string]any{
			"form": form,
		})
	}
}

type submitRequest struct {
	Responses model.AnswerSet `json:"responses"`
}

func SubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var submission submitRequest
		err = render.DecodeJSON(r.Body, &submission)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if submission.Responses == nil {
			submission.Responses = model.AnswerSet{}
		}

		form, err := getPublishedForm(r, app, formId)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "submit_response", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.submit_response.form", err)
			return
		}

		// the client validates before sending, but it is not the only
		// possible client: re-check required visible fields here
		missing := routing.MissingRequired(form.Fields, submission.Responses)
		if len(missing) > 0 {
			labels := make([]string, len(missing))
			for i, q := range missing {
				labels[i] = q.Label
			}
			httpx.LogMessage(w, r, http.StatusBadRequest, log.DebugLevel, "submit_response.validate",
				"missing required fields: %s", strings.Join(labels, ", "))
			return
		}

		ip := strings.Split(r.RemoteAddr, ":")[0]

		var submissionId int
		err = app.QueryRowContext(r.Context(), `
			INSERT INTO submission (form_id, time, ip, answers)
			VALUES (?, ?, ?, ?)
			RETURNING id`,
			formId, time.Now().UTC(), ip, submission.Responses,
		).Scan(&submissionId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_submission", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":      submissionId,
			"message": "response recorded",
		})
	}
}

// getPublishedForm loads a form and its fields for the public routes.
// Unpublished forms are indistinguishable from missing ones.
func getPublishedForm(r *http.Request, app app.App, formId int) (*model.Form, error) {
	form := model.Form{}
	err := app.GetContext(r.Context(), &form, `
		SELECT id, title, description, color_theme, is_published, created_by, created_at, updated_at
		FROM form
		WHERE	id = ?
			AND is_published`,
		formId,
	)
	if err != nil {
		return nil, err
	}

	form.Fields, err = loadFields(r.Context(), app, formId)
	if err != nil {
		return nil, err
	}
	return &form, nil
}
