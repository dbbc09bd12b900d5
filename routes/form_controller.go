package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/routes/middlewares"
	"github.com/mbolis/quick-forms/theme"
)

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "form.claims")
			return
		}

		form := model.Form{}
		err = render.DecodeJSON(r.Body, &form)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		form.Title = strings.TrimSpace(form.Title)
		if form.Title == "" {
			httpx.LogMessage(w, r, http.StatusBadRequest, log.DebugLevel, "create_form.validate",
				"title is required")
			return
		}
		if !theme.Valid(form.ColorTheme) {
			form.ColorTheme = theme.Purple
		}

		tx, err := app.BeginTxx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		now := time.Now().UTC()
		form.CreatedBy = userId
		form.CreatedAt, form.UpdatedAt = now, now
		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO form (title, description, color_theme, created_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`,
			form.Title, form.Description, form.ColorTheme, form.CreatedBy, form.CreatedAt, form.UpdatedAt,
		).Scan(&form.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_form", err)
			return
		}

		form.Fields, err = insertFields(r.Context(), tx, form.ID, form.Fields)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_form.fields", err)
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_form.commit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, form)
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "form.claims")
			return
		}

		forms := []model.Form{}
		err = app.SelectContext(r.Context(), &forms, `
			SELECT id, title, description, color_theme, is_published, created_by, created_at, updated_at
			FROM form
			WHERE created_by = ?
			ORDER BY updated_at DESC, id DESC`,
			userId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_forms", err)
			return
		}

		if len(forms) > 0 {
			ids := make([]int, len(forms))
			byId := make(map[int]*model.Form, len(forms))
			for i := range forms {
				ids[i] = forms[i].ID
				byId[forms[i].ID] = &forms[i]
				forms[i].Fields = []model.Question{}
			}

			query, args, err := sqlx.In(`
				SELECT form_id, id, type, label, required, options, routing_rule
				FROM form_field
				WHERE form_id IN (?)
				ORDER BY form_id, position`,
				ids,
			)
			if err != nil {
				httpx.LogInternalError(w, "db.get_forms.fields.query", err)
				return
			}

			rows, err := app.QueryContext(r.Context(), query, args...)
			if err != nil {
				httpx.LogInternalError(w, "db.get_forms.fields", err)
				return
			}
			defer rows.Close()

			for rows.Next() {
				var formId int
				q, err := scanField(rows, &formId)
				if err != nil {
					httpx.LogInternalError(w, "db.get_forms.fields.scan", err)
					return
				}
				byId[formId].Fields = append(byId[formId].Fields, q)
			}
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

func GetFormById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "form.claims")
			return
		}

		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		form, err := getOwnedForm(r.Context(), app, formId, userId)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"form": form,
		})
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "form.claims")
			return
		}

		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		form := model.Form{}
		err = render.DecodeJSON(r.Body, &form)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		form.Title = strings.TrimSpace(form.Title)
		if form.Title == "" {
			httpx.LogMessage(w, r, http.StatusBadRequest, log.DebugLevel, "update_form.validate",
				"title is required")
			return
		}
		if !theme.Valid(form.ColorTheme) {
			form.ColorTheme = theme.Purple
		}

		tx, err := app.BeginTxx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(r.Context(), `
			UPDATE form
			SET
				title = ?,
				description = ?,
				color_theme = ?,
				updated_at = ?
			WHERE	id = ?
				AND created_by = ?`,
			form.Title, form.Description, form.ColorTheme, time.Now().UTC(),
			formId, userId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_form", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "update_form", formId)
			return
		}

		// full replace of the field sequence
		_, err = tx.ExecContext(r.Context(), `
			DELETE FROM form_field
			WHERE form_id = ?`,
			formId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.delete_fields", err)
			return
		}

		_, err = insertFields(r.Context(), tx, formId, form.Fields)
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.fields", err)
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.commit", err)
			return
		}

		updated, err := getOwnedForm(r.Context(), app, formId, userId)
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.reload", err)
			return
		}

		render.JSON(w, r, updated)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "form.claims")
			return
		}

		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		res, err := app.ExecContext(r.Context(), `
			DELETE FROM form
			WHERE	id = ?
				AND created_by = ?`,
			formId, userId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_form", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_form.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "delete_form", formId)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func PublishForm(app app.App) http.HandlerFunc {
	return setPublished(app, true, "publish_form")
}

func UnpublishForm(app app.App) http.HandlerFunc {
	return setPublished(app, false, "unpublish_form")
}

// Publish and unpublish toggle the flag and nothing else. Two rapid
// toggles race at the database, last write wins.
func setPublished(app app.App, published bool, code string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "form.claims")
			return
		}

		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		res, err := app.ExecContext(r.Context(), `
			UPDATE form
			SET is_published = ?
			WHERE	id = ?
				AND created_by = ?`,
			published,
			formId, userId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db."+code, err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db."+code+".verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, code, formId)
			return
		}

		form, err := getOwnedForm(r.Context(), app, formId, userId)
		if err != nil {
			httpx.LogInternalError(w, "db."+code+".reload", err)
			return
		}

		render.JSON(w, r, form)
	}
}

func GetFormResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "form.claims")
			return
		}

		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var owner int
		err = app.GetContext(r.Context(), &owner, `
			SELECT created_by FROM form WHERE id = ?`,
			formId,
		)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_responses", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses.form", err)
			return
		}
		if owner != userId {
			httpx.LogNotFound(w, "get_responses", formId)
			return
		}

		responses := []model.FormResponse{}
		err = app.SelectContext(r.Context(), &responses, `
			SELECT id, form_id, time, ip, answers
			FROM submission
			WHERE form_id = ?
			ORDER BY time DESC, id DESC`,
			formId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": responses,
		})
	}
}

// insertFields writes the ordered field sequence of a form, assigning a
// fresh uuid to any question that came in without an id. Returns the
// sequence with ids filled in.
func insertFields(ctx context.Context, tx *sqlx.Tx, formId int, fields []model.Question) ([]model.Question, error) {
	if len(fields) == 0 {
		return fields, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO form_field (id, form_id, position, type, label, required, options, routing_rule)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i := range fields {
		f := &fields[i]
		if f.ID == "" {
			f.ID = uuid.Must(uuid.NewV4()).String()
		}

		var optionsJson []byte
		if f.Options != nil {
			optionsJson, err = json.Marshal(f.Options)
			if err != nil {
				return nil, err
			}
		}
		var routingJson []byte
		if f.RoutingRule != nil {
			routingJson, err = json.Marshal(f.RoutingRule)
			if err != nil {
				return nil, err
			}
		}

		_, err = stmt.ExecContext(ctx, f.ID, formId, i, f.Type, f.Label, f.Required,
			string(optionsJson), string(routingJson))
		if err != nil {
			return nil, err
		}
	}
	return fields, nil
}

// scanField reads one form_field row. Extra destinations come first, so
// callers can capture form_id when querying across forms.
func scanField(rows *sql.Rows, extra ...any) (q model.Question, err error) {
	var opts, rule string
	dest := append(extra, &q.ID, &q.Type, &q.Label, &q.Required, &opts, &rule)
	err = rows.Scan(dest...)
	if err != nil {
		return
	}

	if opts != "" {
		err = json.Unmarshal([]byte(opts), &q.Options)
		if err != nil {
			return
		}
	}
	if rule != "" {
		q.RoutingRule = &model.RoutingRule{}
		err = json.Unmarshal([]byte(rule), q.RoutingRule)
	}
	return
}

func loadFields(ctx context.Context, app app.App, formId int) ([]model.Question, error) {
	rows, err := app.QueryContext(ctx, `
		SELECT id, type, label, required, options, routing_rule
		FROM form_field
		WHERE form_id = ?
		ORDER BY position`,
		formId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := []model.Question{}
	for rows.Next() {
		q, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, q)
	}
	return fields, rows.Err()
}

// getOwnedForm loads a form with its fields, scoped to its owner.
// A missing id and somebody else's form both come back as sql.ErrNoRows.
func getOwnedForm(ctx context.Context, app app.App, formId, userId int) (*model.Form, error) {
	form := model.Form{}
	err := app.GetContext(ctx, &form, `
		SELECT id, title, description, color_theme, is_published, created_by, created_at, updated_at
		FROM form
		WHERE	id = ?
			AND created_by = ?`,
		formId, userId,
	)
	if err != nil {
		return nil, err
	}

	form.Fields, err = loadFields(ctx, app, formId)
	if err != nil {
		return nil, err
	}
	return &form, nil
}
