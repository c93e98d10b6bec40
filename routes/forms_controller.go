package routes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/skip2/go-qrcode"

	"github.com/mbolis/formcraft/app"
	"github.com/mbolis/formcraft/database"
	"github.com/mbolis/formcraft/httpx"
	"github.com/mbolis/formcraft/log"
	"github.com/mbolis/formcraft/model"
	"github.com/mbolis/formcraft/routes/middlewares"
	"github.com/mbolis/formcraft/templates"
)

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := app.ListFormsByOwner(r.Context(), middlewares.UserID(r.Context()))
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_forms", err)
			return
		}

		views := make([]formView, len(forms))
		for i, f := range forms {
			views[i] = viewOf(app, f)
		}
		render.JSON(w, r, views)
	}
}

type createFormRequest struct {
	model.Schema
	Template string `json:"template"`
}

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFormRequest
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Invalid form: %s", err)
			return
		}

		schema := req.Schema
		if req.Template != "" {
			tmpl, ok, err := templates.Get(req.Template)
			if err != nil {
				httpx.LogInternalError(w, r, "templates.load", err)
				return
			}
			if !ok {
				httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "templates.get", "Unknown template %q", req.Template)
				return
			}
			schema = tmpl.Schema
			if req.Title != "" {
				schema.Title = req.Title
			}
			if req.Description != "" {
				schema.Description = req.Description
			}
		}

		if strings.TrimSpace(schema.Title) == "" {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.title", "Title is required")
			return
		}

		f, err := app.CreateForm(r.Context(), middlewares.UserID(r.Context()), schema)
		if err != nil {
			if errors.Is(err, database.ErrInvalidSchema) {
				httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "db.insert_form", "%s", err)
			} else {
				httpx.LogInternalError(w, r, "db.insert_form", err)
			}
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, viewOf(app, f))
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := ownedForm(app, w, r, "ref", "view")
		if !ok {
			return
		}
		render.JSON(w, r, viewOf(app, f))
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := ownedForm(app, w, r, "ref", "update")
		if !ok {
			return
		}

		var update database.FormUpdate
		err := render.DecodeJSON(r.Body, &update)
		if err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Invalid form: %s", err)
			return
		}
		if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.title", "Title is required")
			return
		}

		f, err = app.UpdateForm(r.Context(), f.ID, update)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrInvalidSchema):
				httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "db.update_form", "%s", err)
			case errors.Is(err, database.ErrNotFound):
				httpx.LogNotFound(w, r, "update_form", f.ID)
			default:
				httpx.LogInternalError(w, r, "db.update_form", err)
			}
			return
		}

		render.JSON(w, r, viewOf(app, f))
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := ownedForm(app, w, r, "ref", "delete")
		if !ok {
			return
		}

		// remember the blobs before their metadata goes
		files, err := app.ListFiles(r.Context(), f.ID)
		if err != nil {
			log.Warnf("db.delete_form.list_files: %s", err)
		}

		err = database.DeleteFormCascade(r.Context(), app.Store, f.ID)
		if err != nil {
			var cerr *database.CascadeError
			switch {
			case errors.Is(err, database.ErrNotFound):
				httpx.LogNotFound(w, r, "delete_form", f.ID)
			case errors.As(err, &cerr) && cerr.Step == database.StepResponses:
				log.Errorf("db.delete_form.responses: %s", err)
				httpx.Error(w, r, http.StatusInternalServerError, httpx.ErrorBody{Error: "Failed to delete form responses"})
			default:
				log.Errorf("db.delete_form: %s", err)
				httpx.Error(w, r, http.StatusInternalServerError, httpx.ErrorBody{Error: "Failed to delete form"})
			}
			return
		}

		for _, file := range files {
			removeBlob(app, r, file)
		}

		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "Form and all associated data deleted successfully",
		})
	}
}

func ListFormFiles(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := ownedForm(app, w, r, "ref", "view")
		if !ok {
			return
		}

		files, err := app.ListFiles(r.Context(), f.ID)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_files", err)
			return
		}
		render.JSON(w, r, files)
	}
}

func DeleteFile(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID := chi.URLParam(r, "id")
		file, err := app.GetFile(r.Context(), fileID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				httpx.LogStatusMsg(w, r, http.StatusNotFound, log.DebugLevel, "get_file", "File not found")
			} else {
				httpx.LogInternalError(w, r, "db.get_file", err)
			}
			return
		}

		f, err := app.GetForm(r.Context(), file.FormID)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_file.form", err)
			return
		}
		if f.UserID != middlewares.UserID(r.Context()) {
			httpx.LogStatusMsg(w, r, http.StatusForbidden, log.DebugLevel, "auth.not_owner",
				"Unauthorized - you can only delete your own files")
			return
		}

		err = app.Store.DeleteFile(r.Context(), file.ID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			httpx.LogInternalError(w, r, "db.delete_file", err)
			return
		}
		removeBlob(app, r, file)

		render.JSON(w, r, map[string]any{"success": true})
	}
}

// removeBlob deletes the stored bytes of a file, if they live in the blob
// store. Failures leave an orphan blob and are only logged.
func removeBlob(app app.App, r *http.Request, file model.FormFile) {
	if app.Blobs == nil {
		return
	}
	key, ok := app.Blobs.KeyFromURL(file.FileURL)
	if !ok {
		return
	}
	if err := app.Blobs.Delete(r.Context(), key); err != nil {
		log.With(log.Fields{"file_id": file.ID, "key": key}).Warnf("storage.delete: %s", err)
	}
}

const (
	qrDefaultSize = 256
	qrMinSize     = 64
	qrMaxSize     = 1024
)

func FormQRCode(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := ownedForm(app, w, r, "ref", "share")
		if !ok {
			return
		}

		size := qrDefaultSize
		if s := r.URL.Query().Get("size"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < qrMinSize || n > qrMaxSize {
				httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.qr_size",
					"size must be between %d and %d", qrMinSize, qrMaxSize)
				return
			}
			size = n
		}

		png, err := qrcode.Encode(shareURL(app, f), qrcode.Medium, size)
		if err != nil {
			httpx.LogInternalError(w, r, "qrcode.encode", err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "private, max-age=300")
		w.Write(png)
	}
}

func ListTemplates(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := templates.List()
		if err != nil {
			httpx.LogInternalError(w, r, "templates.load", err)
			return
		}
		render.JSON(w, r, ts)
	}
}
