package routes

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/formcraft/app"
	"github.com/mbolis/formcraft/database"
	"github.com/mbolis/formcraft/fields"
	"github.com/mbolis/formcraft/httpx"
	"github.com/mbolis/formcraft/log"
	"github.com/mbolis/formcraft/model"
	"github.com/mbolis/formcraft/slug"
	"github.com/mbolis/formcraft/storage"
)

type publicForm struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Slug          string            `json:"slug"`
	Fields        []fields.Rendered `json:"fields"`
	InitialValues map[string]any    `json:"initial_values"`
}

// PublicGetForm returns a published form ready to be filled in, and counts
// the view.
func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := publishedForm(app, w, r, "ref")
		if !ok {
			return
		}

		if err := app.IncrementViews(r.Context(), f.ID); err != nil {
			log.With(log.Fields{"form_id": f.ID}).Warnf("db.increment_views: %s", err)
		}

		render.JSON(w, r, publicForm{
			ID:            f.ID,
			Title:         f.Title,
			Description:   f.Description,
			Slug:          slug.Encode(f.Title, f.ID),
			Fields:        fields.RenderAll(f.Fields, nil),
			InitialValues: fields.InitialValues(f.Fields),
		})
	}
}

type submission struct {
	ResponseData map[string]any `json:"response_data"`
}

func PublicSubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := publishedForm(app, w, r, "ref")
		if !ok {
			return
		}

		var sub submission
		err := render.DecodeJSON(r.Body, &sub)
		if err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Invalid response: %s", err)
			return
		}

		if errs := fields.Validate(f.Fields, sub.ResponseData); len(errs) > 0 {
			log.With(log.Fields{"form_id": f.ID}).Debugf("response.validate: %s", errs)
			httpx.Error(w, r, http.StatusUnprocessableEntity, httpx.ErrorBody{
				Error:  "Please fix the highlighted fields",
				Fields: errs,
			})
			return
		}

		resp, err := app.InsertResponse(r.Context(), f.ID, fields.Normalize(f.Fields, sub.ResponseData))
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_response", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": resp.ID,
		})
	}
}

const multipartMemory = 32 << 20

// PublicUploadFile stores one file for an upload field of a published form.
// The multipart body carries field_id, file and optionally response_id.
func PublicUploadFile(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := publishedForm(app, w, r, "ref")
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, app.Uploader.MaxSize+multipartMemory)
		err := r.ParseMultipartForm(multipartMemory)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httpx.LogStatusMsg(w, r, http.StatusRequestEntityTooLarge, log.DebugLevel, "request.upload", "File is too large")
			} else {
				httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.upload", "Invalid upload: %s", err)
			}
			return
		}
		defer r.MultipartForm.RemoveAll()

		fieldID := r.FormValue("field_id")
		field, ok := uploadField(f, fieldID)
		if !ok {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.upload.field", "Field %q does not accept files", fieldID)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.upload.file", "A file is required")
			return
		}
		defer file.Close()

		responseID := r.FormValue("response_id")
		if responseID != "" && !responseOf(app, w, r, f, responseID) {
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			httpx.LogInternalError(w, r, "request.upload.read", err)
			return
		}

		stored, err := app.Uploader.Upload(r.Context(), storage.Upload{
			FormID:     f.ID,
			FieldID:    field.ID,
			ResponseID: responseID,
			FileName:   filepath.Base(header.Filename),
			Data:       data,
		})
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrTooLarge):
				httpx.LogStatusMsg(w, r, http.StatusRequestEntityTooLarge, log.DebugLevel, "storage.upload", "File is too large")
			case errors.Is(err, storage.ErrUnsupportedType):
				httpx.LogStatusMsg(w, r, http.StatusUnsupportedMediaType, log.DebugLevel, "storage.upload", "%s", err)
			default:
				httpx.LogInternalError(w, r, "storage.upload", err)
			}
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, stored)
	}
}

// responseOf checks an upload names a response of the same form. On failure
// the response has been written.
func responseOf(app app.App, w http.ResponseWriter, r *http.Request, f model.Form, id string) bool {
	resp, err := app.GetResponse(r.Context(), id)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		httpx.LogInternalError(w, r, "db.get_response", err)
		return false
	}
	if err != nil || resp.FormID != f.ID {
		httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.upload.response",
			"Response %q does not belong to this form", id)
		return false
	}
	return true
}

func uploadField(f model.Form, id string) (model.Field, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, field.Type.Upload()
		}
	}
	return model.Field{}, false
}

// LegacyFormRedirect sends old /form/<id> links to the slug URL.
func LegacyFormRedirect(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := publishedForm(app, w, r, "id")
		if !ok {
			return
		}
		http.Redirect(w, r, "/forms/"+slug.Encode(f.Title, f.ID), http.StatusMovedPermanently)
	}
}

// FormPage serves the browser UI for a published form. Slugs from an older
// title are redirected to the current one.
func FormPage(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := publishedForm(app, w, r, "slug")
		if !ok {
			return
		}

		canonical := slug.Encode(f.Title, f.ID)
		if chi.URLParam(r, "slug") != canonical {
			http.Redirect(w, r, "/forms/"+canonical, http.StatusMovedPermanently)
			return
		}

		page := filepath.Join(app.StaticDir, "form.html")
		if _, err := os.Stat(page); err != nil {
			httpx.LogInternalError(w, r, "static.form_page", err)
			return
		}
		http.ServeFile(w, r, page)
	}
}
