package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbolis/formcraft/app"
	"github.com/mbolis/formcraft/database"
	"github.com/mbolis/formcraft/httpx"
	"github.com/mbolis/formcraft/log"
	"github.com/mbolis/formcraft/model"
	"github.com/mbolis/formcraft/routes/middlewares"
	"github.com/mbolis/formcraft/slug"
)

// formView is a form as the owner sees it.
type formView struct {
	model.Form
	Slug     string `json:"slug"`
	ShareURL string `json:"share_url"`
}

func viewOf(app app.App, f model.Form) formView {
	s := slug.Encode(f.Title, f.ID)
	return formView{
		Form:     f,
		Slug:     s,
		ShareURL: app.PublicURL + "/forms/" + s,
	}
}

func shareURL(app app.App, f model.Form) string {
	return app.PublicURL + "/forms/" + slug.Encode(f.Title, f.ID)
}

// ownedForm resolves the form named by the URL param and checks the caller
// owns it. On failure the response has been written and ok is false.
func ownedForm(app app.App, w http.ResponseWriter, r *http.Request, param, action string) (f model.Form, ok bool) {
	ref := chi.URLParam(r, param)
	f, err := app.Resolve(r.Context(), ref)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			httpx.LogNotFound(w, r, "get_form", ref)
		} else {
			httpx.LogInternalError(w, r, "db.get_form", err)
		}
		return f, false
	}

	if f.UserID != middlewares.UserID(r.Context()) {
		httpx.LogStatusMsg(w, r, http.StatusForbidden, log.DebugLevel, "auth.not_owner",
			"Unauthorized - you can only %s your own forms", action)
		return f, false
	}
	return f, true
}

// publishedForm resolves a form visible to anyone.
func publishedForm(app app.App, w http.ResponseWriter, r *http.Request, param string) (f model.Form, ok bool) {
	ref := chi.URLParam(r, param)
	f, err := app.ResolvePublished(r.Context(), ref)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			httpx.LogNotFound(w, r, "get_public_form", ref)
		} else {
			httpx.LogInternalError(w, r, "db.get_public_form", err)
		}
		return f, false
	}
	return f, true
}
