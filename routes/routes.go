package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/mbolis/formcraft/app"
	"github.com/mbolis/formcraft/httpx"
	"github.com/mbolis/formcraft/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, middleware.Logger, middleware.Recoverer)

	root.Get("/health", Health(app))
	root.Mount("/api", apiRouter(app))

	root.Get("/forms/{slug}", FormPage(app))
	root.Get("/form/{id}", LegacyFormRedirect(app))
	if app.Blobs != nil {
		root.Mount("/files", serveBlobs(app))
	}
	root.Mount("/", servePublicFiles(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/ai/generate-form", GenerateFormUsage(app))
	api.Get("/ai/test", TestAI(app))
	api.Get("/templates", ListTemplates(app))

	api.Route("/public/forms/{ref}", func(r chi.Router) {
		r.Get("/", PublicGetForm(app))
		r.Post("/responses", PublicSubmitResponse(app))
		r.Post("/files", PublicUploadFile(app))
	})

	api.Group(func(r chi.Router) {
		r.Use(middlewares.Auth(app.Auth))

		r.Post("/ai/generate-form", GenerateForm(app))

		// CRUD form
		r.Get("/forms", ListForms(app))
		r.Post("/forms", CreateForm(app))
		r.Get("/forms/{ref}", GetForm(app))
		r.Put("/forms/{ref}", UpdateForm(app))
		r.Delete("/forms/{ref}", DeleteForm(app))

		r.Get("/forms/{ref}/responses", GetFormResponses(app))
		r.Get("/forms/{ref}/responses/export", ExportResponses(app))
		r.Get("/forms/{ref}/files", ListFormFiles(app))
		r.Get("/forms/{ref}/qr", FormQRCode(app))
		r.Delete("/files/{id}", DeleteFile(app))

		r.Get("/responses", ListAllResponses(app))
		r.Get("/dashboard", Dashboard(app))
	})

	api.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, r, http.StatusNotFound, httpx.ErrorBody{Error: http.StatusText(http.StatusNotFound)})
	})

	return api
}

func Health(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := app.Ping(); err != nil {
			httpx.LogInternalError(w, r, "db.ping", err)
			return
		}
		render.JSON(w, r, map[string]any{
			"status": "ok",
			"ai":     app.Generator != nil,
		})
	}
}

func servePublicFiles(app app.App) http.Handler {
	return http.FileServer(http.Dir(app.StaticDir))
}

func serveBlobs(app app.App) http.Handler {
	return http.StripPrefix("/files", http.FileServer(http.Dir(app.Blobs.Root())))
}
