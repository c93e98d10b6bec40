package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mbolis/formcraft/app"
	"github.com/mbolis/formcraft/generate"
	"github.com/mbolis/formcraft/httpx"
	"github.com/mbolis/formcraft/log"
	"github.com/mbolis/formcraft/routes/middlewares"
)

func GenerateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generate.Request
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Invalid request body")
			return
		}

		if err := req.Validate(); err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "generate.validate", "%s", err)
			return
		}

		if app.Generator == nil {
			httpx.LogStatusMsg(w, r, http.StatusInternalServerError, log.ErrorLevel, "generate.config", "%s", generate.ErrMissingKey)
			return
		}

		schema, err := app.Generator.Generate(r.Context(), req)
		if err != nil {
			if errors.Is(err, generate.ErrInvalidRequest) {
				httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "generate.request", "%s", err)
				return
			}
			log.With(log.Fields{"user_id": middlewares.UserID(r.Context()), "type": req.Type}).
				Errorf("generate.form: %s", err)
			httpx.Error(w, r, http.StatusInternalServerError, httpx.ErrorBody{
				Error:   "Failed to generate form with AI",
				Details: err.Error(),
			})
			return
		}

		log.With(log.Fields{"title": schema.Title, "fields": len(schema.Fields)}).Info("generate.form: ok")
		render.JSON(w, r, map[string]any{
			"success": true,
			"data":    schema,
		})
	}
}

func GenerateFormUsage(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"message":        "AI form generation endpoint. Use POST with description and type.",
			"supportedTypes": []string{generate.TypeText, generate.TypeImage},
			"example": generate.Request{
				Description: "Create a customer feedback form for a restaurant",
				Type:        generate.TypeText,
			},
		})
	}
}

// TestAI checks the model answers a trivial prompt.
func TestAI(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app.Generator == nil {
			httpx.LogStatusMsg(w, r, http.StatusInternalServerError, log.ErrorLevel, "generate.config", "%s", generate.ErrMissingKey)
			return
		}

		reply, err := app.Generator.Ping(r.Context())
		if err != nil {
			log.Errorf("generate.ping: %s", err)
			httpx.Error(w, r, http.StatusInternalServerError, httpx.ErrorBody{
				Error:   "AI connection failed",
				Details: err.Error(),
			})
			return
		}

		render.JSON(w, r, map[string]any{
			"success":  true,
			"response": reply,
			"model":    app.Generator.Name(),
		})
	}
}
