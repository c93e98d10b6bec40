package routes

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/mbolis/formcraft/app"
	"github.com/mbolis/formcraft/fields"
	"github.com/mbolis/formcraft/httpx"
	"github.com/mbolis/formcraft/log"
	"github.com/mbolis/formcraft/model"
	"github.com/mbolis/formcraft/routes/middlewares"
	"github.com/mbolis/formcraft/slug"
)

type answer struct {
	FieldID string     `json:"field_id"`
	Label   string     `json:"label"`
	Type    model.Kind `json:"type"`
	Value   any        `json:"value"`
	Display string     `json:"display"`
}

type responseView struct {
	model.FormResponse
	Answers []answer `json:"answers"`
}

// answersOf lists a response's values in field order, with their display
// text. Values for fields no longer on the form are left out.
func answersOf(fs []model.Field, data map[string]any) []answer {
	out := make([]answer, len(fs))
	for i, f := range fs {
		v := data[f.ID]
		out[i] = answer{
			FieldID: f.ID,
			Label:   f.Label,
			Type:    f.Type,
			Value:   v,
			Display: fields.Display(f, v),
		}
	}
	return out
}

func GetFormResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := ownedForm(app, w, r, "ref", "view")
		if !ok {
			return
		}

		responses, err := app.ListResponses(r.Context(), f.ID)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_responses", err)
			return
		}

		views := make([]responseView, len(responses))
		for i, resp := range responses {
			views[i] = responseView{FormResponse: resp, Answers: answersOf(f.Fields, resp.ResponseData)}
		}
		render.JSON(w, r, map[string]any{
			"form":      viewOf(app, f),
			"responses": views,
		})
	}
}

// ExportResponses writes one CSV row per response, newest first, with the
// display text of each answer.
func ExportResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := ownedForm(app, w, r, "ref", "export")
		if !ok {
			return
		}

		responses, err := app.ListResponses(r.Context(), f.ID)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_responses", err)
			return
		}

		header := make([]string, 0, len(f.Fields)+1)
		header = append(header, "Submitted at")
		for _, field := range f.Fields {
			header = append(header, field.Label)
		}

		name := slug.Title(f.Title)
		if name == "" {
			name = "form"
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`-responses.csv"`)

		cw := csv.NewWriter(w)
		cw.Write(header)
		for _, resp := range responses {
			row := make([]string, 0, len(header))
			row = append(row, resp.CreatedAt.Format(time.RFC3339))
			for _, a := range answersOf(f.Fields, resp.ResponseData) {
				row = append(row, a.Display)
			}
			cw.Write(row)
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			log.Errorf("csv.export_responses: %s", err)
		}
	}
}

func ListAllResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses, err := app.ListResponsesByOwner(r.Context(), middlewares.UserID(r.Context()))
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_all_responses", err)
			return
		}
		render.JSON(w, r, responses)
	}
}
