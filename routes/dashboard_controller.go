package routes

import (
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/mbolis/formcraft/app"
	"github.com/mbolis/formcraft/httpx"
	"github.com/mbolis/formcraft/log"
	"github.com/mbolis/formcraft/model"
	"github.com/mbolis/formcraft/routes/middlewares"
)

const countWorkers = 8

type dashboardForm struct {
	formView
	ResponseCount int `json:"response_count"`
}

type dashboard struct {
	Analytics *model.UserAnalytics `json:"analytics"`
	Forms     []dashboardForm      `json:"forms"`
}

// Dashboard lists the caller's forms with their response counts and the
// freshly recomputed analytics. A count that fails to load reads 0.
func Dashboard(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middlewares.UserID(r.Context())

		forms, err := app.ListFormsByOwner(r.Context(), userID)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_forms", err)
			return
		}

		out := dashboard{Forms: make([]dashboardForm, len(forms))}

		var g errgroup.Group
		g.SetLimit(countWorkers)
		for i, f := range forms {
			i, f := i, f
			out.Forms[i].formView = viewOf(app, f)
			g.Go(func() error {
				n, err := app.CountResponses(r.Context(), f.ID)
				if err != nil {
					log.With(log.Fields{"form_id": f.ID}).Warnf("db.count_responses: %s", err)
					return nil
				}
				out.Forms[i].ResponseCount = n
				return nil
			})
		}
		g.Wait()

		analytics, err := app.RefreshUserAnalytics(r.Context(), userID)
		if err != nil {
			log.With(log.Fields{"user_id": userID}).Warnf("db.refresh_analytics: %s", err)
		} else {
			out.Analytics = &analytics
		}

		render.JSON(w, r, out)
	}
}
