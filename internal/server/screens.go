package server

import (
	"net/http"
	"strconv"

	"credit-console/internal/access"
	apperrors "credit-console/internal/common/errors"
	"credit-console/internal/models"
	"credit-console/internal/views"
	"credit-console/internal/workflows/prediction"
	"credit-console/pkg/registry"

	"github.com/go-chi/chi/v5"
)

func (s *Server) screenRoutes(r chi.Router) {
	r.With(s.guard(registry.ScreenDashboard)).Get("/dashboard", s.dashboard)
	r.With(s.guard(registry.ScreenPredict)).Get("/predict", s.predictForm)
	r.With(s.guard(registry.ScreenPredict)).Post("/predict", s.predict)
	r.With(s.guard(registry.ScreenRisk)).Get("/risk", s.risk)
	r.With(s.guard(registry.ScreenWhatIf)).Get("/what-if", s.whatIf)
	r.With(s.guard(registry.ScreenHistory)).Get("/history", s.history)
	r.With(s.guard(registry.ScreenMonitoring)).Get("/monitoring", s.monitoring)
}

// guard admits a request according to the registry entry for screenID.
// Screens missing from the registry are not served.
func (s *Server) guard(screenID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			screen, ok := s.registry.Lookup(screenID)
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "screen not available"})
				return
			}
			if !screen.RequiresAuth {
				next.ServeHTTP(w, r)
				return
			}

			roles, err := screen.Roles()
			if err != nil {
				s.errors.HandleRequestError(w, r, err)
				return
			}
			decision := access.Decide(sessionFrom(r.Context()).Current(), roles)
			switch decision.Outcome {
			case access.Allowed:
				next.ServeHTTP(w, r)
			case access.Forbidden:
				writeJSON(w, http.StatusForbidden, decision)
			default:
				writeJSON(w, http.StatusUnauthorized, decision)
			}
		})
	}
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	user := sessionFrom(r.Context()).Current()
	summary := s.reads.GetDashboardSummary(r.Context())
	writeJSON(w, http.StatusOK, views.BuildDashboard(user, summary))
}

func (s *Server) predictForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, views.BuildPredictForm(sessionFrom(r.Context()).Current()))
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	form := models.DefaultLoanApplication()
	if err := decodeJSON(r, &form); err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}

	out, err := s.predictor.Execute(r.Context(), &prediction.Input{
		User:        sessionFrom(r.Context()).Current(),
		Application: form,
	})
	if err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views.BuildPredictResult(out))
}

func (s *Server) risk(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, views.BuildRisk())
}

func (s *Server) whatIf(w http.ResponseWriter, r *http.Request) {
	income, err := queryFloat(r, "income")
	if err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}
	loan, err := queryFloat(r, "loan")
	if err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views.BuildWhatIf(income, loan))
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	items := []models.HistoryItem{}
	if user := sessionFrom(r.Context()).Current(); user.HasID() {
		items = s.reads.GetHistory(r.Context(), user.ID)
	}
	writeJSON(w, http.StatusOK, views.BuildHistory(items))
}

func (s *Server) monitoring(w http.ResponseWriter, r *http.Request) {
	user := sessionFrom(r.Context()).Current()
	writeJSON(w, http.StatusOK, views.BuildMonitoring(user, s.reads.GetMonitoringMetrics(r.Context())))
}

func queryFloat(r *http.Request, key string) (*float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewInvalidRequestError(key + " must be a number")
	}
	return &v, nil
}
