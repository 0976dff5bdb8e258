// Package server exposes session, theme and screen view models over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"credit-console/internal/common/config"
	apperrors "credit-console/internal/common/errors"
	httpclient "credit-console/internal/common/http"
	"credit-console/internal/common/logger"
	"credit-console/internal/common/metrics"
	"credit-console/internal/models"
	"credit-console/internal/session"
	"credit-console/internal/theme"
	"credit-console/internal/workflows/prediction"
	"credit-console/pkg/registry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reads is the read-only part of the gateway the screens use.
type Reads interface {
	GetHistory(ctx context.Context, userID int64) []models.HistoryItem
	GetDashboardSummary(ctx context.Context) models.DashboardSummary
	GetMonitoringMetrics(ctx context.Context) models.MonitoringMetrics
}

// Predictor runs the prediction workflow.
type Predictor interface {
	Execute(ctx context.Context, input *prediction.Input) (*prediction.Output, error)
}

type Server struct {
	config    *config.Config
	sessions  *session.Store
	themes    theme.Stores
	reads     Reads
	predictor Predictor
	registry  *registry.ScreenRegistry
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

// New accepts a nil registry, which means registry.Default().
func New(cfg *config.Config, sessions *session.Store, themes theme.Stores, reads Reads, predictor Predictor, reg *registry.ScreenRegistry, log logger.Logger) *Server {
	if reg == nil {
		reg = registry.Default()
	}
	log = log.WithFields(map[string]interface{}{"component": "server"})
	return &Server{
		config:    cfg,
		sessions:  sessions,
		themes:    themes,
		reads:     reads,
		predictor: predictor,
		registry:  reg,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.countRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", httpclient.RequestIDHeader},
		ExposedHeaders:   []string{httpclient.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.withSession)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.currentSession)
			r.Post("/login", s.login)
			r.Post("/register", s.register)
			r.Post("/logout", s.logout)
		})

		r.Route("/theme", func(r chi.Router) {
			r.Use(s.withTheme)
			r.Get("/", s.getTheme)
			r.Put("/", s.setTheme)
			r.Post("/toggle", s.toggleTheme)
		})

		r.Route("/screens", s.screenRoutes)

		if s.config.Demo.Enabled {
			s.demoRoutes(r)
		}
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestID reuses the caller's X-Request-ID or mints one, so backend calls carry the same id.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(httpclient.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(httpclient.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(httpclient.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		metrics.ConsoleHTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.logger.Debug("request served", map[string]interface{}{
			"method":    r.Method,
			"route":     route,
			"status":    status,
			"duration":  time.Since(start).String(),
			"requestId": httpclient.RequestIDFrom(r.Context()),
		})
	})
}

type sessionKey struct{}

// withSession attaches the browser's session.State, issuing a cookie for new sessions.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.config.Server.CookieName); err == nil {
			id = c.Value
		}
		newID, st := s.sessions.Get(id)
		if newID != id {
			http.SetCookie(w, &http.Cookie{
				Name:     s.config.Server.CookieName,
				Value:    newID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, st)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// themeMaxAge keeps the browser id for a year, like a value kept in local storage.
const themeMaxAge = 365 * 24 * 60 * 60

type themeKey struct{}

// withTheme loads the theme of the browser named by the theme cookie. It is independent of the session.
func (s *Server) withTheme(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.config.Theme.CookieName); err == nil {
			if _, perr := uuid.Parse(c.Value); perr == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     s.config.Theme.CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   themeMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		st := theme.NewState(r.Context(), s.themes.For(id), s.logger.WithFields(map[string]interface{}{"browser": id}))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), themeKey{}, st)))
	})
}

func themeFrom(ctx context.Context) *theme.State {
	st, _ := ctx.Value(themeKey{}).(*theme.State)
	return st
}

func sessionFrom(ctx context.Context) *session.State {
	st, _ := ctx.Value(sessionKey{}).(*session.State)
	return st
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	return nil
}
