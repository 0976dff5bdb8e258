package server

import (
	"net/http"

	apperrors "credit-console/internal/common/errors"
	"credit-console/internal/models"
	"credit-console/internal/theme"
)

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user"`
}

func newSessionResponse(user *models.User) sessionResponse {
	return sessionResponse{Authenticated: user != nil, User: user}
}

func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSessionResponse(sessionFrom(r.Context()).Current()))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}
	user, err := sessionFrom(r.Context()).Login(r.Context(), creds)
	if err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(user))
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var profile models.RegistrationProfile
	if err := decodeJSON(r, &profile); err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}
	if profile.Role != "" {
		role, err := models.ParseRole(string(profile.Role))
		if err != nil {
			s.errors.HandleRequestError(w, r, apperrors.NewInvalidRequestError(err.Error()))
			return
		}
		profile.Role = role
	}
	user, err := sessionFrom(r.Context()).Register(r.Context(), profile)
	if err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSessionResponse(user))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r.Context()).Logout()
	writeJSON(w, http.StatusOK, newSessionResponse(nil))
}

type themeBody struct {
	Theme theme.Theme `json:"theme"`
	Dark  bool        `json:"dark"`
}

func newThemeBody(t theme.Theme) themeBody {
	return themeBody{Theme: t, Dark: t.IsDark()}
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newThemeBody(themeFrom(r.Context()).Current()))
}

func (s *Server) setTheme(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := decodeJSON(r, &body); err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}
	t, err := theme.Parse(string(body.Theme))
	if err != nil {
		s.errors.HandleRequestError(w, r, apperrors.NewInvalidRequestError(err.Error()))
		return
	}
	applied, err := themeFrom(r.Context()).Set(r.Context(), t)
	if err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newThemeBody(applied))
}

func (s *Server) toggleTheme(w http.ResponseWriter, r *http.Request) {
	applied, err := themeFrom(r.Context()).Toggle(r.Context())
	if err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newThemeBody(applied))
}
