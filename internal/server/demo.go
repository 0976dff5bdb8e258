package server

import (
	"net/http"

	apperrors "credit-console/internal/common/errors"
	"credit-console/internal/models"

	"github.com/go-chi/chi/v5"
)

// Demo role switching. It authenticates nobody and is only mounted when demo.enabled is set.

type loginAsRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Server) demoRoutes(r chi.Router) {
	r.Post("/demo/login-as", s.loginAs)
}

func (s *Server) loginAs(w http.ResponseWriter, r *http.Request) {
	var req loginAsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errors.HandleRequestError(w, r, err)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		s.errors.HandleRequestError(w, r, apperrors.NewInvalidRequestError(err.Error()))
		return
	}
	user, err := sessionFrom(r.Context()).LoginAs(req.Email, role)
	if err != nil {
		s.errors.HandleRequestError(w, r, apperrors.NewInvalidRequestError(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(user))
}
