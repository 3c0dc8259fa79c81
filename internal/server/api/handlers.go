package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nkarpov/authd/internal/common"
	"github.com/nkarpov/authd/internal/server/models"
	"github.com/nkarpov/authd/internal/server/services"
)

// refreshTokenCookie mirrors the refresh token next to the JSON body, so
// browser clients can rely on an HttpOnly cookie instead of storage.
const refreshTokenCookie = "refreshToken"

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	User         *models.AccountView `json:"user"`
}

type logoutResponse struct {
	Removed bool `json:"removed"`
}

func (s *Server) handleRegistration(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email_and_password_required")
		return
	}

	res, err := s.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeTaxonomyError(w, r, err)
		return
	}
	s.writeAuthResponse(w, res)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	res, err := s.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// The wire response collapses unknown-account and wrong-password into
		// one answer to avoid leaking account existence; the distinction is
		// kept in the log.
		if errors.Is(err, common.ErrAccountNotFound) || errors.Is(err, common.ErrInvalidCredentials) {
			s.logger.Warn(r.Context(), "login rejected", "error", err)
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		s.writeTaxonomyError(w, r, err)
		return
	}
	s.writeAuthResponse(w, res)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Activate(r.Context(), r.PathValue("link")); err != nil {
		s.writeTaxonomyError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "activated"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	removed, err := s.service.Logout(r.Context(), s.refreshTokenFromRequest(r))
	if err != nil {
		s.writeTaxonomyError(w, r, err)
		return
	}
	clearCookie(w)
	writeJSON(w, http.StatusOK, logoutResponse{Removed: removed})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Refresh(r.Context(), s.refreshTokenFromRequest(r))
	if err != nil {
		s.writeTaxonomyError(w, r, err)
		return
	}
	s.writeAuthResponse(w, res)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	views, err := s.service.ListAccounts(r.Context())
	if err != nil {
		s.writeTaxonomyError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// refreshTokenFromRequest reads the refresh token from the JSON body and
// falls back to the cookie.
func (s *Server) refreshTokenFromRequest(r *http.Request) string {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (s *Server) writeAuthResponse(w http.ResponseWriter, res *services.AuthResult) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    res.Tokens.RefreshToken,
		Path:     "/api",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, authResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         res.Account,
	})
}

// writeTaxonomyError maps domain errors to transport status codes. Anything
// outside the taxonomy is an infrastructure failure and turns into a 500.
func (s *Server) writeTaxonomyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrDuplicateAccount):
		writeError(w, http.StatusConflict, "account_exists")
	case errors.Is(err, common.ErrInvalidActivationLink):
		writeError(w, http.StatusBadRequest, "invalid_activation_link")
	case errors.Is(err, common.ErrAccountNotFound), errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
	case errors.Is(err, common.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Path:     "/api",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
