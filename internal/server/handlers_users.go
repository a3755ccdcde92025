package server

import (
	"net/http"

	"github.com/onelink/portfolio-api/internal/server/middleware"
	"github.com/onelink/portfolio-api/internal/types"
)

// handleGetMe returns the authenticated user's profile.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		middleware.Unauthorized(w)
		return
	}

	user, err := s.userService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleUpdateMe updates name, email or phone.
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		middleware.Unauthorized(w)
		return
	}

	var req types.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req, req.Validate) {
		return
	}
	if req.Empty() {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	user, err := s.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleDeleteMe deletes the account and drops any cached résumé text.
func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		middleware.Unauthorized(w)
		return
	}

	if err := s.userService.DeleteAccount(r.Context(), userID); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if s.resumes != nil {
		s.resumes.Forget(r.Context(), userID)
	}
	w.WriteHeader(http.StatusNoContent)
}
