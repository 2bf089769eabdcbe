package handler

import (
	"encoding/json"
	"net/http"

	"notafiscal-server/internal/domain"
)

// ProfileHandler handles the users_public profile of the caller
type ProfileHandler struct {
	profileService domain.ProfileService
	logger         domain.Logger
}

func NewProfileHandler(profileService domain.ProfileService, logger domain.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, logger: logger}
}

// GetProfile returns the current user's profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	auth, ok := authFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), auth)
	if err != nil {
		writeDomainError(w, h.logger, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile updates name, phone and notification settings
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	auth, ok := authFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var update domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), auth, update)
	if err != nil {
		writeDomainError(w, h.logger, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
