package handlers

import (
	"net/http"

	"github.com/m32jawad/Arena/internal/database"
)

// GetSettings serves the arena-wide configuration singleton.
func (a *API) GetSettings(w http.ResponseWriter, r *http.Request) {
	gs, err := database.LoadSettings(r.Context())
	if err != nil {
		a.Log.WithError(err).Error("settings load failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

type settingsRequest struct {
	ArenaName      *string `json:"arena_name"`
	TimeZone       *string `json:"time_zone"`
	DateFormat     *string `json:"date_format"`
	SessionLength  *string `json:"session_length"`
	SessionPresets *string `json:"session_presets"`
	AllowExtension *bool   `json:"allow_extension"`
	AllowReduction *bool   `json:"allow_reduction"`
}

// UpdateSettings applies a partial settings update. Superuser only.
func (a *API) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	gs, err := database.LoadSettings(r.Context())
	if err != nil {
		a.Log.WithError(err).Error("settings load failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	var req settingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ArenaName != nil {
		gs.ArenaName = *req.ArenaName
	}
	if req.TimeZone != nil {
		gs.TimeZone = *req.TimeZone
	}
	if req.DateFormat != nil {
		gs.DateFormat = *req.DateFormat
	}
	if req.SessionLength != nil {
		gs.SessionLength = *req.SessionLength
	}
	if req.SessionPresets != nil {
		gs.SessionPresets = *req.SessionPresets
	}
	if req.AllowExtension != nil {
		gs.AllowExtension = *req.AllowExtension
	}
	if req.AllowReduction != nil {
		gs.AllowReduction = *req.AllowReduction
	}

	if err := database.SaveSettings(r.Context(), gs); err != nil {
		a.Log.WithError(err).Error("settings save failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, gs)
}
