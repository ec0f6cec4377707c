package handlers

import (
	"net/http"
	"strings"

	"github.com/m32jawad/Arena/internal/database"
	"github.com/m32jawad/Arena/internal/models"
)

type signupRequest struct {
	PartyName     string `json:"party_name"`
	Email         string `json:"email"`
	TeamSize      int    `json:"team_size"`
	ReceiveOffers bool   `json:"receive_offers"`
	StorylineID   *int   `json:"storyline_id"`
	AvatarID      string `json:"avatar_id"`
}

// Signup is the public kiosk/web form: it files a pending signup for staff
// review.
func (a *API) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.PartyName = strings.TrimSpace(req.PartyName)
	if req.PartyName == "" {
		writeError(w, http.StatusBadRequest, "Party name is required.")
		return
	}
	if req.TeamSize <= 0 {
		req.TeamSize = 1
	}

	p := &models.Session{
		PartyName:     req.PartyName,
		Email:         strings.TrimSpace(req.Email),
		TeamSize:      req.TeamSize,
		ReceiveOffers: req.ReceiveOffers,
		StorylineID:   req.StorylineID,
		AvatarID:      req.AvatarID,
		Status:        models.StatusPending,
	}
	if err := database.CreateSession(r.Context(), p); err != nil {
		a.Log.WithError(err).Error("signup failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
