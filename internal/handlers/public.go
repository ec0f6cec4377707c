package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/m32jawad/Arena/internal/cache"
	"github.com/m32jawad/Arena/internal/database"
)

// Leaderboard serves the public ranking.
func (a *API) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Svc.Leaderboard(r.Context())
	if err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// TopLeaderboard serves the top N parties straight from the redis ZSET; the
// big-screen display hits this every few seconds and never touches postgres.
func (a *API) TopLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	ids, err := cache.TopSessions(r.Context(), limit)
	if err != nil {
		a.Log.WithError(err).Warn("redis leaderboard unavailable, serving from postgres")
		entries, err := a.Svc.Leaderboard(r.Context())
		if err != nil {
			a.svcError(w, err)
			return
		}
		if len(entries) > limit {
			entries = entries[:limit]
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}

	type topEntry struct {
		Rank      int       `json:"rank"`
		SessionID uuid.UUID `json:"session_id"`
		Name      string    `json:"name"`
		Points    int       `json:"points"`
		AvatarID  string    `json:"avatar_id"`
	}
	entries := make([]topEntry, 0, len(ids))
	for i, id := range ids {
		p, err := database.GetSession(r.Context(), id)
		if err != nil {
			continue
		}
		entries = append(entries, topEntry{
			Rank:      i + 1,
			SessionID: p.ID,
			Name:      p.PartyName,
			Points:    p.Points,
			AvatarID:  p.AvatarID,
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// PartyRank answers "what place are we in" for a single session.
func (a *API) PartyRank(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id.")
		return
	}
	p, err := database.GetSession(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		a.Log.WithError(err).Error("session load failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	rank, err := cache.Rank(r.Context(), id)
	if err != nil || rank <= 0 {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": p.ID,
		"name":       p.PartyName,
		"points":     p.Points,
		"rank":       rank,
	})
}

// PublicControllers serves the station list for the public map/kiosk picker.
func (a *API) PublicControllers(w http.ResponseWriter, r *http.Request) {
	controllers, err := database.ListControllers(r.Context())
	if err != nil {
		a.Log.WithError(err).Error("controller list failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, controllers)
}

// PublicStorylines serves the storyline choices for the signup form.
func (a *API) PublicStorylines(w http.ResponseWriter, r *http.Request) {
	storylines, err := database.ListStorylines(r.Context())
	if err != nil {
		a.Log.WithError(err).Error("storyline list failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, storylines)
}
