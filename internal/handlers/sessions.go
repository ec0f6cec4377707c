package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m32jawad/Arena/internal/cache"
	"github.com/m32jawad/Arena/internal/database"
)

// LiveSessions serves approved sessions with time left, sweeping expired
// ones as a side effect.
func (a *API) LiveSessions(w http.ResponseWriter, r *http.Request) {
	views, err := a.Svc.LiveSessions(r.Context())
	if err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// EndedSessions serves the history view, most recently ended first.
func (a *API) EndedSessions(w http.ResponseWriter, r *http.Request) {
	views, err := a.Svc.EndedSessions(r.Context())
	if err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// EndSession is the staff dashboard stop: terminal, no remaining-time bonus.
func (a *API) EndSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id.")
		return
	}
	if err := a.Svc.EndSession(r.Context(), id); err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session ended."})
}

type updateSessionRequest struct {
	ExtraMinutes *int `json:"extra_minutes"`
	Points       *int `json:"points"`
}

// UpdateSession applies a staff time delta and/or points override to a live
// session.
func (a *API) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id.")
		return
	}
	var req updateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := a.Svc.UpdateSessionTime(r.Context(), id, req.ExtraMinutes, req.Points)
	if err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteSession removes a session record outright, checkpoints included.
func (a *API) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id.")
		return
	}
	if err := database.DeleteSession(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		a.Log.WithError(err).Error("session delete failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if err := cache.RemoveScore(r.Context(), id); err != nil {
		a.Log.WithError(err).Warn("leaderboard score removal failed")
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted."})
}

type addCheckpointRequest struct {
	ControllerID int `json:"controller_id"`
}

// AddCheckpoint manually credits a station clear from the session detail
// view, for controllers that failed to register a scan.
func (a *API) AddCheckpoint(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id.")
		return
	}
	var req addCheckpointRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ControllerID == 0 {
		writeError(w, http.StatusBadRequest, "controller_id is required.")
		return
	}
	res, err := a.Svc.AddCheckpoint(r.Context(), id, req.ControllerID)
	if err != nil {
		a.svcError(w, err)
		return
	}
	status := http.StatusCreated
	if !res.Created {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

// RemoveCheckpoint un-clears a checkpoint from the session detail view and
// claws its points back.
func (a *API) RemoveCheckpoint(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id.")
		return
	}
	cpID, err := uuid.Parse(r.PathValue("cpid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid checkpoint id.")
		return
	}
	deducted, err := database.DeleteCheckpoint(r.Context(), id, cpID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		a.Log.WithError(err).Error("checkpoint delete failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Checkpoint removed.",
		"points_deducted": deducted,
	})
}
