package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

// PendingList serves the staff approval queue.
func (a *API) PendingList(w http.ResponseWriter, r *http.Request) {
	views, err := a.Svc.PendingSignups(r.Context())
	if err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

type approveRequest struct {
	RFIDTag        string `json:"rfid_tag"`
	SessionMinutes int    `json:"session_minutes"`
}

// Approve turns a pending signup into a live session.
func (a *API) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id.")
		return
	}
	var req approveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := a.Svc.Approve(r.Context(), id, req.RFIDTag, req.SessionMinutes)
	if err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Reject declines a pending signup.
func (a *API) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id.")
		return
	}
	if err := a.Svc.Reject(r.Context(), id); err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signup rejected."})
}
