package handlers

import (
	"net"
	"net/http"
	"strconv"

	"github.com/m32jawad/Arena/internal/cache"
)

type rfidRequest struct {
	RFID         string `json:"rfid"`
	ControllerIP string `json:"controller_ip"`
}

// RFIDStatus answers the kiosk's "what is this tag" lookup.
func (a *API) RFIDStatus(w http.ResponseWriter, r *http.Request) {
	var req rfidRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := a.Svc.Status(r.Context(), req.RFID)
	if err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RFIDStart starts or resumes the countdown for a tag.
func (a *API) RFIDStart(w http.ResponseWriter, r *http.Request) {
	var req rfidRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := a.Svc.Start(r.Context(), req.RFID)
	if err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RFIDStop ends the tag's session and reports the final score.
func (a *API) RFIDStop(w http.ResponseWriter, r *http.Request) {
	var req rfidRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := a.Svc.Stop(r.Context(), req.RFID)
	if err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RFIDCheckpoint records a station clear. The controller identifies itself
// by IP: the payload field wins, the connection's remote address is the
// fallback for controllers that post without it.
func (a *API) RFIDCheckpoint(w http.ResponseWriter, r *http.Request) {
	var req rfidRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ip := req.ControllerIP
	if ip == "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}
	}
	res, err := a.Svc.Checkpoint(r.Context(), req.RFID, ip)
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

// RFIDCheckStaff validates a staff tag for the kiosk result-screen release.
func (a *API) RFIDCheckStaff(w http.ResponseWriter, r *http.Request) {
	var req rfidRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := a.Svc.CheckStaff(r.Context(), req.RFID)
	if err != nil {
		a.svcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"is_staff": true,
		"username": u.Username,
	})
}

// StationRecent serves the per-station recent scan list from redis.
func (a *API) StationRecent(w http.ResponseWriter, r *http.Request) {
	controllerID, err := strconv.Atoi(r.URL.Query().Get("controller_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "controller_id is required.")
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	scans, err := cache.RecentScans(r.Context(), controllerID, limit)
	if err != nil {
		a.Log.WithError(err).Warn("recent scans read failed")
		scans = []cache.RecentScan{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recent_scans": scans})
}
