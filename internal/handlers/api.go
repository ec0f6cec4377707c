// Package handlers translates the HTTP surface into arena service calls.
// Handlers hold no business rules: status codes and JSON shapes only.
package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/m32jawad/Arena/internal/arena"
)

// API carries the shared dependencies for every handler.
type API struct {
	Svc  *arena.Service
	Log  *logrus.Logger
	Feed *Feed
}

// NewAPI builds the handler set. feed may be nil when the live websocket
// channel is disabled.
func NewAPI(svc *arena.Service, feed *Feed, log *logrus.Logger) *API {
	if log == nil {
		log = logrus.New()
	}
	return &API{Svc: svc, Log: log, Feed: feed}
}

// svcError maps a lifecycle error to its status and writes it through.
func (a *API) svcError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, arena.ErrNotFound),
		errors.Is(err, arena.ErrNoSessionForTag),
		errors.Is(err, arena.ErrNoApprovedSession),
		errors.Is(err, arena.ErrNoActiveSession),
		errors.Is(err, arena.ErrControllerIP),
		errors.Is(err, arena.ErrControllerID),
		errors.Is(err, arena.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, arena.ErrTagRequired),
		errors.Is(err, arena.ErrCheckpointArgs),
		errors.Is(err, arena.ErrTagInUse),
		errors.Is(err, arena.ErrSessionExpired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, arena.ErrStaffInactive),
		errors.Is(err, arena.ErrNotStaff):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		a.Log.WithError(err).Error("internal error")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
	}
}
