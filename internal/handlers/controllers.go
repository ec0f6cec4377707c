package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m32jawad/Arena/internal/database"
	"github.com/m32jawad/Arena/internal/models"
)

func controllerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid controller id.")
		return 0, false
	}
	return id, true
}

type controllerRequest struct {
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
}

// ListControllers serves the staff station list with the latest reported
// metrics.
func (a *API) ListControllers(w http.ResponseWriter, r *http.Request) {
	controllers, err := database.ListControllers(r.Context())
	if err != nil {
		a.Log.WithError(err).Error("controller list failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, controllers)
}

// CreateController registers a new station.
func (a *API) CreateController(w http.ResponseWriter, r *http.Request) {
	var req controllerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.IPAddress == "" {
		writeError(w, http.StatusBadRequest, "Name and ip_address are required.")
		return
	}
	c := &models.Controller{Name: req.Name, IPAddress: req.IPAddress}
	if err := database.CreateController(r.Context(), c); err != nil {
		a.Log.WithError(err).Error("controller create failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateController renames or re-addresses a station.
func (a *API) UpdateController(w http.ResponseWriter, r *http.Request) {
	id, ok := controllerID(w, r)
	if !ok {
		return
	}
	c, err := database.GetController(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		a.Log.WithError(err).Error("controller load failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	var req controllerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name != "" {
		c.Name = req.Name
	}
	if req.IPAddress != "" {
		c.IPAddress = req.IPAddress
	}
	if err := database.UpdateController(r.Context(), c); err != nil {
		a.Log.WithError(err).Error("controller update failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteController removes a station.
func (a *API) DeleteController(w http.ResponseWriter, r *http.Request) {
	id, ok := controllerID(w, r)
	if !ok {
		return
	}
	if err := database.DeleteController(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		a.Log.WithError(err).Error("controller delete failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Controller deleted."})
}

type metricsReport struct {
	CPUUsage           string `json:"cpu_usage"`
	StorageUsage       string `json:"storage_usage"`
	CPUTemperature     string `json:"cpu_temperature"`
	RAMUsage           string `json:"ram_usage"`
	SystemUptime       string `json:"system_uptime"`
	VoltagePowerStatus string `json:"voltage_power_status"`
}

// ReportMetrics stores a station's self-reported hardware snapshot. The
// values are free-form strings; the server never interprets them.
func (a *API) ReportMetrics(w http.ResponseWriter, r *http.Request) {
	id, ok := controllerID(w, r)
	if !ok {
		return
	}
	c, err := database.GetController(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		a.Log.WithError(err).Error("controller load failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	var req metricsReport
	if !decodeJSON(w, r, &req) {
		return
	}
	c.CPUUsage = req.CPUUsage
	c.StorageUsage = req.StorageUsage
	c.CPUTemperature = req.CPUTemperature
	c.RAMUsage = req.RAMUsage
	c.SystemUptime = req.SystemUptime
	c.VoltagePowerStatus = req.VoltagePowerStatus

	if err := database.UpdateController(r.Context(), c); err != nil {
		a.Log.WithError(err).Error("metrics update failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, c)
}
