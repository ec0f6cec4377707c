package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m32jawad/Arena/internal/database"
	"github.com/m32jawad/Arena/internal/models"
)

func staffID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid staff id.")
		return 0, false
	}
	return id, true
}

// ListStaff serves the operator roster. Superuser only.
func (a *API) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := database.ListStaff(r.Context())
	if err != nil {
		a.Log.WithError(err).Error("staff list failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, staff)
}

type staffRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Password    string `json:"password"`
	IsStaff     *bool  `json:"is_staff"`
	IsSuperuser *bool  `json:"is_superuser"`
	RFIDTag     string `json:"rfid_tag"`
}

// CreateStaff registers a new operator.
func (a *API) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}
	u := &models.StaffUser{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		IsStaff:   true,
		IsActive:  true,
		RFIDTag:   req.RFIDTag,
	}
	if req.IsStaff != nil {
		u.IsStaff = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		u.IsSuperuser = *req.IsSuperuser
	}
	if err := database.CreateStaff(r.Context(), u); err != nil {
		a.Log.WithError(err).Error("staff create failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// UpdateStaff edits an operator; a non-empty password is rehashed.
func (a *API) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := staffID(w, r)
	if !ok {
		return
	}
	u, err := database.GetStaffByID(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		a.Log.WithError(err).Error("staff load failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	var req staffRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username != "" {
		u.Username = req.Username
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.RFIDTag != "" {
		u.RFIDTag = req.RFIDTag
	}
	if req.IsStaff != nil {
		u.IsStaff = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		u.IsSuperuser = *req.IsSuperuser
	}
	if err := database.UpdateStaff(r.Context(), u, req.Password); err != nil {
		a.Log.WithError(err).Error("staff update failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ToggleBlockStaff flips an operator's active flag. A blocked operator can
// no longer log in or release kiosks.
func (a *API) ToggleBlockStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := staffID(w, r)
	if !ok {
		return
	}
	u, err := database.GetStaffByID(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		a.Log.WithError(err).Error("staff load failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	u.IsActive = !u.IsActive
	if err := database.UpdateStaff(r.Context(), u, ""); err != nil {
		a.Log.WithError(err).Error("staff update failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteStaff removes an operator.
func (a *API) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := staffID(w, r)
	if !ok {
		return
	}
	if err := database.DeleteStaff(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		a.Log.WithError(err).Error("staff delete failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Staff member deleted."})
}
