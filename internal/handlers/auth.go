package handlers

import (
	"errors"
	"net/http"

	"github.com/m32jawad/Arena/internal/auth"
	"github.com/m32jawad/Arena/internal/database"
	"github.com/m32jawad/Arena/internal/middleware"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies staff credentials and sets the auth_token cookie.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := database.GetStaffByUsername(r.Context(), req.Username)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}
	if err != nil {
		a.Log.WithError(err).Error("login lookup failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	ok, err := auth.VerifyPassword(req.Password, u.Password)
	if err != nil || !ok {
		writeError(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}
	if !u.IsActive {
		writeError(w, http.StatusForbidden, "Staff account is inactive.")
		return
	}

	token, err := auth.CreateJWT(u.ID, u.IsSuperuser)
	if err != nil {
		a.Log.WithError(err).Error("jwt creation failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, u)
}

// Logout clears the auth cookie.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		HttpOnly: true,
		Path:     "/",
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

// Me returns the authenticated staff record.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.StaffFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	u, err := database.GetStaffByID(r.Context(), claims.StaffID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
