package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m32jawad/Arena/internal/database"
	"github.com/m32jawad/Arena/internal/models"
)

type storylineRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// CreateStoryline adds a narrative choice to the signup form.
func (a *API) CreateStoryline(w http.ResponseWriter, r *http.Request) {
	var req storylineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required.")
		return
	}
	s := &models.Storyline{Title: req.Title, Text: req.Text}
	if err := database.CreateStoryline(r.Context(), s); err != nil {
		a.Log.WithError(err).Error("storyline create failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// UpdateStoryline edits a storyline's title or hint text.
func (a *API) UpdateStoryline(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid storyline id.")
		return
	}
	s, err := database.GetStoryline(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		a.Log.WithError(err).Error("storyline load failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	var req storylineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title != "" {
		s.Title = req.Title
	}
	s.Text = req.Text
	if err := database.UpdateStoryline(r.Context(), s); err != nil {
		a.Log.WithError(err).Error("storyline update failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// DeleteStoryline removes a storyline.
func (a *API) DeleteStoryline(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid storyline id.")
		return
	}
	if err := database.DeleteStoryline(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		a.Log.WithError(err).Error("storyline delete failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Storyline deleted."})
}
