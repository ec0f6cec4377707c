package handlers

import (
	"encoding/json"
	"net/http"
)

// writeJSON renders v with the given status. Encoding failures are ignored;
// the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders {"error": msg}. Lifecycle error messages pass through
// verbatim; kiosks and the dashboard display them as-is.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON parses the request body into v and reports a uniform 400 on
// malformed payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}
