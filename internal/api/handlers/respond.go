package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/linkup-social/linkup-be/internal/apperrors"
)

// respondJSON writes a JSON body with the given status code.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps a service error onto the HTTP taxonomy and writes a
// JSON error body.
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, apperrors.HTTPStatus(err), map[string]string{"error": err.Error()})
}

// respondValidation is a shortcut for handler-level input failures.
func respondValidation(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
