package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/isdelr/taskdeck-be/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeFieldErrors(w http.ResponseWriter, fieldErrs services.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]services.FieldErrors{"errors": fieldErrs})
}
