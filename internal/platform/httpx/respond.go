package httpx

import (
	"encoding/json"
	"net/http"
)

// errorEnvelope is the single error shape every endpoint returns.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends the error envelope with a human-readable message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorEnvelope{Success: false, Message: message})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
