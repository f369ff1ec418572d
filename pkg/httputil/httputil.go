// Package httputil centralizes JSON response writing so every handler emits
// the same envelope. Errors are written as {"message": ...} with the status
// derived from the domain error code; internal errors never leak their cause.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "phonebook/pkg/domainerrors"
)

type messageBody struct {
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes the plain {"message": ...} envelope.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, messageBody{Message: message})
}

// WriteError translates a domain error into an HTTP response. Non-domain
// errors and CodeInternal collapse to a generic 500 so store and infra
// failures stay out of responses.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	message := "Server error"
	if code != dErrors.CodeInternal {
		message = err.Error()
	}
	WriteMessage(w, status, message)
}
