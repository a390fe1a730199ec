package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"storefront/apperr"
)

type M map[string]interface{}

// Envelope is the shape every JSON response uses.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// RespondWithJSON writes any payload as JSON.
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("response encode error: %v", err)
	}
}

// SendSuccess wraps data in the success envelope.
func SendSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	RespondWithJSON(w, statusCode, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SendError maps err through the error taxonomy. Internal errors are logged
// and replaced with a generic message so no detail leaks.
func SendError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		msg = "Internal server error"
	}
	RespondWithJSON(w, status, Envelope{
		Success: false,
		Message: msg,
		Errors:  apperr.FieldsOf(err),
	})
}

// SendFailure writes an explicit non-success envelope with data attached,
// used when a request completed but the business outcome is a failure the
// client must act on (e.g. payment declined).
func SendFailure(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	RespondWithJSON(w, statusCode, Envelope{
		Success: false,
		Message: message,
		Data:    data,
	})
}
