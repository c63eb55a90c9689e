package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/registration-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RegisterEnvelope wraps the successful confirmation response. Only a safe
// subset of the user record is echoed back.
type RegisterEnvelope struct {
	Message string         `json:"message"`
	User    RegisteredUser `json:"user"`
}

type RegisteredUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NotifyEnvelope wraps bulk-notify responses.
type NotifyEnvelope struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	SentTo       []string `json:"sentTo,omitempty"`
	FailedEmails []string `json:"failedEmails,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// statusFor maps domain sentinels to HTTP status codes. Anything unmatched is
// an infrastructure failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrExpired),
		errors.Is(err, domain.ErrOTPMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError surfaces domain errors verbatim and hides infrastructure
// detail behind a generic message.
func writeDomainError(w http.ResponseWriter, err error, generic string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, generic)
		return
	}
	writeError(w, status, err.Error())
}
