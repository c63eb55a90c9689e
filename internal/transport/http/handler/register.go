package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/registration-api/internal/application/registration"
	"github.com/registration-api/internal/domain"
)

// RegisterHandler handles the two-phase registration endpoint. A body
// without an otp field starts a registration; a body with one confirms it.
type RegisterHandler struct {
	svc registration.Service
}

func NewRegisterHandler(svc registration.Service) *RegisterHandler {
	return &RegisterHandler{svc: svc}
}

func (h *RegisterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.OTP == "" {
		if err := h.svc.Request(r.Context(), req); err != nil {
			if errors.Is(err, domain.ErrDelivery) {
				writeError(w, http.StatusInternalServerError, "Failed to send OTP. Please try again.")
				return
			}
			slog.Error("registration request failed", "email", req.Email, "err", err)
			writeDomainError(w, err, "Registration failed. Please try again.")
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent successfully"})
		return
	}

	user, err := h.svc.Confirm(r.Context(), req.Email, req.OTP)
	if err != nil {
		slog.Error("registration confirm failed", "email", req.Email, "err", err)
		writeDomainError(w, err, "Registration failed. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, RegisterEnvelope{
		Message: "Registration successful",
		User:    RegisteredUser{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}
