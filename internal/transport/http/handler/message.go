package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/registration-api/internal/application/notify"
)

// MessageHandler serves the admin bulk-notify endpoint.
type MessageHandler struct {
	svc notify.Service
}

func NewMessageHandler(svc notify.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Send dispatches the message to every resolved recipient. All deliveries
// succeeding yields 200; partial failure yields 207 so callers can tell
// "some sent" apart from "nothing sent".
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req notify.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.Send(r.Context(), req)
	if err != nil {
		slog.Error("bulk notify failed", "err", err)
		writeDomainError(w, err, "Failed to send messages")
		return
	}
	if !result.AllSent() {
		writeJSON(w, http.StatusMultiStatus, NotifyEnvelope{
			Success:      false,
			Message:      "Some messages failed to send",
			SentTo:       result.Sent,
			FailedEmails: result.Failed,
		})
		return
	}
	writeJSON(w, http.StatusOK, NotifyEnvelope{
		Success: true,
		Message: "Messages sent successfully",
		SentTo:  result.Sent,
	})
}
