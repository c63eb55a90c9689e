package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/registration-api/internal/auth"
	"github.com/registration-api/internal/domain"
)

type userStore interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ClearUsers(ctx context.Context) error
}

// UsersHandler serves the admin user list and the bulk clear operation.
type UsersHandler struct {
	store    userStore
	verifier auth.CredentialVerifier
}

func NewUsersHandler(store userStore, verifier auth.CredentialVerifier) *UsersHandler {
	return &UsersHandler{store: store, verifier: verifier}
}

// List returns every registered user. An internal failure degrades to an
// empty array rather than an error so the admin UI stays functional.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "err", err)
		users = nil
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Clear empties the users collection after verifying the admin secret.
func (h *UsersHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.verifier.Verify(body.Password) {
		writeError(w, http.StatusUnauthorized, "invalid password")
		return
	}
	if err := h.store.ClearUsers(r.Context()); err != nil {
		slog.Error("failed to clear users", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear users")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "All users cleared successfully"})
}
