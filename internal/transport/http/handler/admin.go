package handler

import (
	"encoding/json"
	"net/http"

	"github.com/registration-api/internal/auth"
)

// AdminHandler backs the admin UI's login gate. There are no sessions or
// tokens; the client keeps its own authenticated flag.
type AdminHandler struct {
	verifier auth.CredentialVerifier
}

func NewAdminHandler(verifier auth.CredentialVerifier) *AdminHandler {
	return &AdminHandler{verifier: verifier}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.verifier.Verify(body.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "authenticated"})
}
