package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/registration-api/internal/domain"
)

// --- mocks ---

type mockRegistrationSvc struct{ mock.Mock }

func (m *mockRegistrationSvc) Request(ctx context.Context, req domain.RegisterRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockRegistrationSvc) Confirm(ctx context.Context, email, code string) (*domain.User, error) {
	args := m.Called(ctx, email, code)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func postJSON(t *testing.T, h http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func registerBody(otp string) map[string]string {
	b := map[string]string{
		"name":   "Jane",
		"email":  "jane@x.com",
		"mobile": "9876543210",
		"city":   "Pune",
	}
	if otp != "" {
		b["otp"] = otp
	}
	return b
}

// --- tests ---

func TestRegister_RequestPhase(t *testing.T) {
	svc := &mockRegistrationSvc{}
	svc.On("Request", mock.Anything, mock.MatchedBy(func(r domain.RegisterRequest) bool {
		return r.Email == "jane@x.com" && r.OTP == ""
	})).Return(nil)

	h := NewRegisterHandler(svc)
	w := postJSON(t, h.Register, "/register", registerBody(""))

	assert.Equal(t, http.StatusOK, w.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "OTP sent successfully", env.Message)
	svc.AssertExpectations(t)
}

func TestRegister_ConfirmPhase(t *testing.T) {
	svc := &mockRegistrationSvc{}
	svc.On("Confirm", mock.Anything, "jane@x.com", "123456").
		Return(&domain.User{ID: "u1", Name: "Jane", Email: "jane@x.com"}, nil)

	h := NewRegisterHandler(svc)
	w := postJSON(t, h.Register, "/register", registerBody("123456"))

	assert.Equal(t, http.StatusOK, w.Code)
	var env RegisterEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Registration successful", env.Message)
	assert.Equal(t, "u1", env.User.ID)
	svc.AssertExpectations(t)
}

func TestRegister_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		otp        string
		err        error
		wantStatus int
	}{
		{"validation", "", fmt.Errorf("field 'Mobile' failed 'len': %w", domain.ErrBadRequest), http.StatusBadRequest},
		{"conflict", "", fmt.Errorf("email jane@x.com already registered: %w", domain.ErrConflict), http.StatusBadRequest},
		{"delivery", "", fmt.Errorf("send otp: %w", domain.ErrDelivery), http.StatusInternalServerError},
		{"infrastructure", "", fmt.Errorf("scan users: connection refused"), http.StatusInternalServerError},
		{"no pending", "123456", fmt.Errorf("pending registration jane@x.com: %w", domain.ErrNotFound), http.StatusBadRequest},
		{"expired", "123456", fmt.Errorf("otp for jane@x.com: %w", domain.ErrExpired), http.StatusBadRequest},
		{"mismatch", "123456", fmt.Errorf("otp for jane@x.com: %w", domain.ErrOTPMismatch), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockRegistrationSvc{}
			if tt.otp == "" {
				svc.On("Request", mock.Anything, mock.Anything).Return(tt.err)
			} else {
				svc.On("Confirm", mock.Anything, "jane@x.com", tt.otp).Return(nil, tt.err)
			}

			h := NewRegisterHandler(svc)
			w := postJSON(t, h.Register, "/register", registerBody(tt.otp))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRegister_InfrastructureErrorBodyIsGeneric(t *testing.T) {
	svc := &mockRegistrationSvc{}
	svc.On("Request", mock.Anything, mock.Anything).
		Return(fmt.Errorf("redis ping failed: dial tcp 10.0.0.5: connection refused"))

	h := NewRegisterHandler(svc)
	w := postJSON(t, h.Register, "/register", registerBody(""))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "redis")
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestRegister_InvalidBody(t *testing.T) {
	h := NewRegisterHandler(&mockRegistrationSvc{})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	h.Register(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
