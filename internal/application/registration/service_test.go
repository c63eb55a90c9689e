package registration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/registration-api/internal/domain"
	"github.com/registration-api/internal/storage/memory"
)

// --- mocks ---

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// --- helpers ---

func baseReq() domain.RegisterRequest {
	return domain.RegisterRequest{
		Name:   "Jane",
		Email:  "jane@x.com",
		Mobile: "9876543210",
		City:   "Pune",
	}
}

// --- Request tests ---

func TestRequest_ThenConfirm_CreatesExactlyOneUser(t *testing.T) {
	store := memory.New()
	mailer := &mockMailer{}
	mailer.On("SendEmail", "jane@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(store, mailer, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, baseReq()))

	pending, err := store.GetPending(ctx, "jane@x.com")
	require.NoError(t, err)

	u, err := svc.Confirm(ctx, "jane@x.com", pending.OTP)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Jane", u.Name)
	assert.Equal(t, "9876543210", u.Mobile)
	assert.False(t, u.RegisteredAt.IsZero())

	got, err := store.GetUserByEmail(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = store.GetPending(ctx, "jane@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRequest_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.RegisterRequest)
	}{
		{"missing name", func(r *domain.RegisterRequest) { r.Name = "" }},
		{"missing city", func(r *domain.RegisterRequest) { r.City = "" }},
		{"bad email", func(r *domain.RegisterRequest) { r.Email = "not-an-email" }},
		{"nine digit mobile", func(r *domain.RegisterRequest) { r.Mobile = "987654321" }},
		{"eleven digit mobile", func(r *domain.RegisterRequest) { r.Mobile = "98765432100" }},
		{"non numeric mobile", func(r *domain.RegisterRequest) { r.Mobile = "98765abcde" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			mailer := &mockMailer{}
			svc := NewService(store, mailer, 10*time.Minute)

			req := baseReq()
			tt.mutate(&req)
			err := svc.Request(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
			mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRequest_AlreadyRegistered_NoOTPIssued(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.PutUser(ctx, &domain.User{ID: "u1", Name: "Jane", Email: "jane@x.com"}))

	mailer := &mockMailer{}
	svc := NewService(store, mailer, 10*time.Minute)

	err := svc.Request(ctx, baseReq())
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = store.GetPending(ctx, "jane@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequest_DeliveryFailure_RollsBackPending(t *testing.T) {
	store := memory.New()
	mailer := &mockMailer{}
	mailer.On("SendEmail", "jane@x.com", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := NewService(store, mailer, 10*time.Minute)
	ctx := context.Background()

	err := svc.Request(ctx, baseReq())
	assert.ErrorIs(t, err, domain.ErrDelivery)

	_, err = store.GetPending(ctx, "jane@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRequest_Resubmission_OverwritesPending(t *testing.T) {
	store := memory.New()
	mailer := &mockMailer{}
	mailer.On("SendEmail", "jane@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(store, mailer, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, baseReq()))
	first, err := store.GetPending(ctx, "jane@x.com")
	require.NoError(t, err)

	// Force a distinguishable prior code, then re-request.
	first.OTP = "000000"
	require.NoError(t, store.PutPending(ctx, first))
	require.NoError(t, svc.Request(ctx, baseReq()))

	second, err := store.GetPending(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "000000", second.OTP)

	// The overwritten code no longer confirms.
	_, err = svc.Confirm(ctx, "jane@x.com", "000000")
	assert.ErrorIs(t, err, domain.ErrOTPMismatch)
}

// --- Confirm tests ---

func TestConfirm_WrongCodeTwice_LeavesPendingUnchanged(t *testing.T) {
	store := memory.New()
	mailer := &mockMailer{}
	mailer.On("SendEmail", "jane@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(store, mailer, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, baseReq()))
	before, err := store.GetPending(ctx, "jane@x.com")
	require.NoError(t, err)

	wrong := "000000"
	require.NotEqual(t, wrong, before.OTP)
	for i := 0; i < 2; i++ {
		_, err := svc.Confirm(ctx, "jane@x.com", wrong)
		assert.ErrorIs(t, err, domain.ErrOTPMismatch)
	}

	after, err := store.GetPending(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, *before, *after)
}

func TestConfirm_Expired_DeletesPending(t *testing.T) {
	store := memory.New()
	mailer := &mockMailer{}
	now := time.Now()
	ctx := context.Background()

	require.NoError(t, store.PutPending(ctx, &domain.PendingRegistration{
		Email:     "jane@x.com",
		Name:      "Jane",
		Mobile:    "9876543210",
		City:      "Pune",
		OTP:       "123456",
		ExpiresAt: now.Add(-time.Second).Unix(),
	}))

	svc := NewServiceAt(store, mailer, 10*time.Minute, func() time.Time { return now })

	_, err := svc.Confirm(ctx, "jane@x.com", "123456")
	assert.ErrorIs(t, err, domain.ErrExpired)

	_, err = store.GetPending(ctx, "jane@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_NoPending(t *testing.T) {
	store := memory.New()
	svc := NewService(store, &mockMailer{}, 10*time.Minute)

	_, err := svc.Confirm(context.Background(), "jane@x.com", "123456")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirm_WelcomeEmailFailure_DoesNotRollBack(t *testing.T) {
	store := memory.New()
	mailer := &mockMailer{}
	// OTP email succeeds, welcome email fails.
	mailer.On("SendEmail", "jane@x.com", "Your OTP for Registration", mock.Anything).Return(nil)
	mailer.On("SendEmail", "jane@x.com", "Welcome to Our Platform", mock.Anything).Return(assert.AnError)

	svc := NewService(store, mailer, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, baseReq()))
	pending, err := store.GetPending(ctx, "jane@x.com")
	require.NoError(t, err)

	u, err := svc.Confirm(ctx, "jane@x.com", pending.OTP)
	require.NoError(t, err)

	got, err := store.GetUserByEmail(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}
