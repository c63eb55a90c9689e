package otp

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registration-api/internal/domain"
	"github.com/registration-api/internal/storage/memory"
)

func TestGenerate_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func pendingAt(email, code string, expiresAt int64) *domain.PendingRegistration {
	return &domain.PendingRegistration{
		Email:     email,
		Name:      "Jane",
		Mobile:    "9876543210",
		City:      "Pune",
		OTP:       code,
		ExpiresAt: expiresAt,
	}
}

func TestVerify_NotFound(t *testing.T) {
	store := memory.New()
	v := NewVerifier(store)

	_, err := v.Verify(context.Background(), "nobody@x.com", "123456")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerify_Expired_DeletesRecord(t *testing.T) {
	store := memory.New()
	now := time.Now()
	require.NoError(t, store.PutPending(context.Background(), pendingAt("jane@x.com", "123456", now.Add(-time.Minute).Unix())))

	v := NewVerifierAt(store, func() time.Time { return now })

	// Expired wins even when the code is correct.
	_, err := v.Verify(context.Background(), "jane@x.com", "123456")
	assert.ErrorIs(t, err, domain.ErrExpired)

	_, err = store.GetPending(context.Background(), "jane@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerify_Mismatch_KeepsRecord(t *testing.T) {
	store := memory.New()
	now := time.Now()
	orig := pendingAt("jane@x.com", "123456", now.Add(10*time.Minute).Unix())
	require.NoError(t, store.PutPending(context.Background(), orig))

	v := NewVerifierAt(store, func() time.Time { return now })

	// Two wrong attempts in a row: both mismatch, record untouched.
	for i := 0; i < 2; i++ {
		_, err := v.Verify(context.Background(), "jane@x.com", "654321")
		assert.ErrorIs(t, err, domain.ErrOTPMismatch)
	}

	p, err := store.GetPending(context.Background(), "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, *orig, *p)
}

func TestVerify_Valid_ReturnsRecord(t *testing.T) {
	store := memory.New()
	now := time.Now()
	orig := pendingAt("jane@x.com", "123456", now.Add(10*time.Minute).Unix())
	require.NoError(t, store.PutPending(context.Background(), orig))

	v := NewVerifierAt(store, func() time.Time { return now })

	p, err := v.Verify(context.Background(), "jane@x.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, *orig, *p)

	// Deletion is the caller's job; the record is still there.
	_, err = store.GetPending(context.Background(), "jane@x.com")
	assert.NoError(t, err)
}
