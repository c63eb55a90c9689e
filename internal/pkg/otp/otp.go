// Package otp issues and verifies the one-time codes that gate registration.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/registration-api/internal/domain"
)

// Generate produces a 6-digit code in [100000, 999999]. Leading-zero codes
// are excluded by construction.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", 100000+n.Int64()), nil
}

// PendingStore is the slice of the persistence adapter the verifier needs.
type PendingStore interface {
	GetPending(ctx context.Context, email string) (*domain.PendingRegistration, error)
	DeletePending(ctx context.Context, email string) error
}

// Verifier validates submitted codes against stored pending registrations.
// Expiry is evaluated lazily here; there is no background sweep.
type Verifier struct {
	store PendingStore
	now   func() time.Time
}

func NewVerifier(store PendingStore) *Verifier {
	return &Verifier{store: store, now: time.Now}
}

// NewVerifierAt is like NewVerifier with an injectable clock, for tests.
func NewVerifierAt(store PendingStore, now func() time.Time) *Verifier {
	return &Verifier{store: store, now: now}
}

// Verify fetches the pending registration for email and checks code against
// it. Outcomes:
//   - no pending record: domain.ErrNotFound
//   - past expiry: domain.ErrExpired, and the record is deleted
//   - wrong code: domain.ErrOTPMismatch, record kept so the user can retry
//   - match: the pending record is returned; the caller deletes it after
//     consuming it
func (v *Verifier) Verify(ctx context.Context, email, code string) (*domain.PendingRegistration, error) {
	p, err := v.store.GetPending(ctx, email)
	if err != nil {
		return nil, err
	}
	if v.now().Unix() > p.ExpiresAt {
		if err := v.store.DeletePending(ctx, email); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("otp for %s: %w", email, domain.ErrExpired)
	}
	if p.OTP != code {
		return nil, fmt.Errorf("otp for %s: %w", email, domain.ErrOTPMismatch)
	}
	return p, nil
}
