// Package registration orchestrates the two-phase, OTP-gated registration
// workflow: request (validate, issue + bind code, deliver) and confirm
// (verify code, promote the pending record to a user).
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/registration-api/internal/domain"
	"github.com/registration-api/internal/infrastructure/smtp"
	"github.com/registration-api/internal/pkg/id"
	"github.com/registration-api/internal/pkg/otp"
	"github.com/registration-api/internal/pkg/validate"
)

type Service interface {
	// Request starts a registration: it validates input, rejects emails that
	// already belong to a confirmed user, binds a fresh OTP to a pending
	// registration and emails the code. A pre-existing pending registration
	// for the same email is silently overwritten, which invalidates any
	// previously issued code.
	Request(ctx context.Context, req domain.RegisterRequest) error

	// Confirm verifies the submitted code and, on success, promotes the
	// pending registration into a User and deletes the pending record.
	Confirm(ctx context.Context, email, code string) (*domain.User, error)
}

type store interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	PutUser(ctx context.Context, u *domain.User) error
	GetPending(ctx context.Context, email string) (*domain.PendingRegistration, error)
	PutPending(ctx context.Context, p *domain.PendingRegistration) error
	DeletePending(ctx context.Context, email string) error
}

type service struct {
	store    store
	verifier *otp.Verifier
	mailer   smtp.Mailer
	ttl      time.Duration
	now      func() time.Time
}

func NewService(st store, mailer smtp.Mailer, ttl time.Duration) Service {
	return &service{
		store:    st,
		verifier: otp.NewVerifier(st),
		mailer:   mailer,
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewServiceAt is like NewService with an injectable clock, for tests.
func NewServiceAt(st store, mailer smtp.Mailer, ttl time.Duration, now func() time.Time) Service {
	return &service{
		store:    st,
		verifier: otp.NewVerifierAt(st, now),
		mailer:   mailer,
		ttl:      ttl,
		now:      now,
	}
}

func (s *service) Request(ctx context.Context, req domain.RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	// Duplicate check happens before any OTP is issued.
	_, err := s.store.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return fmt.Errorf("email %s already registered: %w", req.Email, domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}
	pending := &domain.PendingRegistration{
		Email:     req.Email,
		Name:      req.Name,
		Mobile:    req.Mobile,
		City:      req.City,
		OTP:       code,
		ExpiresAt: s.now().Add(s.ttl).Unix(),
	}
	if err := s.store.PutPending(ctx, pending); err != nil {
		return err
	}

	body := fmt.Sprintf("Your OTP for registration is: %s. This OTP will expire in %d minutes.",
		code, int(s.ttl.Minutes()))
	if err := s.mailer.SendEmail(req.Email, "Your OTP for Registration", body); err != nil {
		// Roll back so the user can retry with the same email.
		if delErr := s.store.DeletePending(ctx, req.Email); delErr != nil {
			slog.Warn("failed to roll back pending registration", "email", req.Email, "err", delErr)
		}
		slog.Error("otp delivery failed", "email", req.Email, "err", err)
		return fmt.Errorf("send otp to %s: %w", req.Email, domain.ErrDelivery)
	}
	return nil
}

func (s *service) Confirm(ctx context.Context, email, code string) (*domain.User, error) {
	pending, err := s.verifier.Verify(ctx, email, code)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &domain.User{
		ID:           id.New(),
		Name:         pending.Name,
		Email:        pending.Email,
		Mobile:       pending.Mobile,
		City:         pending.City,
		RegisteredAt: now,
		CreatedAt:    now,
	}
	if err := s.store.PutUser(ctx, u); err != nil {
		return nil, err
	}
	if err := s.store.DeletePending(ctx, email); err != nil && !errors.Is(err, domain.ErrNotFound) {
		slog.Warn("failed to delete consumed pending registration", "email", email, "err", err)
	}

	// Welcome email is best-effort; the registration stands either way.
	welcome := fmt.Sprintf("Dear %s,\n\nWelcome to our platform! We're excited to have you on board.\n\nBest regards,\nThe Team", u.Name)
	if err := s.mailer.SendEmail(u.Email, "Welcome to Our Platform", welcome); err != nil {
		slog.Warn("welcome email failed", "email", u.Email, "err", err)
	}

	return u, nil
}
