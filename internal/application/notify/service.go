// Package notify implements the admin bulk-notify fan-out: resolve user IDs
// to addresses and dispatch one message per recipient, aggregating partial
// failures.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/registration-api/internal/domain"
	"github.com/registration-api/internal/infrastructure/smtp"
	"github.com/registration-api/internal/infrastructure/sns"
	"github.com/registration-api/internal/pkg/validate"
)

// maxInFlight bounds concurrent deliveries per request.
const maxInFlight = 8

const defaultSubject = "Message from Admin"

// Request is the body of POST /message.
type Request struct {
	Message string   `json:"message" validate:"required"`
	UserIDs []string `json:"userIds" validate:"required,min=1"`
	Subject string   `json:"subject"`
	Channel string   `json:"channel" validate:"omitempty,oneof=email sms"`
}

// Result reports per-recipient delivery outcomes. Addresses are emails for
// the email channel and mobile numbers for the sms channel.
type Result struct {
	Sent   []string
	Failed []string
}

// AllSent reports whether every attempted delivery succeeded.
func (r *Result) AllSent() bool { return len(r.Failed) == 0 }

type userStore interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type Service interface {
	Send(ctx context.Context, req Request) (*Result, error)
}

type service struct {
	store     userStore
	mailer    smtp.Mailer
	smsSender sns.SMSSender // nil when SNS is not configured
}

func NewService(store userStore, mailer smtp.Mailer, smsSender sns.SMSSender) Service {
	return &service{store: store, mailer: mailer, smsSender: smsSender}
}

// Send resolves each user ID and dispatches the message to every resolved
// recipient. IDs with no matching user are dropped silently — they never
// attempted delivery. Deliveries are independent and unordered; one failure
// does not affect the others.
func (s *service) Send(ctx context.Context, req Request) (*Result, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	if req.Channel == "sms" && s.smsSender == nil {
		return nil, fmt.Errorf("sms channel not configured: %w", domain.ErrBadRequest)
	}
	if req.Subject == "" {
		req.Subject = defaultSubject
	}

	var users []domain.User
	for _, userID := range req.UserIDs {
		u, err := s.store.GetUser(ctx, userID)
		if errors.Is(err, domain.ErrNotFound) {
			slog.Debug("dropping unknown user id", "user_id", userID)
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no valid users found: %w", domain.ErrNotFound)
	}

	var (
		mu     sync.Mutex
		result Result
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	for _, u := range users {
		u := u
		g.Go(func() error {
			addr, err := s.deliver(ctx, &u, req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Error("notification delivery failed", "to", addr, "err", err)
				result.Failed = append(result.Failed, addr)
			} else {
				result.Sent = append(result.Sent, addr)
			}
			return nil
		})
	}
	g.Wait()

	return &result, nil
}

func (s *service) deliver(ctx context.Context, u *domain.User, req Request) (string, error) {
	body := fmt.Sprintf("Dear %s,\n\n%s\n\nBest regards,\nAdmin", u.Name, req.Message)
	if req.Channel == "sms" {
		return u.Mobile, s.smsSender.SendSMS(ctx, u.Mobile, body)
	}
	return u.Email, s.mailer.SendEmail(u.Email, req.Subject, body)
}
