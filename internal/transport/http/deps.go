package http

import (
	"github.com/registration-api/internal/auth"
	"github.com/registration-api/internal/infrastructure/smtp"
	"github.com/registration-api/internal/infrastructure/sns"
	"github.com/registration-api/internal/storage"
)

// Deps holds all infrastructure dependencies for the router. Services are
// constructed inside NewRouter so main only wires infrastructure.
type Deps struct {
	Store         storage.Store
	Mailer        smtp.Mailer
	SMSSender     sns.SMSSender // nil when SNS is not configured
	AdminVerifier auth.CredentialVerifier
}
