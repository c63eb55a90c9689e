// Package auth verifies the shared admin secret.
package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier checks an admin-supplied secret.
type CredentialVerifier interface {
	Verify(secret string) bool
}

// Static compares against a plaintext shared secret in constant time.
type Static struct {
	secret string
}

func NewStatic(secret string) *Static { return &Static{secret: secret} }

func (s *Static) Verify(secret string) bool {
	if s.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.secret), []byte(secret)) == 1
}

// Bcrypt compares against a bcrypt hash of the shared secret.
type Bcrypt struct {
	hash string
}

func NewBcrypt(hash string) *Bcrypt { return &Bcrypt{hash: hash} }

func (b *Bcrypt) Verify(secret string) bool {
	if b.hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(b.hash), []byte(secret)) == nil
}
