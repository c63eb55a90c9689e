package domain

// PendingRegistration is an unconfirmed registration attempt awaiting OTP
// proof, keyed by the submitted email. At most one exists per email; a new
// registration request for the same email overwrites it, invalidating any
// previously issued code.
// ExpiresAt is a Unix timestamp used as the DynamoDB TTL attribute.
type PendingRegistration struct {
	Email     string `json:"email" dynamodbav:"email"`
	Name      string `json:"name" dynamodbav:"name"`
	Mobile    string `json:"mobile" dynamodbav:"mobile"`
	City      string `json:"city" dynamodbav:"city"`
	OTP       string `json:"otp" dynamodbav:"otp"`
	ExpiresAt int64  `json:"expiresAt" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
