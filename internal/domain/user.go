package domain

import "time"

// User is a confirmed registrant. Users are created only by the registration
// workflow after a successful OTP confirmation and are never mutated afterwards.
type User struct {
	ID           string    `json:"id" dynamodbav:"user_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	Mobile       string    `json:"mobile" dynamodbav:"mobile"`
	City         string    `json:"city" dynamodbav:"city"`
	RegisteredAt time.Time `json:"registeredAt" dynamodbav:"registered_at"`
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// RegisterRequest is the body of POST /register. When OTP is empty the request
// starts a new registration; when set it confirms a pending one.
type RegisterRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Mobile string `json:"mobile" validate:"required,len=10,number"`
	City   string `json:"city" validate:"required"`
	OTP    string `json:"otp"`
}
