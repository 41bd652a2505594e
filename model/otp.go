package model

import "time"

// OTPSession is a pending one-time passcode, keyed by session id in otp-sessions.json
type OTPSession struct {
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	OTP         string    `json:"otp"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Attempts    int       `json:"attempts"`
}

// SessionAction tells the OTP repository what to do with a session after inspection
type SessionAction int

const (
	SessionKeep SessionAction = iota
	SessionSave
	SessionDelete
)

type OTPIssueRequest struct {
	Email       string
	PhoneNumber string
}

type OTPIssueResult struct {
	SessionID string
	// Channel names the notifier that accepted the code
	Channel string
	// Delivered is false when the code only reached the server log
	Delivered bool
}
