package model

import "time"

// CredentialEntity is a password record persisted in credentials.json
type CredentialEntity struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	Email        *string   `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EmailValue returns the email or an empty string
func (c *CredentialEntity) EmailValue() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}

type CreateCredentialRequest struct {
	UserID        string
	Username      string
	Email         string
	PasswordPlain string
}
