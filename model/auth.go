package model

import "github.com/golang-jwt/jwt/v5"

// SignupRequest for username/password registration
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

// LoginRequest accepts a username or an email as identifier
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type SendOTPRequest struct {
	Email       string `json:"email" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

type SendOTPResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type VerifyOTPRequest struct {
	Email     string `json:"email" validate:"required"`
	OTP       string `json:"otp" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
	Name      string `json:"name"`
}

type VerifyOTPResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// TokenClaims is the claim set carried by bearer tokens
type TokenClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
