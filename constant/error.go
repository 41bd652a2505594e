package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrInvalidRequest
	ErrEmailRequired
	ErrOTPFieldsRequired
	ErrInvalidEmail
	ErrSessionNotFound
	ErrSessionExpired
	ErrEmailMismatch
	ErrTooManyAttempts
	ErrInvalidOTP
	ErrOTPDelivery
	ErrDuplicateUsername
	ErrDuplicateEmail
	ErrInvalidCredentials
	ErrUserNotFound
	ErrMissingToken
	ErrInvalidToken
	ErrTooManyRequests
	ErrForbidden
	ErrChatNotConfigured
	ErrChatUpstream
	ErrRecommendUpstream
	ErrDuplicatePhone
	ErrInvalidUsername
	ErrInvalidPassword
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:            "success",
	ErrInternal:           "error internal",
	ErrInvalidRequest:     "invalid request",
	ErrEmailRequired:      "Email is required",
	ErrOTPFieldsRequired:  "Email, OTP, and session ID are required",
	ErrInvalidEmail:       "Invalid email format",
	ErrSessionNotFound:    "Invalid session",
	ErrSessionExpired:     "OTP has expired",
	ErrEmailMismatch:      "Email mismatch",
	ErrTooManyAttempts:    "Too many failed attempts",
	ErrInvalidOTP:         "Invalid OTP",
	ErrOTPDelivery:        "Failed to send OTP",
	ErrDuplicateUsername:  "Username already exists",
	ErrDuplicateEmail:     "Email already exists",
	ErrInvalidCredentials: "Invalid credentials",
	ErrUserNotFound:       "User not found",
	ErrMissingToken:       "Access denied. No token provided.",
	ErrInvalidToken:       "Invalid token.",
	ErrTooManyRequests:    "Too many authentication attempts, please try again later.",
	ErrForbidden:          "Forbidden",
	ErrChatNotConfigured:  "Chat API key not set",
	ErrChatUpstream:       "Failed to get response from assistant",
	ErrRecommendUpstream:  "Failed to fetch recommendations",
	ErrDuplicatePhone:     "Phone number already in use",
	ErrInvalidUsername:    "Username must be 3-50 characters",
	ErrInvalidPassword:    "Password must be 6-72 characters",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:            http.StatusOK,
	ErrInternal:           http.StatusInternalServerError,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrEmailRequired:      http.StatusBadRequest,
	ErrOTPFieldsRequired:  http.StatusBadRequest,
	ErrInvalidEmail:       http.StatusBadRequest,
	ErrSessionNotFound:    http.StatusBadRequest,
	ErrSessionExpired:     http.StatusBadRequest,
	ErrEmailMismatch:      http.StatusBadRequest,
	ErrTooManyAttempts:    http.StatusBadRequest,
	ErrInvalidOTP:         http.StatusBadRequest,
	ErrOTPDelivery:        http.StatusInternalServerError,
	ErrDuplicateUsername:  http.StatusBadRequest,
	ErrDuplicateEmail:     http.StatusBadRequest,
	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrUserNotFound:       http.StatusNotFound,
	ErrMissingToken:       http.StatusUnauthorized,
	ErrInvalidToken:       http.StatusBadRequest,
	ErrTooManyRequests:    http.StatusTooManyRequests,
	ErrForbidden:          http.StatusForbidden,
	ErrChatNotConfigured:  http.StatusInternalServerError,
	ErrChatUpstream:       http.StatusInternalServerError,
	ErrRecommendUpstream:  http.StatusInternalServerError,
	ErrDuplicatePhone:     http.StatusBadRequest,
	ErrInvalidUsername:    http.StatusBadRequest,
	ErrInvalidPassword:    http.StatusBadRequest,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:            "0000",
	ErrInternal:           "0001",
	ErrInvalidRequest:     "0002",
	ErrEmailRequired:      "0003",
	ErrOTPFieldsRequired:  "0004",
	ErrInvalidEmail:       "0005",
	ErrSessionNotFound:    "0006",
	ErrSessionExpired:     "0007",
	ErrEmailMismatch:      "0008",
	ErrTooManyAttempts:    "0009",
	ErrInvalidOTP:         "0010",
	ErrOTPDelivery:        "0011",
	ErrDuplicateUsername:  "0012",
	ErrDuplicateEmail:     "0013",
	ErrInvalidCredentials: "0014",
	ErrUserNotFound:       "0015",
	ErrMissingToken:       "0016",
	ErrInvalidToken:       "0017",
	ErrTooManyRequests:    "0018",
	ErrForbidden:          "0019",
	ErrChatNotConfigured:  "0020",
	ErrChatUpstream:       "0021",
	ErrRecommendUpstream:  "0022",
	ErrDuplicatePhone:     "0023",
	ErrInvalidUsername:    "0024",
	ErrInvalidPassword:    "0025",
}
