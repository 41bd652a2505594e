package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadheryan/internmatch/constant"
	"github.com/muhammadheryan/internmatch/model"
	otprepo "github.com/muhammadheryan/internmatch/repository/otp"
	"github.com/muhammadheryan/internmatch/thirdparty/notifier"
	"github.com/muhammadheryan/internmatch/utils/errors"
	"github.com/muhammadheryan/internmatch/utils/logger"
	phoneutil "github.com/muhammadheryan/internmatch/utils/phone"
	"go.uber.org/zap"
)

const (
	DefaultTTL         = 5 * time.Minute
	DefaultMaxAttempts = 3
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type OTPApp interface {
	Issue(ctx context.Context, req *model.OTPIssueRequest) (*model.OTPIssueResult, error)
	// Verify consumes the session on success and returns it.
	Verify(ctx context.Context, email, code, sessionID string) (*model.OTPSession, error)
}

// Deliverer hands a code to the user and reports which channel took it
type Deliverer interface {
	Notify(ctx context.Context, msg notifier.Message) (string, error)
}

type Config struct {
	TTL         time.Duration
	MaxAttempts int
}

type otpAppImpl struct {
	otpRepo     otprepo.OTPRepository
	deliverer   Deliverer
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewOTPApp(otpRepo otprepo.OTPRepository, deliverer Deliverer, cfg Config) OTPApp {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	return &otpAppImpl{
		otpRepo:     otpRepo,
		deliverer:   deliverer,
		ttl:         cfg.TTL,
		maxAttempts: cfg.MaxAttempts,
		now:         time.Now,
	}
}

// IsValidEmail reports whether email looks like local@domain.tld
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func (s *otpAppImpl) Issue(ctx context.Context, req *model.OTPIssueRequest) (*model.OTPIssueResult, error) {
	if !IsValidEmail(req.Email) {
		return nil, errors.SetCustomError(constant.ErrInvalidEmail)
	}

	code, err := generateCode()
	if err != nil {
		logger.Error("[OTP.Issue] err generateCode", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	phone := ""
	if strings.TrimSpace(req.PhoneNumber) != "" {
		phone = phoneutil.Format(req.PhoneNumber)
	}

	sessionID := uuid.NewString()
	session := &model.OTPSession{
		Email:       req.Email,
		PhoneNumber: phone,
		OTP:         code,
		ExpiresAt:   s.now().Add(s.ttl),
		Attempts:    0,
	}
	if err := s.otpRepo.Create(ctx, sessionID, session); err != nil {
		logger.Error("[OTP.Issue] err otpRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	channel, err := s.deliverer.Notify(ctx, notifier.Message{
		Email: req.Email,
		Phone: phone,
		Code:  code,
		TTL:   s.ttl,
	})
	if err != nil {
		logger.Error("[OTP.Issue] err deliverer.Notify", zap.String("email", req.Email), zap.String("error", err.Error()))
		// an undeliverable code must not stay verifiable
		if delErr := s.otpRepo.Delete(context.WithoutCancel(ctx), sessionID); delErr != nil {
			logger.Error("[OTP.Issue] err otpRepo.Delete", zap.String("error", delErr.Error()))
		}
		return nil, errors.SetCustomError(constant.ErrOTPDelivery)
	}

	logger.Info("[OTP.Issue] otp issued", zap.String("email", req.Email), zap.String("channel", channel))
	return &model.OTPIssueResult{
		SessionID: sessionID,
		Channel:   channel,
		Delivered: channel != notifier.ChannelConsole,
	}, nil
}

func (s *otpAppImpl) Verify(ctx context.Context, email, code, sessionID string) (*model.OTPSession, error) {
	var (
		verdict  constant.ErrorType
		verified model.OTPSession
	)
	now := s.now()

	found, err := s.otpRepo.Apply(ctx, sessionID, func(session *model.OTPSession) model.SessionAction {
		if !now.Before(session.ExpiresAt) {
			verdict = constant.ErrSessionExpired
			return model.SessionDelete
		}
		if session.Email != email {
			verdict = constant.ErrEmailMismatch
			return model.SessionKeep
		}
		if session.Attempts >= s.maxAttempts {
			verdict = constant.ErrTooManyAttempts
			return model.SessionDelete
		}
		if session.OTP != code {
			session.Attempts++
			if session.Attempts >= s.maxAttempts {
				verdict = constant.ErrTooManyAttempts
				return model.SessionDelete
			}
			verdict = constant.ErrInvalidOTP
			return model.SessionSave
		}

		verdict = constant.Successful
		verified = *session
		return model.SessionDelete
	})
	if err != nil {
		logger.Error("[OTP.Verify] err otpRepo.Apply", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if !found {
		return nil, errors.SetCustomError(constant.ErrSessionNotFound)
	}
	if verdict != constant.Successful {
		return nil, errors.SetCustomError(verdict)
	}
	return &verified, nil
}

// generateCode returns a uniformly random code in [100000, 999999]
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
