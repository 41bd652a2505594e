package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	credentialapp "github.com/muhammadheryan/internmatch/application/credential"
	otpapp "github.com/muhammadheryan/internmatch/application/otp"
	"github.com/muhammadheryan/internmatch/constant"
	"github.com/muhammadheryan/internmatch/model"
	userrepo "github.com/muhammadheryan/internmatch/repository/user"
	"github.com/muhammadheryan/internmatch/thirdparty/notifier"
	"github.com/muhammadheryan/internmatch/utils/errors"
	"github.com/muhammadheryan/internmatch/utils/logger"
	"go.uber.org/zap"
)

const (
	MsgSignupSuccess   = "User registered successfully"
	MsgOTPSent         = "OTP sent successfully"
	MsgOTPConsole      = "OTP generated, but no delivery channel is available. Check the server log."
	MsgOTPVerified     = "Authentication successful"
	MsgLogoutSuccess   = "Logged out successfully"
	defaultOTPUserName = "User"
)

type AuthApp interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.MessageResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	SendOTP(ctx context.Context, req *model.SendOTPRequest) (*model.SendOTPResponse, error)
	VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.VerifyOTPResponse, error)
	Me(ctx context.Context, claims *model.TokenClaims) (*model.UserEnvelope, error)
	ValidateToken(ctx context.Context, tokenString string) (*model.TokenClaims, error)
}

type AuthAppImpl struct {
	credentialApp credentialapp.CredentialApp
	otpApp        otpapp.OTPApp
	userRepo      userrepo.UserRepository
	tokens        *TokenIssuer
}

func NewAuthApp(credentialApp credentialapp.CredentialApp, otpApp otpapp.OTPApp, userRepo userrepo.UserRepository, tokens *TokenIssuer) AuthApp {
	return &AuthAppImpl{
		credentialApp: credentialApp,
		otpApp:        otpApp,
		userRepo:      userRepo,
		tokens:        tokens,
	}
}

func (s *AuthAppImpl) Signup(ctx context.Context, req *model.SignupRequest) (*model.MessageResponse, error) {
	// an email that already has a profile (e.g. from an OTP login) can only be
	// reached through that login, the signup has not proven ownership of it
	if req.Email != "" {
		existing, err := s.userRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			logger.Error("[Signup] err userRepo.FindByEmail", zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		if existing != nil {
			return nil, errors.SetCustomError(constant.ErrDuplicateEmail)
		}
	}

	userID := uuid.NewString()
	_, err := s.credentialApp.Create(ctx, &model.CreateCredentialRequest{
		UserID:        userID,
		Username:      req.Username,
		Email:         req.Email,
		PasswordPlain: req.Password,
	})
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = req.Username
	}
	_, err = s.userRepo.Create(ctx, &model.UserEntity{
		ID:    userID,
		Email: req.Email,
		Name:  name,
	})
	if err != nil {
		logger.Error("[Signup] err userRepo.Create", zap.String("error", err.Error()))
		if delErr := s.credentialApp.Delete(context.WithoutCancel(ctx), req.Username); delErr != nil {
			logger.Error("[Signup] err credentialApp.Delete", zap.String("username", req.Username), zap.String("error", delErr.Error()))
		}
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	logger.Info("[Signup] user registered", zap.String("userId", userID), zap.String("username", req.Username))
	return &model.MessageResponse{Message: MsgSignupSuccess}, nil
}

func (s *AuthAppImpl) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	cred, err := s.credentialApp.Verify(ctx, req.Identifier, req.Password)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, errors.SetCustomError(constant.ErrInvalidCredentials)
	}

	user, err := s.userRepo.FindByID(ctx, cred.UserID)
	if err != nil {
		logger.Error("[Login] err userRepo.FindByID", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrUserNotFound)
	}

	email := cred.EmailValue()
	if email == "" {
		email = user.Email
	}

	token, err := s.tokens.Issue(user.ID, cred.Username, email)
	if err != nil {
		logger.Error("[Login] err tokens.Issue", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.LoginResponse{
		Token: token,
		User: model.UserResponse{
			ID:       user.ID,
			Username: cred.Username,
			Email:    email,
			Name:     user.Name,
		},
	}, nil
}

func (s *AuthAppImpl) SendOTP(ctx context.Context, req *model.SendOTPRequest) (*model.SendOTPResponse, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, errors.SetCustomError(constant.ErrEmailRequired)
	}

	res, err := s.otpApp.Issue(ctx, &model.OTPIssueRequest{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}

	msg := MsgOTPSent
	if !res.Delivered || res.Channel == notifier.ChannelConsole {
		msg = MsgOTPConsole
	}
	return &model.SendOTPResponse{Message: msg, SessionID: res.SessionID}, nil
}

func (s *AuthAppImpl) VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.VerifyOTPResponse, error) {
	if req.Email == "" || req.OTP == "" || req.SessionID == "" {
		return nil, errors.SetCustomError(constant.ErrOTPFieldsRequired)
	}

	session, err := s.otpApp.Verify(ctx, req.Email, req.OTP, req.SessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		logger.Error("[VerifyOTP] err userRepo.FindByEmail", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = defaultOTPUserName
		}
		phone, err := s.unclaimedPhone(ctx, session.PhoneNumber)
		if err != nil {
			logger.Error("[VerifyOTP] err userRepo.FindByPhone", zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		user, err = s.userRepo.Create(ctx, &model.UserEntity{
			ID:          uuid.NewString(),
			Email:       req.Email,
			PhoneNumber: phone,
			Name:        name,
		})
		if err != nil {
			logger.Error("[VerifyOTP] err userRepo.Create", zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
	}

	token, err := s.tokens.Issue(user.ID, "", user.Email)
	if err != nil {
		logger.Error("[VerifyOTP] err tokens.Issue", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.VerifyOTPResponse{
		Success: true,
		Message: MsgOTPVerified,
		Token:   token,
		User: model.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
	}, nil
}

// unclaimedPhone returns phone unless another profile already owns it. The
// user store dedupes on phone number, so attaching a claimed phone would hand
// back that other profile.
func (s *AuthAppImpl) unclaimedPhone(ctx context.Context, phone string) (string, error) {
	if phone == "" {
		return "", nil
	}
	owner, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if owner != nil {
		return "", nil
	}
	return phone, nil
}

func (s *AuthAppImpl) Me(ctx context.Context, claims *model.TokenClaims) (*model.UserEnvelope, error) {
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		logger.Error("[Me] err userRepo.FindByID", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrUserNotFound)
	}

	res := model.NewUserResponse(user)
	res.Username = claims.Username
	return &model.UserEnvelope{User: res}, nil
}

func (s *AuthAppImpl) ValidateToken(_ context.Context, tokenString string) (*model.TokenClaims, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		logger.Debug("[ValidateToken] rejected token", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInvalidToken)
	}
	return claims, nil
}
