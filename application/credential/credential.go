package credential

import (
	"context"

	"github.com/muhammadheryan/internmatch/constant"
	"github.com/muhammadheryan/internmatch/model"
	credentialrepo "github.com/muhammadheryan/internmatch/repository/credential"
	"github.com/muhammadheryan/internmatch/utils/errors"
	"github.com/muhammadheryan/internmatch/utils/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost used for stored passwords
const HashCost = 10

// dummyHash is compared against when the identifier is unknown so that
// unknown users and wrong passwords take the same time to reject.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("internmatch-dummy-password"), HashCost)

type CredentialApp interface {
	Create(ctx context.Context, req *model.CreateCredentialRequest) (*model.CredentialEntity, error)
	// Verify returns the matching credential, or nil when the identifier is
	// unknown or the password does not match.
	Verify(ctx context.Context, identifier, password string) (*model.CredentialEntity, error)
	Delete(ctx context.Context, username string) error
}

type credentialAppImpl struct {
	credentialRepo credentialrepo.CredentialRepository
}

func NewCredentialApp(credentialRepo credentialrepo.CredentialRepository) CredentialApp {
	return &credentialAppImpl{credentialRepo: credentialRepo}
}

func (s *credentialAppImpl) Create(ctx context.Context, req *model.CreateCredentialRequest) (*model.CredentialEntity, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.PasswordPlain), HashCost)
	if err != nil {
		logger.Error("[Credential.Create] err bcrypt.GenerateFromPassword", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	entity := &model.CredentialEntity{
		UserID:       req.UserID,
		Username:     req.Username,
		PasswordHash: string(hashed),
	}
	if req.Email != "" {
		email := req.Email
		entity.Email = &email
	}

	created, err := s.credentialRepo.Create(ctx, entity)
	if err != nil {
		if errors.IsType(err, constant.ErrDuplicateUsername) || errors.IsType(err, constant.ErrDuplicateEmail) {
			return nil, err
		}
		logger.Error("[Credential.Create] err credentialRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return created, nil
}

func (s *credentialAppImpl) Verify(ctx context.Context, identifier, password string) (*model.CredentialEntity, error) {
	cred, err := s.credentialRepo.FindByUsername(ctx, identifier)
	if err != nil {
		logger.Error("[Credential.Verify] err credentialRepo.FindByUsername", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if cred == nil {
		cred, err = s.credentialRepo.FindByEmail(ctx, identifier)
		if err != nil {
			logger.Error("[Credential.Verify] err credentialRepo.FindByEmail", zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
	}

	if cred == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return cred, nil
}

func (s *credentialAppImpl) Delete(ctx context.Context, username string) error {
	if err := s.credentialRepo.Delete(ctx, username); err != nil {
		logger.Error("[Credential.Delete] err credentialRepo.Delete", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}
