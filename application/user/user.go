package user

import (
	"context"
	"strings"

	"github.com/muhammadheryan/internmatch/constant"
	"github.com/muhammadheryan/internmatch/model"
	userrepo "github.com/muhammadheryan/internmatch/repository/user"
	"github.com/muhammadheryan/internmatch/utils/errors"
	"github.com/muhammadheryan/internmatch/utils/logger"
	phoneutil "github.com/muhammadheryan/internmatch/utils/phone"
	"go.uber.org/zap"
)

const MsgProfileUpdated = "Profile updated successfully"

type UserApp interface {
	GetProfile(ctx context.Context, userID string) (*model.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.UpdateProfileResponse, error)
	ListUsers(ctx context.Context) (*model.UserListResponse, error)
}

type UserAppImpl struct {
	userRepo userrepo.UserRepository
}

func NewUserApp(userRepo userrepo.UserRepository) UserApp {
	return &UserAppImpl{
		userRepo: userRepo,
	}
}

func (s *UserAppImpl) GetProfile(ctx context.Context, userID string) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Error("[GetProfile] err userRepo.FindByID", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrUserNotFound)
	}

	res := model.NewUserResponse(user)
	return &res, nil
}

func (s *UserAppImpl) UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.UpdateProfileResponse, error) {
	update := &model.UserUpdate{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.SetCustomError(constant.ErrInvalidRequest)
		}
		update.Name = &name
	}
	if req.PhoneNumber != nil {
		phone := ""
		if strings.TrimSpace(*req.PhoneNumber) != "" {
			phone = phoneutil.Format(*req.PhoneNumber)
		}
		update.PhoneNumber = &phone
	}

	user, err := s.userRepo.Update(ctx, userID, update)
	if err != nil {
		if errors.IsType(err, constant.ErrUserNotFound) || errors.IsType(err, constant.ErrDuplicatePhone) {
			return nil, err
		}
		logger.Error("[UpdateProfile] err userRepo.Update", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.UpdateProfileResponse{
		Message: MsgProfileUpdated,
		User:    model.NewUserResponse(user),
	}, nil
}

func (s *UserAppImpl) ListUsers(ctx context.Context) (*model.UserListResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		logger.Error("[ListUsers] err userRepo.List", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	res := &model.UserListResponse{Users: make([]model.UserResponse, 0, len(users))}
	for i := range users {
		res.Users = append(res.Users, model.NewUserResponse(&users[i]))
	}
	return res, nil
}
