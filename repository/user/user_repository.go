package user

import (
	"context"
	"strings"
	"time"

	"github.com/muhammadheryan/internmatch/constant"
	"github.com/muhammadheryan/internmatch/model"
	"github.com/muhammadheryan/internmatch/repository/filestore"
	"github.com/muhammadheryan/internmatch/utils/errors"
)

const fileName = "users.json"

type UserRepository interface {
	Create(ctx context.Context, user *model.UserEntity) (*model.UserEntity, error)
	FindByID(ctx context.Context, id string) (*model.UserEntity, error)
	FindByEmail(ctx context.Context, email string) (*model.UserEntity, error)
	FindByPhone(ctx context.Context, phoneNumber string) (*model.UserEntity, error)
	Update(ctx context.Context, id string, update *model.UserUpdate) (*model.UserEntity, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.UserEntity, error)
}

type File struct {
	store *filestore.Store[[]model.UserEntity]
	now   func() time.Time
}

func NewUserRepository(dataDir string) (UserRepository, error) {
	store, err := filestore.New(dataDir, fileName, func() []model.UserEntity {
		return []model.UserEntity{}
	})
	if err != nil {
		return nil, err
	}
	return &File{store: store, now: time.Now}, nil
}

// Create appends a user. A user with the same non-empty phone number is
// returned as is instead of being duplicated; email is not checked here.
func (f *File) Create(ctx context.Context, user *model.UserEntity) (*model.UserEntity, error) {
	var created model.UserEntity
	err := f.store.Update(ctx, func(users []model.UserEntity) ([]model.UserEntity, error) {
		if user.PhoneNumber != "" {
			if i := indexOf(users, func(u *model.UserEntity) bool { return u.PhoneNumber == user.PhoneNumber }); i >= 0 {
				created = users[i]
				return users, nil
			}
		}

		now := f.now().UTC()
		created = *user
		if created.CreatedAt.IsZero() {
			created.CreatedAt = now
		}
		created.UpdatedAt = now
		return append(users, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (f *File) FindByID(ctx context.Context, id string) (*model.UserEntity, error) {
	return f.find(ctx, func(u *model.UserEntity) bool { return u.ID == id })
}

func (f *File) FindByEmail(ctx context.Context, email string) (*model.UserEntity, error) {
	if email == "" {
		return nil, nil
	}
	return f.find(ctx, func(u *model.UserEntity) bool { return strings.EqualFold(u.Email, email) })
}

func (f *File) FindByPhone(ctx context.Context, phoneNumber string) (*model.UserEntity, error) {
	if phoneNumber == "" {
		return nil, nil
	}
	return f.find(ctx, func(u *model.UserEntity) bool { return u.PhoneNumber == phoneNumber })
}

func (f *File) Update(ctx context.Context, id string, update *model.UserUpdate) (*model.UserEntity, error) {
	var updated model.UserEntity
	err := f.store.Update(ctx, func(users []model.UserEntity) ([]model.UserEntity, error) {
		i := indexOf(users, func(u *model.UserEntity) bool { return u.ID == id })
		if i < 0 {
			return nil, errors.SetCustomError(constant.ErrUserNotFound)
		}

		if update != nil && update.PhoneNumber != nil && *update.PhoneNumber != "" {
			owner := indexOf(users, func(u *model.UserEntity) bool { return u.PhoneNumber == *update.PhoneNumber })
			if owner >= 0 && owner != i {
				return nil, errors.SetCustomError(constant.ErrDuplicatePhone)
			}
		}

		u := &users[i]
		if update != nil {
			if update.Name != nil {
				u.Name = *update.Name
			}
			if update.Email != nil {
				u.Email = *update.Email
			}
			if update.PhoneNumber != nil {
				u.PhoneNumber = *update.PhoneNumber
			}
		}
		u.UpdatedAt = f.now().UTC()
		updated = *u
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (f *File) Delete(ctx context.Context, id string) error {
	return f.store.Update(ctx, func(users []model.UserEntity) ([]model.UserEntity, error) {
		i := indexOf(users, func(u *model.UserEntity) bool { return u.ID == id })
		if i < 0 {
			return nil, errors.SetCustomError(constant.ErrUserNotFound)
		}
		return append(users[:i], users[i+1:]...), nil
	})
}

func (f *File) List(ctx context.Context) ([]model.UserEntity, error) {
	return f.store.Read(ctx)
}

func (f *File) find(ctx context.Context, match func(u *model.UserEntity) bool) (*model.UserEntity, error) {
	users, err := f.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(users, match); i >= 0 {
		u := users[i]
		return &u, nil
	}
	return nil, nil
}

func indexOf(users []model.UserEntity, match func(u *model.UserEntity) bool) int {
	for i := range users {
		if match(&users[i]) {
			return i
		}
	}
	return -1
}
