package credential

import (
	"context"
	"strings"
	"time"

	"github.com/muhammadheryan/internmatch/constant"
	"github.com/muhammadheryan/internmatch/model"
	"github.com/muhammadheryan/internmatch/repository/filestore"
	"github.com/muhammadheryan/internmatch/utils/errors"
)

const fileName = "credentials.json"

type CredentialRepository interface {
	Create(ctx context.Context, cred *model.CredentialEntity) (*model.CredentialEntity, error)
	FindByUsername(ctx context.Context, username string) (*model.CredentialEntity, error)
	FindByEmail(ctx context.Context, email string) (*model.CredentialEntity, error)
	Delete(ctx context.Context, username string) error
}

type File struct {
	store *filestore.Store[[]model.CredentialEntity]
	now   func() time.Time
}

func NewCredentialRepository(dataDir string) (CredentialRepository, error) {
	store, err := filestore.New(dataDir, fileName, func() []model.CredentialEntity {
		return []model.CredentialEntity{}
	})
	if err != nil {
		return nil, err
	}
	return &File{store: store, now: time.Now}, nil
}

// Create stores a credential unless the username, or a non-empty email,
// is already taken. Both comparisons ignore case.
func (f *File) Create(ctx context.Context, cred *model.CredentialEntity) (*model.CredentialEntity, error) {
	var created model.CredentialEntity
	err := f.store.Update(ctx, func(list []model.CredentialEntity) ([]model.CredentialEntity, error) {
		if indexOf(list, byUsername(cred.Username)) >= 0 {
			return nil, errors.SetCustomError(constant.ErrDuplicateUsername)
		}
		email := cred.EmailValue()
		if email != "" && indexOf(list, byEmail(email)) >= 0 {
			return nil, errors.SetCustomError(constant.ErrDuplicateEmail)
		}

		now := f.now().UTC()
		created = *cred
		if email == "" {
			created.Email = nil
		}
		created.CreatedAt = now
		created.UpdatedAt = now
		return append(list, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (f *File) FindByUsername(ctx context.Context, username string) (*model.CredentialEntity, error) {
	if username == "" {
		return nil, nil
	}
	return f.find(ctx, byUsername(username))
}

func (f *File) FindByEmail(ctx context.Context, email string) (*model.CredentialEntity, error) {
	if email == "" {
		return nil, nil
	}
	return f.find(ctx, byEmail(email))
}

func (f *File) Delete(ctx context.Context, username string) error {
	return f.store.Update(ctx, func(list []model.CredentialEntity) ([]model.CredentialEntity, error) {
		i := indexOf(list, byUsername(username))
		if i < 0 {
			return nil, errors.SetCustomError(constant.ErrUserNotFound)
		}
		return append(list[:i], list[i+1:]...), nil
	})
}

func (f *File) find(ctx context.Context, match func(c *model.CredentialEntity) bool) (*model.CredentialEntity, error) {
	list, err := f.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(list, match); i >= 0 {
		c := list[i]
		return &c, nil
	}
	return nil, nil
}

func byUsername(username string) func(c *model.CredentialEntity) bool {
	return func(c *model.CredentialEntity) bool {
		return strings.EqualFold(c.Username, username)
	}
}

func byEmail(email string) func(c *model.CredentialEntity) bool {
	return func(c *model.CredentialEntity) bool {
		return c.Email != nil && strings.EqualFold(*c.Email, email)
	}
}

func indexOf(list []model.CredentialEntity, match func(c *model.CredentialEntity) bool) int {
	for i := range list {
		if match(&list[i]) {
			return i
		}
	}
	return -1
}
