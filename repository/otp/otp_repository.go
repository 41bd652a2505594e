package otp

import (
	"context"
	stderrors "errors"

	"github.com/muhammadheryan/internmatch/model"
	"github.com/muhammadheryan/internmatch/repository/filestore"
)

const fileName = "otp-sessions.json"

// errUnchanged aborts a store update without rewriting the file.
var errUnchanged = stderrors.New("unchanged")

type sessions = map[string]model.OTPSession

type OTPRepository interface {
	Create(ctx context.Context, sessionID string, session *model.OTPSession) error
	Get(ctx context.Context, sessionID string) (*model.OTPSession, error)
	Delete(ctx context.Context, sessionID string) error
	// Apply runs fn on the session under the store lock and then keeps, saves
	// or deletes it according to the returned action. found is false when no
	// session exists for sessionID, in which case fn is not called.
	Apply(ctx context.Context, sessionID string, fn func(session *model.OTPSession) model.SessionAction) (found bool, err error)
}

type File struct {
	store *filestore.Store[sessions]
}

func NewOTPRepository(dataDir string) (OTPRepository, error) {
	store, err := filestore.New(dataDir, fileName, func() sessions {
		return sessions{}
	})
	if err != nil {
		return nil, err
	}
	return &File{store: store}, nil
}

func (f *File) Create(ctx context.Context, sessionID string, session *model.OTPSession) error {
	return f.store.Update(ctx, func(data sessions) (sessions, error) {
		data[sessionID] = *session
		return data, nil
	})
}

func (f *File) Get(ctx context.Context, sessionID string) (*model.OTPSession, error) {
	data, err := f.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := data[sessionID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *File) Delete(ctx context.Context, sessionID string) error {
	err := f.store.Update(ctx, func(data sessions) (sessions, error) {
		if _, ok := data[sessionID]; !ok {
			return nil, errUnchanged
		}
		delete(data, sessionID)
		return data, nil
	})
	if stderrors.Is(err, errUnchanged) {
		return nil
	}
	return err
}

func (f *File) Apply(ctx context.Context, sessionID string, fn func(session *model.OTPSession) model.SessionAction) (bool, error) {
	found := false
	err := f.store.Update(ctx, func(data sessions) (sessions, error) {
		s, ok := data[sessionID]
		if !ok {
			return nil, errUnchanged
		}
		found = true

		switch fn(&s) {
		case model.SessionSave:
			data[sessionID] = s
		case model.SessionDelete:
			delete(data, sessionID)
		default:
			return nil, errUnchanged
		}
		return data, nil
	})
	if stderrors.Is(err, errUnchanged) {
		err = nil
	}
	return found, err
}
