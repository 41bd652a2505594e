package otp_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/muhammadheryan/internmatch/model"
	"github.com/muhammadheryan/internmatch/repository/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (otp.OTPRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := otp.NewOTPRepository(dir)
	require.NoError(t, err)
	return repo, dir
}

func sampleSession() *model.OTPSession {
	return &model.OTPSession{
		Email:     "a@b.com",
		OTP:       "123456",
		ExpiresAt: time.Date(2025, 9, 1, 10, 5, 0, 0, time.UTC),
	}
}

func TestCreateGetDelete(t *testing.T) {
	repo, dir := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "s-1", sampleSession()))

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "123456", got.OTP)
	assert.Equal(t, 0, got.Attempts)

	raw, err := os.ReadFile(filepath.Join(dir, "otp-sessions.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"s-1": {`)
	assert.Contains(t, string(raw), `"expiresAt": "2025-09-01T10:05:00Z"`)

	require.NoError(t, repo.Delete(ctx, "s-1"))
	got, err = repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, repo.Delete(ctx, "s-1"))
}

func TestApply_Actions(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, "s-1", sampleSession()))

	found, err := repo.Apply(ctx, "s-1", func(s *model.OTPSession) model.SessionAction {
		s.Attempts++
		return model.SessionSave
	})
	require.NoError(t, err)
	assert.True(t, found)

	got, _ := repo.Get(ctx, "s-1")
	assert.Equal(t, 1, got.Attempts)

	found, err = repo.Apply(ctx, "s-1", func(s *model.OTPSession) model.SessionAction {
		s.Attempts = 99
		return model.SessionKeep
	})
	require.NoError(t, err)
	assert.True(t, found)

	got, _ = repo.Get(ctx, "s-1")
	assert.Equal(t, 1, got.Attempts)

	found, err = repo.Apply(ctx, "s-1", func(s *model.OTPSession) model.SessionAction {
		return model.SessionDelete
	})
	require.NoError(t, err)
	assert.True(t, found)

	got, _ = repo.Get(ctx, "s-1")
	assert.Nil(t, got)
}

func TestApply_MissingSession(t *testing.T) {
	repo, _ := newRepo(t)

	called := false
	found, err := repo.Apply(context.Background(), "nope", func(s *model.OTPSession) model.SessionAction {
		called = true
		return model.SessionDelete
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, called)
}
