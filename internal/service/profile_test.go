package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/glossyapp/glossy-server/internal/errors"
	"github.com/glossyapp/glossy-server/internal/media/images"
	"github.com/glossyapp/glossy-server/internal/store"
)

func newProfileEnv(t *testing.T) (*ProfileService, *store.Store) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	storage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)
	processor := images.NewProcessor(storage, logger)

	return NewProfileService(st, processor, logger), st
}

func TestProfileService_GetHidesPasswordHash(t *testing.T) {
	svc, st := newProfileEnv(t)
	ctx := context.Background()

	seedUser(t, st, "user-a", "a@example.com")
	stored, err := st.Users.Get(ctx, "user-a")
	require.NoError(t, err)
	stored.PasswordHash = "argon2id$secret"
	require.NoError(t, st.Users.Update(ctx, "user-a", stored))

	profile, err := svc.Get(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, profile.PasswordHash)
	assert.Equal(t, "a@example.com", profile.Email)
}

func TestProfileService_GetMissing(t *testing.T) {
	svc, _ := newProfileEnv(t)

	_, err := svc.Get(context.Background(), "user-ghost")
	assertErrCode(t, err, domainerrors.CodeNotFound)
}

func TestProfileService_Update(t *testing.T) {
	svc, st := newProfileEnv(t)
	ctx := context.Background()

	seedUser(t, st, "user-a", "a@example.com")

	displayName := "The Editor"
	tagline := "Print is not dead"
	updated, err := svc.Update(ctx, "user-a", UpdateProfileRequest{
		DisplayName: &displayName,
		Tagline:     &tagline,
		Interests:   []string{"typography", "gravel cycling"},
	})
	require.NoError(t, err)
	assert.Equal(t, "The Editor", updated.DisplayName)
	assert.Equal(t, "Print is not dead", updated.Tagline)
	assert.Equal(t, []string{"typography", "gravel cycling"}, updated.Interests)

	// Untouched fields survive a partial update.
	newTagline := "Long live print"
	updated, err = svc.Update(ctx, "user-a", UpdateProfileRequest{Tagline: &newTagline})
	require.NoError(t, err)
	assert.Equal(t, "The Editor", updated.DisplayName)
	assert.Equal(t, "Long live print", updated.Tagline)
}

func TestProfileService_UploadAvatar(t *testing.T) {
	svc, st := newProfileEnv(t)
	ctx := context.Background()

	seedUser(t, st, "user-a", "a@example.com")

	updated, err := svc.UploadAvatar(ctx, "user-a", testPNG(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.AvatarPath, images.PublicPrefix))

	_, err = svc.UploadAvatar(ctx, "user-a", []byte("not an image"))
	assertErrCode(t, err, domainerrors.CodeValidation)

	_, err = svc.UploadAvatar(ctx, "user-ghost", testPNG(t))
	assertErrCode(t, err, domainerrors.CodeNotFound)
}
