package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossyapp/glossy-server/internal/domain"
	domainerrors "github.com/glossyapp/glossy-server/internal/errors"
	"github.com/glossyapp/glossy-server/internal/store"
)

func newFollowEnv(t *testing.T) (*FollowService, *store.Store) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return NewFollowService(st, logger), st
}

func seedUser(t *testing.T, st *store.Store, userID, email string) {
	t.Helper()

	user := &domain.User{
		Record:      domain.Record{ID: userID},
		Email:       email,
		DisplayName: userID,
	}
	user.InitTimestamps()
	require.NoError(t, st.Users.Create(context.Background(), userID, user))
}

func TestFollowService_FollowAndList(t *testing.T) {
	svc, st := newFollowEnv(t)
	ctx := context.Background()

	seedUser(t, st, "user-a", "a@example.com")
	seedUser(t, st, "user-b", "b@example.com")
	seedUser(t, st, "user-c", "c@example.com")

	require.NoError(t, svc.Follow(ctx, "user-a", "user-b"))
	require.NoError(t, svc.Follow(ctx, "user-c", "user-b"))
	require.NoError(t, svc.Follow(ctx, "user-a", "user-c"))

	following, err := svc.Following(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, following, 2)

	followers, err := svc.Followers(ctx, "user-b")
	require.NoError(t, err)
	require.Len(t, followers, 2)

	followers, err = svc.Followers(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestFollowService_FollowIsIdempotent(t *testing.T) {
	svc, st := newFollowEnv(t)
	ctx := context.Background()

	seedUser(t, st, "user-a", "a@example.com")
	seedUser(t, st, "user-b", "b@example.com")

	require.NoError(t, svc.Follow(ctx, "user-a", "user-b"))
	require.NoError(t, svc.Follow(ctx, "user-a", "user-b"))

	following, err := svc.Following(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, following, 1)
}

func TestFollowService_FollowMissingUser(t *testing.T) {
	svc, st := newFollowEnv(t)
	seedUser(t, st, "user-a", "a@example.com")

	err := svc.Follow(context.Background(), "user-a", "user-ghost")
	assertErrCode(t, err, domainerrors.CodeNotFound)
}

func TestFollowService_SelfFollowRejected(t *testing.T) {
	svc, st := newFollowEnv(t)
	seedUser(t, st, "user-a", "a@example.com")

	err := svc.Follow(context.Background(), "user-a", "user-a")
	assertErrCode(t, err, domainerrors.CodeValidation)
}

func TestFollowService_Unfollow(t *testing.T) {
	svc, st := newFollowEnv(t)
	ctx := context.Background()

	seedUser(t, st, "user-a", "a@example.com")
	seedUser(t, st, "user-b", "b@example.com")

	require.NoError(t, svc.Follow(ctx, "user-a", "user-b"))
	require.NoError(t, svc.Unfollow(ctx, "user-a", "user-b"))

	following, err := svc.Following(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, following)

	// Unfollowing again is a no-op.
	require.NoError(t, svc.Unfollow(ctx, "user-a", "user-b"))
}
