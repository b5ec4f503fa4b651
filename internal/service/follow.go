package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glossyapp/glossy-server/internal/domain"
	domainerrors "github.com/glossyapp/glossy-server/internal/errors"
	"github.com/glossyapp/glossy-server/internal/store"
)

// FollowService manages the social graph: who follows whom.
type FollowService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewFollowService creates a new follow service.
func NewFollowService(store *store.Store, logger *slog.Logger) *FollowService {
	return &FollowService{
		store:  store,
		logger: logger,
	}
}

// Follow makes follower follow followee. Idempotent: re-following an
// already-followed user succeeds without creating a second edge.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return domainerrors.Validation("you cannot follow yourself")
	}

	// The followee must exist.
	if _, err := s.store.Users.Get(ctx, followeeID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get user: %w", err)
	}

	followID := domain.FollowID(followerID, followeeID)
	follow := &domain.Follow{
		ID:         followID,
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now(),
	}

	if err := s.store.Follows.Create(ctx, followID, follow); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			// Already following: nothing to do.
			return nil
		}
		return fmt.Errorf("create follow: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User followed",
			"follower_id", followerID,
			"followee_id", followeeID,
		)
	}

	return nil
}

// Unfollow removes the follow edge. Idempotent.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if err := s.store.Follows.Delete(ctx, domain.FollowID(followerID, followeeID)); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// Followers returns the users following the given user.
func (s *FollowService) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	follows, err := s.store.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}

	users := make([]*domain.User, 0, len(follows))
	for _, f := range follows {
		user, err := s.store.Users.Get(ctx, f.FollowerID)
		if err != nil {
			// Dangling edge from a deleted account: skip it.
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// Following returns the users the given user follows.
func (s *FollowService) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	follows, err := s.store.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}

	users := make([]*domain.User, 0, len(follows))
	for _, f := range follows {
		user, err := s.store.Users.Get(ctx, f.FolloweeID)
		if err != nil {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}
