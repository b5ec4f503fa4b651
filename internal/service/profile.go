package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glossyapp/glossy-server/internal/domain"
	domainerrors "github.com/glossyapp/glossy-server/internal/errors"
	"github.com/glossyapp/glossy-server/internal/id"
	"github.com/glossyapp/glossy-server/internal/media/images"
	"github.com/glossyapp/glossy-server/internal/store"
)

// ProfileService manages user profile data and avatars.
type ProfileService struct {
	store     *store.Store
	processor *images.Processor
	logger    *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, processor *images.Processor, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:     store,
		processor: processor,
		logger:    logger,
	}
}

// UpdateProfileRequest contains the mutable profile fields.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName *string  `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
	Tagline     *string  `json:"tagline,omitempty" validate:"omitempty,max=200"`
	Interests   []string `json:"interests,omitempty" validate:"omitempty,max=20,dive,max=50"`
}

// Get returns the public profile of a user.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	// Never hand the hash out, even to internal callers of the profile view.
	user.PasswordHash = ""
	return user, nil
}

// Update modifies the caller's own profile.
func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Tagline != nil {
		user.Tagline = *req.Tagline
	}
	if req.Interests != nil {
		user.Interests = req.Interests
	}
	user.Touch()

	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// UploadAvatar processes raw image data and sets it as the user's avatar.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, data []byte) (*domain.User, error) {
	if len(data) == 0 {
		return nil, domainerrors.Validation("avatar image data is empty")
	}

	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	imageID, err := id.Generate("img")
	if err != nil {
		return nil, fmt.Errorf("generate image ID: %w", err)
	}

	if _, err := s.processor.ProcessAndStore(imageID, data); err != nil {
		return nil, domainerrors.Validation("avatar image could not be processed").WithCause(err)
	}

	user.AvatarPath = images.PublicPrefix + imageID + ".jpg"
	user.Touch()

	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}
