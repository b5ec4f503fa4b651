package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/glossyapp/glossy-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile",
		Summary:     "Get own profile",
		Description: "Returns the caller's full account profile",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profile",
		Summary:     "Update own profile",
		Description: "Updates display name, tagline, and interests. Omitted fields are untouched.",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadAvatar",
		Method:      http.MethodPost,
		Path:        "/api/v1/profile/avatar",
		Summary:     "Upload avatar",
		Description: "Processes raw image data and sets it as the caller's avatar",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/profile",
		Summary:     "Get public profile",
		Description: "Returns the public profile of any user",
		Tags:        []string{"Profile"},
	}, s.handleGetUserProfile)
}

// === DTOs ===

// GetProfileInput carries the caller's credentials.
type GetProfileInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a full user profile for Huma.
type UserOutput struct {
	Body UserResponse
}

// UpdateProfileRequest contains the mutable profile fields.
type UpdateProfileRequest struct {
	DisplayName *string  `json:"display_name,omitempty" doc:"New display name"`
	Tagline     *string  `json:"tagline,omitempty" doc:"New tagline"`
	Interests   []string `json:"interests,omitempty" doc:"Replacement interests list"`
}

// UpdateProfileInput wraps the profile update for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// UploadAvatarInput carries raw image bytes for the avatar.
type UploadAvatarInput struct {
	Authorization string `header:"Authorization"`
	RawBody       []byte `doc:"Raw image data (JPEG or PNG)"`
}

// GetUserProfileInput identifies the user whose profile to read.
type GetUserProfileInput struct {
	ID string `path:"id" doc:"User ID"`
}

// ProfileOutput wraps a public profile for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// === Handlers ===

func (s *Server) handleGetProfile(ctx context.Context, input *GetProfileInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.Update(ctx, userID, service.UpdateProfileRequest{
		DisplayName: input.Body.DisplayName,
		Tagline:     input.Body.Tagline,
		Interests:   input.Body.Interests,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleUploadAvatar(ctx context.Context, input *UploadAvatarInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.UploadAvatar(ctx, userID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleGetUserProfile(ctx context.Context, input *GetUserProfileInput) (*ProfileOutput, error) {
	user, err := s.services.Profile.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfile(user)}, nil
}
