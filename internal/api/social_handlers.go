package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/follow",
		Summary:     "Follow user",
		Description: "Makes the caller follow the given user. Idempotent.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{id}/follow",
		Summary:     "Unfollow user",
		Description: "Removes the caller's follow of the given user. Idempotent.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/followers",
		Summary:     "List followers",
		Description: "Returns the users following the given user",
		Tags:        []string{"Social"},
	}, s.handleListFollowers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/following",
		Summary:     "List following",
		Description: "Returns the users the given user follows",
		Tags:        []string{"Social"},
	}, s.handleListFollowing)
}

// === DTOs ===

// FollowInput identifies the user being followed or unfollowed.
type FollowInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID to follow or unfollow"`
}

// UserListInput identifies whose social graph to read.
type UserListInput struct {
	ID string `path:"id" doc:"User ID"`
}

// UserListOutput wraps a list of public profiles for Huma.
type UserListOutput struct {
	Body struct {
		Users []ProfileResponse `json:"users" doc:"Public profiles"`
	}
}

// === Handlers ===

func (s *Server) handleFollowUser(ctx context.Context, input *FollowInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Follow.Follow(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Following"}}, nil
}

func (s *Server) handleUnfollowUser(ctx context.Context, input *FollowInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Follow.Unfollow(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Unfollowed"}}, nil
}

func (s *Server) handleListFollowers(ctx context.Context, input *UserListInput) (*UserListOutput, error) {
	users, err := s.services.Follow.Followers(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return mapUserList(users), nil
}

func (s *Server) handleListFollowing(ctx context.Context, input *UserListInput) (*UserListOutput, error) {
	users, err := s.services.Follow.Following(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return mapUserList(users), nil
}
