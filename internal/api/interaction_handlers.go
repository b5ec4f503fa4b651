package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/glossyapp/glossy-server/internal/domain"
	"github.com/glossyapp/glossy-server/internal/service"
)

func (s *Server) registerInteractionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "interactMagazine",
		Method:      http.MethodPost,
		Path:        "/api/v1/magazines/{id}/interact",
		Summary:     "AI edit (magazine scope)",
		Description: "Sends the whole magazine plus an instruction to the generation backend and applies the resulting mutation",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleInteractMagazine)

	huma.Register(s.api, huma.Operation{
		OperationID: "interactSection",
		Method:      http.MethodPost,
		Path:        "/api/v1/magazines/{id}/sections/{sectionID}/interact",
		Summary:     "AI edit (section scope)",
		Description: "Sends one section plus an instruction to the generation backend and applies the resulting mutation to that section",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleInteractSection)

	huma.Register(s.api, huma.Operation{
		OperationID: "listInteractions",
		Method:      http.MethodGet,
		Path:        "/api/v1/magazines/{id}/interactions",
		Summary:     "Interaction history",
		Description: "Returns a page of applied AI mutations for a magazine, newest first",
		Tags:        []string{"Interactions"},
	}, s.handleListInteractions)
}

// === DTOs ===

// InteractRequest carries the user's natural-language instruction.
type InteractRequest struct {
	Message string `json:"message" doc:"Natural-language edit instruction"`
}

// InteractMagazineInput wraps a magazine-level interaction for Huma.
type InteractMagazineInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Magazine ID"`
	Body          InteractRequest
}

// InteractSectionInput wraps a section-level interaction for Huma.
type InteractSectionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Magazine ID"`
	SectionID     string `path:"sectionID" doc:"Section ID"`
	Body          InteractRequest
}

// InteractResponse is the outcome of one interaction round trip.
type InteractResponse struct {
	Message  string            `json:"message" doc:"Backend's summary of the change"`
	Action   domain.ActionType `json:"action" doc:"Resolved mutation type"`
	Magazine MagazineResponse  `json:"magazine" doc:"Document after the mutation"`
}

// InteractOutput wraps the interaction response for Huma.
type InteractOutput struct {
	Body InteractResponse
}

// ListInteractionsInput identifies the magazine and page window.
type ListInteractionsInput struct {
	ID     string `path:"id" doc:"Magazine ID"`
	Limit  int    `query:"limit" doc:"Max records to return (default and cap: 50)"`
	Before string `query:"before" doc:"RFC3339 cursor: only records created before this instant"`
}

// InteractionResponse is one applied-mutation history record.
type InteractionResponse struct {
	ID         string            `json:"id" doc:"Interaction ID"`
	MagazineID string            `json:"magazine_id" doc:"Magazine ID"`
	UserID     string            `json:"user_id" doc:"User who issued the instruction"`
	Message    string            `json:"message" doc:"The user's instruction"`
	Summary    string            `json:"summary" doc:"Backend's summary of the change"`
	ActionType domain.ActionType `json:"action_type" doc:"Applied mutation type"`
	CreatedAt  time.Time         `json:"created_at" doc:"When the mutation was applied"`
}

// InteractionListOutput wraps a page of history records for Huma.
type InteractionListOutput struct {
	Body struct {
		Interactions []InteractionResponse `json:"interactions" doc:"History records, newest first"`
	}
}

// === Handlers ===

func (s *Server) handleInteractMagazine(ctx context.Context, input *InteractMagazineInput) (*InteractOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Interaction.Interact(ctx, input.ID, userID, service.InteractRequest{
		Message: input.Body.Message,
	})
	if err != nil {
		return nil, err
	}

	return &InteractOutput{Body: mapInteractResult(result)}, nil
}

func (s *Server) handleInteractSection(ctx context.Context, input *InteractSectionInput) (*InteractOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Interaction.InteractSection(ctx, input.ID, input.SectionID, userID, service.InteractRequest{
		Message: input.Body.Message,
	})
	if err != nil {
		return nil, err
	}

	return &InteractOutput{Body: mapInteractResult(result)}, nil
}

func (s *Server) handleListInteractions(ctx context.Context, input *ListInteractionsInput) (*InteractionListOutput, error) {
	var before *time.Time
	if input.Before != "" {
		parsed, err := time.Parse(time.RFC3339, input.Before)
		if err != nil {
			return nil, huma.Error400BadRequest("before must be an RFC3339 timestamp")
		}
		before = &parsed
	}

	interactions, err := s.services.Interaction.History(ctx, input.ID, input.Limit, before)
	if err != nil {
		return nil, err
	}

	out := &InteractionListOutput{}
	out.Body.Interactions = make([]InteractionResponse, len(interactions))
	for i, rec := range interactions {
		out.Body.Interactions[i] = InteractionResponse{
			ID:         rec.ID,
			MagazineID: rec.MagazineID,
			UserID:     rec.UserID,
			Message:    rec.Message,
			Summary:    rec.Summary,
			ActionType: rec.ActionType,
			CreatedAt:  rec.CreatedAt,
		}
	}
	return out, nil
}

// === Helpers ===

func mapInteractResult(result *service.InteractResult) InteractResponse {
	return InteractResponse{
		Message:  result.Message,
		Action:   result.Action,
		Magazine: mapMagazine(result.Magazine),
	}
}
