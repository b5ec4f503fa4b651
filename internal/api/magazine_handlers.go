package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/glossyapp/glossy-server/internal/domain"
	"github.com/glossyapp/glossy-server/internal/service"
)

func (s *Server) registerMagazineRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createMagazine",
		Method:      http.MethodPost,
		Path:        "/api/v1/magazines",
		Summary:     "Create magazine",
		Description: "Creates a new empty magazine owned by the caller",
		Tags:        []string{"Magazines"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateMagazine)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMagazines",
		Method:      http.MethodGet,
		Path:        "/api/v1/magazines",
		Summary:     "List own magazines",
		Description: "Returns all magazines owned by the caller",
		Tags:        []string{"Magazines"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMagazines)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMagazine",
		Method:      http.MethodGet,
		Path:        "/api/v1/magazines/{id}",
		Summary:     "Get magazine",
		Description: "Returns a magazine with its sections in display order. Publicly readable.",
		Tags:        []string{"Magazines"},
	}, s.handleGetMagazine)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMagazine",
		Method:      http.MethodPatch,
		Path:        "/api/v1/magazines/{id}",
		Summary:     "Update magazine",
		Description: "Updates the top-level fields of an owned magazine",
		Tags:        []string{"Magazines"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMagazine)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMagazine",
		Method:      http.MethodDelete,
		Path:        "/api/v1/magazines/{id}",
		Summary:     "Delete magazine",
		Description: "Deletes an owned magazine",
		Tags:        []string{"Magazines"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMagazine)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadMagazineCover",
		Method:      http.MethodPost,
		Path:        "/api/v1/magazines/{id}/cover",
		Summary:     "Upload cover image",
		Description: "Processes raw image data and sets it as the magazine cover",
		Tags:        []string{"Magazines"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadCover)

	huma.Register(s.api, huma.Operation{
		OperationID: "addSection",
		Method:      http.MethodPost,
		Path:        "/api/v1/magazines/{id}/sections",
		Summary:     "Add section",
		Description: "Appends a new section at the end of the magazine",
		Tags:        []string{"Sections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddSection)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSection",
		Method:      http.MethodPatch,
		Path:        "/api/v1/magazines/{id}/sections/{sectionID}",
		Summary:     "Update section",
		Description: "Replaces the content of one section, keeping its position",
		Tags:        []string{"Sections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateSection)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/magazines/{id}/sections/{sectionID}",
		Summary:     "Delete section",
		Description: "Removes one section and closes the gap in display order",
		Tags:        []string{"Sections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteSection)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderSections",
		Method:      http.MethodPut,
		Path:        "/api/v1/magazines/{id}/sections/order",
		Summary:     "Reorder sections",
		Description: "Rearranges sections into the given ID order. Must name every section exactly once.",
		Tags:        []string{"Sections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReorderSections)
}

// === DTOs ===

// CreateMagazineRequest is the request body for creating a magazine.
type CreateMagazineRequest struct {
	Title        string `json:"title" doc:"Magazine title"`
	Introduction string `json:"introduction,omitempty" doc:"Magazine introduction"`
}

// CreateMagazineInput wraps the create request for Huma.
type CreateMagazineInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateMagazineRequest
}

// ListMagazinesInput carries the caller's credentials.
type ListMagazinesInput struct {
	Authorization string `header:"Authorization"`
}

// MagazineListOutput wraps a list of magazines for Huma.
type MagazineListOutput struct {
	Body struct {
		Magazines []MagazineResponse `json:"magazines" doc:"Owned magazines"`
	}
}

// GetMagazineInput identifies a magazine by ID.
type GetMagazineInput struct {
	ID string `path:"id" doc:"Magazine ID"`
}

// UpdateMagazineRequest contains the mutable top-level magazine fields.
type UpdateMagazineRequest struct {
	Title        *string `json:"title,omitempty" doc:"New title"`
	Introduction *string `json:"introduction,omitempty" doc:"New introduction"`
}

// UpdateMagazineInput wraps the update request for Huma.
type UpdateMagazineInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Magazine ID"`
	Body          UpdateMagazineRequest
}

// DeleteMagazineInput identifies the magazine to delete.
type DeleteMagazineInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Magazine ID"`
}

// UploadCoverInput carries raw image bytes for the cover.
type UploadCoverInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Magazine ID"`
	RawBody       []byte `doc:"Raw image data (JPEG or PNG)"`
}

// ParagraphRequest is one paragraph within a section request.
type ParagraphRequest struct {
	Subtitle string `json:"subtitle,omitempty" doc:"Paragraph subtitle"`
	Body     string `json:"body" doc:"Paragraph body text"`
	Image    string `json:"image,omitempty" doc:"Paragraph image URL"`
}

// SectionRequest is the request body for creating or updating a section.
type SectionRequest struct {
	Heading    string             `json:"heading" doc:"Section heading"`
	Body       string             `json:"body,omitempty" doc:"Section body text"`
	Image      string             `json:"image,omitempty" doc:"Section image URL"`
	LayoutHint string             `json:"layout_hint,omitempty" doc:"Layout hint for rendering"`
	LayoutType string             `json:"layout_type,omitempty" doc:"Layout type for rendering"`
	Caption    string             `json:"caption,omitempty" doc:"Image caption"`
	Paragraphs []ParagraphRequest `json:"paragraphs,omitempty" doc:"Paragraphs in display order"`
}

// AddSectionInput wraps a new-section request for Huma.
type AddSectionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Magazine ID"`
	Body          SectionRequest
}

// UpdateSectionInput wraps a section update for Huma.
type UpdateSectionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Magazine ID"`
	SectionID     string `path:"sectionID" doc:"Section ID"`
	Body          SectionRequest
}

// DeleteSectionInput identifies the section to delete.
type DeleteSectionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Magazine ID"`
	SectionID     string `path:"sectionID" doc:"Section ID"`
}

// ReorderSectionsRequest contains the full desired section order.
type ReorderSectionsRequest struct {
	SectionIDs []string `json:"section_ids" doc:"Every section ID in the desired order"`
}

// ReorderSectionsInput wraps the reorder request for Huma.
type ReorderSectionsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Magazine ID"`
	Body          ReorderSectionsRequest
}

// === Handlers ===

func (s *Server) handleCreateMagazine(ctx context.Context, input *CreateMagazineInput) (*MagazineOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	magazine, err := s.services.Magazine.Create(ctx, userID, service.CreateMagazineRequest{
		Title:        input.Body.Title,
		Introduction: input.Body.Introduction,
	})
	if err != nil {
		return nil, err
	}

	return &MagazineOutput{Body: mapMagazine(magazine)}, nil
}

func (s *Server) handleListMagazines(ctx context.Context, input *ListMagazinesInput) (*MagazineListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	magazines, err := s.services.Magazine.ListOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &MagazineListOutput{}
	out.Body.Magazines = make([]MagazineResponse, len(magazines))
	for i, m := range magazines {
		out.Body.Magazines[i] = mapMagazine(m)
	}
	return out, nil
}

func (s *Server) handleGetMagazine(ctx context.Context, input *GetMagazineInput) (*MagazineOutput, error) {
	magazine, err := s.services.Magazine.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &MagazineOutput{Body: mapMagazine(magazine)}, nil
}

func (s *Server) handleUpdateMagazine(ctx context.Context, input *UpdateMagazineInput) (*MagazineOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	magazine, err := s.services.Magazine.Update(ctx, input.ID, userID, service.UpdateMagazineRequest{
		Title:        input.Body.Title,
		Introduction: input.Body.Introduction,
	})
	if err != nil {
		return nil, err
	}

	return &MagazineOutput{Body: mapMagazine(magazine)}, nil
}

func (s *Server) handleDeleteMagazine(ctx context.Context, input *DeleteMagazineInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Magazine.Delete(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Magazine deleted"}}, nil
}

func (s *Server) handleUploadCover(ctx context.Context, input *UploadCoverInput) (*MagazineOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	magazine, err := s.services.Magazine.UploadCover(ctx, input.ID, userID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &MagazineOutput{Body: mapMagazine(magazine)}, nil
}

func (s *Server) handleAddSection(ctx context.Context, input *AddSectionInput) (*MagazineOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	magazine, err := s.services.Magazine.AddSection(ctx, input.ID, userID, sectionRequest(input.Body))
	if err != nil {
		return nil, err
	}

	return &MagazineOutput{Body: mapMagazine(magazine)}, nil
}

func (s *Server) handleUpdateSection(ctx context.Context, input *UpdateSectionInput) (*MagazineOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	magazine, err := s.services.Magazine.UpdateSection(ctx, input.ID, input.SectionID, userID, sectionRequest(input.Body))
	if err != nil {
		return nil, err
	}

	return &MagazineOutput{Body: mapMagazine(magazine)}, nil
}

func (s *Server) handleDeleteSection(ctx context.Context, input *DeleteSectionInput) (*MagazineOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	magazine, err := s.services.Magazine.DeleteSection(ctx, input.ID, input.SectionID, userID)
	if err != nil {
		return nil, err
	}

	return &MagazineOutput{Body: mapMagazine(magazine)}, nil
}

func (s *Server) handleReorderSections(ctx context.Context, input *ReorderSectionsInput) (*MagazineOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	magazine, err := s.services.Magazine.ReorderSections(ctx, input.ID, userID, service.ReorderRequest{
		SectionIDs: input.Body.SectionIDs,
	})
	if err != nil {
		return nil, err
	}

	return &MagazineOutput{Body: mapMagazine(magazine)}, nil
}

// === Helpers ===

func sectionRequest(req SectionRequest) service.SectionRequest {
	out := service.SectionRequest{
		Heading:    req.Heading,
		Body:       req.Body,
		Image:      req.Image,
		LayoutHint: req.LayoutHint,
		LayoutType: req.LayoutType,
		Caption:    req.Caption,
	}
	for _, p := range req.Paragraphs {
		out.Paragraphs = append(out.Paragraphs, domain.ParagraphPayload{
			Subtitle: p.Subtitle,
			Body:     p.Body,
			Image:    p.Image,
		})
	}
	return out
}
