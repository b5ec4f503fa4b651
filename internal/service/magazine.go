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

// MagazineService handles magazine CRUD and manual section/paragraph editing.
// All writes go through optimistic versioned saves, so a concurrent AI
// interaction and a manual edit cannot silently overwrite each other.
type MagazineService struct {
	store     *store.Store
	processor *images.Processor
	logger    *slog.Logger
}

// NewMagazineService creates a new magazine service.
func NewMagazineService(store *store.Store, processor *images.Processor, logger *slog.Logger) *MagazineService {
	return &MagazineService{
		store:     store,
		processor: processor,
		logger:    logger,
	}
}

// CreateMagazineRequest contains the fields for a new magazine.
type CreateMagazineRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Introduction string `json:"introduction,omitempty" validate:"max=2000"`
}

// UpdateMagazineRequest contains the mutable top-level magazine fields.
// Nil fields are left untouched.
type UpdateMagazineRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Introduction *string `json:"introduction,omitempty" validate:"omitempty,max=2000"`
}

// SectionRequest contains the fields for creating or updating a section.
type SectionRequest struct {
	Heading    string                   `json:"heading" validate:"required,max=300"`
	Body       string                   `json:"body,omitempty"`
	Image      string                   `json:"image,omitempty"`
	LayoutHint string                   `json:"layout_hint,omitempty"`
	LayoutType string                   `json:"layout_type,omitempty"`
	Caption    string                   `json:"caption,omitempty"`
	Paragraphs []domain.ParagraphPayload `json:"paragraphs,omitempty"`
}

// ReorderRequest contains the full desired section order as section IDs.
type ReorderRequest struct {
	SectionIDs []string `json:"section_ids" validate:"required,min=1"`
}

// Create persists a new empty magazine for the given owner.
func (s *MagazineService) Create(ctx context.Context, ownerID string, req CreateMagazineRequest) (*domain.Magazine, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	magazineID, err := id.Generate("mag")
	if err != nil {
		return nil, fmt.Errorf("generate magazine ID: %w", err)
	}

	magazine := &domain.Magazine{
		Record: domain.Record{
			ID: magazineID,
		},
		OwnerID:      ownerID,
		Title:        req.Title,
		Introduction: req.Introduction,
		Sections:     []domain.Section{},
	}
	magazine.InitTimestamps()

	if err := s.store.CreateMagazine(ctx, magazine); err != nil {
		return nil, fmt.Errorf("create magazine: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Magazine created",
			"magazine_id", magazineID,
			"owner_id", ownerID,
		)
	}

	return magazine, nil
}

// Get returns a magazine by ID with its sections in display order.
// Magazines are publicly readable; only writes require ownership.
func (s *MagazineService) Get(ctx context.Context, magazineID string) (*domain.Magazine, error) {
	magazine, err := s.store.GetMagazine(ctx, magazineID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("magazine not found")
		}
		return nil, fmt.Errorf("get magazine: %w", err)
	}

	magazine.NormalizeOrder()
	return magazine, nil
}

// ListOwn returns all magazines owned by the given user.
func (s *MagazineService) ListOwn(ctx context.Context, ownerID string) ([]*domain.Magazine, error) {
	magazines, err := s.store.ListMagazinesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list magazines: %w", err)
	}

	for _, m := range magazines {
		m.NormalizeOrder()
	}
	return magazines, nil
}

// Update modifies the top-level fields of a magazine the caller owns.
func (s *MagazineService) Update(ctx context.Context, magazineID, callerID string, req UpdateMagazineRequest) (*domain.Magazine, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	return s.mutate(ctx, magazineID, callerID, func(m *domain.Magazine) error {
		if req.Title != nil {
			m.Title = *req.Title
		}
		if req.Introduction != nil {
			m.Introduction = *req.Introduction
		}
		return nil
	})
}

// Delete removes a magazine the caller owns.
func (s *MagazineService) Delete(ctx context.Context, magazineID, callerID string) error {
	if _, err := s.getOwned(ctx, magazineID, callerID); err != nil {
		return err
	}

	if err := s.store.DeleteMagazine(ctx, magazineID); err != nil {
		return fmt.Errorf("delete magazine: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Magazine deleted",
			"magazine_id", magazineID,
			"owner_id", callerID,
		)
	}

	return nil
}

// AddSection appends a new section to the end of the magazine.
func (s *MagazineService) AddSection(ctx context.Context, magazineID, callerID string, req SectionRequest) (*domain.Magazine, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	return s.mutate(ctx, magazineID, callerID, func(m *domain.Magazine) error {
		m.AppendSection(sectionFromRequest(req))
		return nil
	})
}

// UpdateSection replaces the content of one section, keeping its position.
func (s *MagazineService) UpdateSection(ctx context.Context, magazineID, sectionID, callerID string, req SectionRequest) (*domain.Magazine, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	return s.mutate(ctx, magazineID, callerID, func(m *domain.Magazine) error {
		section := m.SectionByID(sectionID)
		if section == nil {
			return domainerrors.NotFound("section not found")
		}

		updated := sectionFromRequest(req)
		updated.ID = section.ID
		updated.DisplayOrder = section.DisplayOrder
		*section = updated
		return nil
	})
}

// DeleteSection removes one section and closes the gap in display order.
func (s *MagazineService) DeleteSection(ctx context.Context, magazineID, sectionID, callerID string) (*domain.Magazine, error) {
	return s.mutate(ctx, magazineID, callerID, func(m *domain.Magazine) error {
		if !m.RemoveSection(sectionID) {
			return domainerrors.NotFound("section not found")
		}
		return nil
	})
}

// ReorderSections rearranges sections into the given ID order. The request
// must name every current section exactly once.
func (s *MagazineService) ReorderSections(ctx context.Context, magazineID, callerID string, req ReorderRequest) (*domain.Magazine, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	return s.mutate(ctx, magazineID, callerID, func(m *domain.Magazine) error {
		if len(req.SectionIDs) != len(m.Sections) {
			return domainerrors.Validation("section_ids must name every section exactly once")
		}

		reordered := make([]domain.Section, 0, len(m.Sections))
		seen := make(map[string]bool, len(req.SectionIDs))
		for _, sectionID := range req.SectionIDs {
			if seen[sectionID] {
				return domainerrors.Validationf("duplicate section ID %s", sectionID)
			}
			seen[sectionID] = true

			section := m.SectionByID(sectionID)
			if section == nil {
				return domainerrors.NotFoundf("section %s not found", sectionID)
			}

			copied := *section
			copied.DisplayOrder = len(reordered)
			reordered = append(reordered, copied)
		}

		m.Sections = reordered
		return nil
	})
}

// UploadCover processes raw image data and sets it as the magazine cover.
func (s *MagazineService) UploadCover(ctx context.Context, magazineID, callerID string, data []byte) (*domain.Magazine, error) {
	if len(data) == 0 {
		return nil, domainerrors.Validation("cover image data is empty")
	}

	// Ownership is checked before the (comparatively expensive) image work.
	if _, err := s.getOwned(ctx, magazineID, callerID); err != nil {
		return nil, err
	}

	imageID, err := id.Generate("img")
	if err != nil {
		return nil, fmt.Errorf("generate image ID: %w", err)
	}

	blurhash, err := s.processor.ProcessAndStore(imageID, data)
	if err != nil {
		return nil, domainerrors.Validation("cover image could not be processed").WithCause(err)
	}

	return s.mutate(ctx, magazineID, callerID, func(m *domain.Magazine) error {
		m.CoverImage = images.PublicPrefix + imageID + ".jpg"
		m.CoverBlurhash = blurhash
		return nil
	})
}

// getOwned fetches a magazine and enforces that the caller owns it.
func (s *MagazineService) getOwned(ctx context.Context, magazineID, callerID string) (*domain.Magazine, error) {
	magazine, err := s.store.GetMagazine(ctx, magazineID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("magazine not found")
		}
		return nil, fmt.Errorf("get magazine: %w", err)
	}

	if !magazine.IsOwnedBy(callerID) {
		return nil, domainerrors.Forbidden("you do not own this magazine")
	}

	return magazine, nil
}

// mutate runs an edit function against an owned magazine and saves the
// result under the version it was read at. A concurrent writer surfaces as
// a conflict rather than a lost update.
func (s *MagazineService) mutate(ctx context.Context, magazineID, callerID string, edit func(*domain.Magazine) error) (*domain.Magazine, error) {
	magazine, err := s.getOwned(ctx, magazineID, callerID)
	if err != nil {
		return nil, err
	}

	readVersion := magazine.Version
	magazine.NormalizeOrder()

	if err := edit(magazine); err != nil {
		return nil, err
	}

	magazine.NormalizeOrder()

	if err := s.store.SaveMagazine(ctx, magazine, readVersion); err != nil {
		if domainerrors.Is(err, store.ErrVersionConflict) {
			return nil, domainerrors.Conflict("magazine was modified concurrently, retry the edit")
		}
		return nil, fmt.Errorf("save magazine: %w", err)
	}

	return magazine, nil
}

// sectionFromRequest builds a fresh section (with new IDs) from a request.
func sectionFromRequest(req SectionRequest) domain.Section {
	section := domain.Section{
		ID:         id.MustGenerate("sec"),
		Heading:    req.Heading,
		Body:       req.Body,
		Image:      req.Image,
		LayoutHint: req.LayoutHint,
		LayoutType: req.LayoutType,
		Caption:    req.Caption,
	}
	for i, p := range req.Paragraphs {
		section.Paragraphs = append(section.Paragraphs, domain.Paragraph{
			ID:           id.MustGenerate("par"),
			Subtitle:     p.Subtitle,
			Body:         p.Body,
			Image:        p.Image,
			DisplayOrder: i,
		})
	}
	return section
}
