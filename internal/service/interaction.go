package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glossyapp/glossy-server/internal/ai"
	"github.com/glossyapp/glossy-server/internal/domain"
	domainerrors "github.com/glossyapp/glossy-server/internal/errors"
	"github.com/glossyapp/glossy-server/internal/id"
	"github.com/glossyapp/glossy-server/internal/media/images"
	"github.com/glossyapp/glossy-server/internal/store"
	"github.com/glossyapp/glossy-server/internal/store/sqlite"
)

// historyPageLimit caps one page of interaction history.
const historyPageLimit = 50

// InteractionService orchestrates one AI edit round trip: it owns the
// sequence from ownership check through remote generation, interpretation,
// image materialization, document mutation, versioned save, and the
// append-only history record.
type InteractionService struct {
	store        *store.Store
	history      *sqlite.Store
	client       *ai.Client
	materializer *images.Materializer
	logger       *slog.Logger
}

// NewInteractionService creates a new interaction service.
func NewInteractionService(
	store *store.Store,
	history *sqlite.Store,
	client *ai.Client,
	materializer *images.Materializer,
	logger *slog.Logger,
) *InteractionService {
	return &InteractionService{
		store:        store,
		history:      history,
		client:       client,
		materializer: materializer,
		logger:       logger,
	}
}

// InteractRequest carries the user's natural-language instruction.
type InteractRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// InteractResult is what the caller gets back after a completed interaction.
type InteractResult struct {
	Message  string            `json:"message"`
	Action   domain.ActionType `json:"action"`
	Magazine *domain.Magazine  `json:"magazine"`
}

// Interact runs a magazine-level AI edit: the whole document is sent as
// context and any of the four mutations may come back.
func (s *InteractionService) Interact(ctx context.Context, magazineID, callerID string, req InteractRequest) (*InteractResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	magazine, err := s.getOwned(ctx, magazineID, callerID)
	if err != nil {
		return nil, err
	}

	editReq := &ai.EditRequest{
		Action:       ai.RequestEditMagazine,
		MagazineID:   magazine.ID,
		MagazineData: magazine,
		Message:      req.Message,
	}

	return s.run(ctx, magazine, callerID, req.Message, editReq)
}

// InteractSection runs a section-level AI edit: only the named section is
// sent as context, and only section-scoped mutations are accepted back.
func (s *InteractionService) InteractSection(ctx context.Context, magazineID, sectionID, callerID string, req InteractRequest) (*InteractResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	magazine, err := s.getOwned(ctx, magazineID, callerID)
	if err != nil {
		return nil, err
	}

	section := magazine.SectionByID(sectionID)
	if section == nil {
		return nil, domainerrors.NotFound("section not found")
	}

	editReq := &ai.EditRequest{
		Action:      ai.RequestEditSection,
		SectionID:   section.ID,
		SectionData: section,
		Message:     req.Message,
	}

	// The backend sees a single section, so its target index is always
	// relative to that section's position in the document.
	sectionIndex := magazine.SectionIndex(sectionID)

	result, err := s.runSection(ctx, magazine, callerID, req.Message, editReq, sectionIndex)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// History returns a page of interaction records for a magazine, newest
// first. Pass the CreatedAt of the last seen record as the cursor.
func (s *InteractionService) History(ctx context.Context, magazineID string, limit int, before *time.Time) ([]*domain.Interaction, error) {
	// The magazine must exist, but history is readable by anyone who can
	// read the magazine.
	if _, err := s.store.GetMagazine(ctx, magazineID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("magazine not found")
		}
		return nil, fmt.Errorf("get magazine: %w", err)
	}

	if limit <= 0 || limit > historyPageLimit {
		limit = historyPageLimit
	}

	interactions, err := s.history.GetMagazineInteractions(ctx, magazineID, limit, before)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return interactions, nil
}

// run executes the shared tail of both interaction flows: call the backend,
// interpret, materialize, mutate, save, record.
func (s *InteractionService) run(ctx context.Context, magazine *domain.Magazine, callerID, message string, editReq *ai.EditRequest) (*InteractResult, error) {
	reply, err := s.client.Generate(ctx, callerID, editReq)
	if err != nil {
		// The document and its history are untouched on any backend failure.
		return nil, err
	}

	directive := ai.Interpret(reply)
	return s.apply(ctx, magazine, callerID, message, directive)
}

// runSection is run with the directive's target rewritten to the section the
// user addressed. A section-level backend reply indexes into the context it
// was given (one section), not the whole document.
func (s *InteractionService) runSection(ctx context.Context, magazine *domain.Magazine, callerID, message string, editReq *ai.EditRequest, sectionIndex int) (*InteractResult, error) {
	reply, err := s.client.Generate(ctx, callerID, editReq)
	if err != nil {
		return nil, err
	}

	directive := ai.Interpret(reply)

	// Retarget single-section directives onto the addressed section.
	switch directive.Action {
	case domain.ActionRegenerateSection, domain.ActionDeleteSection, domain.ActionEditSection:
		idx := sectionIndex
		directive.TargetIndex = &idx
	case domain.ActionAddSection, domain.ActionChangeTone, domain.ActionEditMagazine:
		// Document-scoped mutations are not valid for a section edit.
		if s.logger != nil {
			s.logger.Warn("section interaction returned a document-scoped action, ignoring",
				"magazine_id", magazine.ID,
				"action", directive.Action,
			)
		}
		directive = &domain.Directive{
			Action:  domain.ActionUnknown,
			Message: directive.Message,
		}
	}

	return s.apply(ctx, magazine, callerID, message, directive)
}

// apply materializes images, mutates the document, saves it under the read
// version, and appends the history record. Directives that change nothing
// skip both the save and the history write.
func (s *InteractionService) apply(ctx context.Context, magazine *domain.Magazine, callerID, message string, directive *domain.Directive) (*InteractResult, error) {
	// Fetch transient image URLs before they expire. Best-effort: a failed
	// fetch leaves the external URL in place.
	s.materializer.MaterializeAll(ctx, directive.ImageRefs())

	readVersion := magazine.Version
	changed := domain.Apply(magazine, directive)

	if !changed {
		if s.logger != nil {
			s.logger.Warn("directive applied no change",
				"magazine_id", magazine.ID,
				"action", directive.Action,
			)
		}
		return &InteractResult{
			Message:  directive.Message,
			Action:   directive.Action,
			Magazine: magazine,
		}, nil
	}

	if err := s.store.SaveMagazine(ctx, magazine, readVersion); err != nil {
		if domainerrors.Is(err, store.ErrVersionConflict) {
			return nil, domainerrors.Conflict("magazine was modified concurrently, retry the edit")
		}
		return nil, fmt.Errorf("save magazine: %w", err)
	}

	s.record(ctx, magazine.ID, callerID, message, directive)

	return &InteractResult{
		Message:  directive.Message,
		Action:   directive.Action,
		Magazine: magazine,
	}, nil
}

// record appends the history entry for an applied directive. History is an
// audit trail, not part of the mutation: a failed write is logged, never
// surfaced, and never rolls the document back.
func (s *InteractionService) record(ctx context.Context, magazineID, callerID, message string, directive *domain.Directive) {
	interactionID, err := id.Generate("int")
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to generate interaction ID", "error", err)
		}
		return
	}

	interaction := &domain.Interaction{
		ID:         interactionID,
		MagazineID: magazineID,
		UserID:     callerID,
		Message:    message,
		Summary:    directive.Message,
		ActionType: directive.Action,
		CreatedAt:  time.Now(),
	}

	if err := s.history.CreateInteraction(ctx, interaction); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to record interaction",
				"magazine_id", magazineID,
				"error", err,
			)
		}
	}
}

// getOwned fetches a magazine and enforces that the caller owns it.
func (s *InteractionService) getOwned(ctx context.Context, magazineID, callerID string) (*domain.Magazine, error) {
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

	magazine.NormalizeOrder()
	return magazine, nil
}
