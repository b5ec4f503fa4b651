package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/glossyapp/glossy-server/internal/domain"
	"github.com/glossyapp/glossy-server/internal/store"
)

// interactionColumns is the ordered list of columns selected in interaction queries.
// Must match the scan order in scanInteraction.
const interactionColumns = `id, magazine_id, user_id, message, summary, action_type, created_at`

// scanInteraction scans a sql.Row (or sql.Rows via its Scan method) into a domain.Interaction.
func scanInteraction(scanner interface{ Scan(dest ...any) error }) (*domain.Interaction, error) {
	var (
		in         domain.Interaction
		actionType string
		createdAt  string
	)

	err := scanner.Scan(
		&in.ID,
		&in.MagazineID,
		&in.UserID,
		&in.Message,
		&in.Summary,
		&actionType,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	in.ActionType = domain.ActionType(actionType)

	in.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &in, nil
}

// CreateInteraction inserts a new interaction record.
// Returns store.ErrAlreadyExists if the interaction ID already exists.
func (s *Store) CreateInteraction(ctx context.Context, in *domain.Interaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (
			id, magazine_id, user_id, message, summary, action_type, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID,
		in.MagazineID,
		in.UserID,
		in.Message,
		in.Summary,
		string(in.ActionType),
		formatTime(in.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetMagazineInteractions retrieves interactions for a magazine, newest first.
// Use 'before' for cursor-based pagination (pass the CreatedAt of the last item).
func (s *Store) GetMagazineInteractions(ctx context.Context, magazineID string, limit int, before *time.Time) ([]*domain.Interaction, error) {
	var query string
	var args []any

	if before != nil {
		query = `SELECT ` + interactionColumns + ` FROM interactions
			WHERE magazine_id = ? AND created_at < ?
			ORDER BY created_at DESC
			LIMIT ?`
		args = append(args, magazineID, formatTime(*before), limit)
	} else {
		query = `SELECT ` + interactionColumns + ` FROM interactions
			WHERE magazine_id = ?
			ORDER BY created_at DESC
			LIMIT ?`
		args = append(args, magazineID, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interactions []*domain.Interaction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return interactions, nil
}

// GetUserInteractions retrieves interactions initiated by a user, newest first.
func (s *Store) GetUserInteractions(ctx context.Context, userID string, limit int) ([]*domain.Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+interactionColumns+` FROM interactions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interactions []*domain.Interaction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return interactions, nil
}

// GetInteraction retrieves a single interaction by ID.
// Returns store.ErrNotFound if the interaction does not exist.
func (s *Store) GetInteraction(ctx context.Context, id string) (*domain.Interaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+interactionColumns+` FROM interactions WHERE id = ?`, id)

	in, err := scanInteraction(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}
