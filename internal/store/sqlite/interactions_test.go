package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glossyapp/glossy-server/internal/domain"
	"github.com/glossyapp/glossy-server/internal/store"
	"github.com/glossyapp/glossy-server/internal/store/sqlite"
)

func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func newInteraction(id, magazineID string, createdAt time.Time) *domain.Interaction {
	return &domain.Interaction{
		ID:         id,
		MagazineID: magazineID,
		UserID:     "user-1",
		Message:    "make it punchier",
		Summary:    "Rewrote the intro section",
		ActionType: domain.ActionRegenerateSection,
		CreatedAt:  createdAt,
	}
}

func TestCreateInteraction_AndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	in := newInteraction("int-1", "mag-1", time.Now())
	require.NoError(t, s.CreateInteraction(ctx, in))

	got, err := s.GetInteraction(ctx, "int-1")
	require.NoError(t, err)
	require.Equal(t, "mag-1", got.MagazineID)
	require.Equal(t, "user-1", got.UserID)
	require.Equal(t, "make it punchier", got.Message)
	require.Equal(t, domain.ActionRegenerateSection, got.ActionType)
	require.WithinDuration(t, in.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestCreateInteraction_DuplicateID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	in := newInteraction("int-1", "mag-1", time.Now())
	require.NoError(t, s.CreateInteraction(ctx, in))

	err := s.CreateInteraction(ctx, in)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetInteraction_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetInteraction(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetMagazineInteractions_NewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	require.NoError(t, s.CreateInteraction(ctx, newInteraction("int-1", "mag-1", base)))
	require.NoError(t, s.CreateInteraction(ctx, newInteraction("int-2", "mag-1", base.Add(time.Minute))))
	require.NoError(t, s.CreateInteraction(ctx, newInteraction("int-3", "mag-2", base.Add(2*time.Minute))))

	interactions, err := s.GetMagazineInteractions(ctx, "mag-1", 10, nil)
	require.NoError(t, err)
	require.Len(t, interactions, 2)
	require.Equal(t, "int-2", interactions[0].ID)
	require.Equal(t, "int-1", interactions[1].ID)
}

func TestGetMagazineInteractions_CursorPagination(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"int-1", "int-2", "int-3"} {
		require.NoError(t, s.CreateInteraction(ctx, newInteraction(id, "mag-1", base.Add(time.Duration(i)*time.Minute))))
	}

	page, err := s.GetMagazineInteractions(ctx, "mag-1", 1, nil)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "int-3", page[0].ID)

	rest, err := s.GetMagazineInteractions(ctx, "mag-1", 10, &page[0].CreatedAt)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	require.Equal(t, "int-2", rest[0].ID)
}

func TestGetUserInteractions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	in := newInteraction("int-1", "mag-1", time.Now())
	require.NoError(t, s.CreateInteraction(ctx, in))

	other := newInteraction("int-2", "mag-2", time.Now())
	other.UserID = "user-2"
	require.NoError(t, s.CreateInteraction(ctx, other))

	interactions, err := s.GetUserInteractions(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	require.Equal(t, "int-1", interactions[0].ID)
}
