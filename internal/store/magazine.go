package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"net/http"

	"github.com/dgraph-io/badger/v4"

	"github.com/glossyapp/glossy-server/internal/domain"
)

const magazinePrefix = "magazine:"

// ErrVersionConflict is returned when a versioned save loses the race
// against a concurrent write to the same magazine.
var ErrVersionConflict = &Error{
	Code:    http.StatusConflict,
	Message: "magazine was modified concurrently",
}

// CreateMagazine persists a new magazine.
// The magazine starts at version 1.
func (s *Store) CreateMagazine(_ context.Context, m *domain.Magazine) error {
	key := []byte(magazinePrefix + m.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check magazine exists: %w", err)
	}
	if exists {
		return ErrAlreadyExists
	}

	m.Version = 1

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal magazine: %w", err)
		}
		return txn.Set(key, data)
	})
}

// GetMagazine retrieves a magazine by ID.
func (s *Store) GetMagazine(_ context.Context, id string) (*domain.Magazine, error) {
	key := []byte(magazinePrefix + id)

	var m domain.Magazine
	if err := s.get(key, &m); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get magazine: %w", err)
	}

	return &m, nil
}

// SaveMagazine writes back a magazine that was read at expectedVersion.
// The stored document is re-read inside the write transaction; if its version
// no longer matches, ErrVersionConflict is returned and nothing is written.
// On success the stored version is bumped past expectedVersion.
func (s *Store) SaveMagazine(_ context.Context, m *domain.Magazine, expectedVersion int64) error {
	key := []byte(magazinePrefix + m.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get magazine: %w", err)
		}

		var current domain.Magazine
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &current)
		})
		if err != nil {
			return fmt.Errorf("unmarshal magazine: %w", err)
		}

		if current.Version != expectedVersion {
			return ErrVersionConflict
		}

		m.Version = expectedVersion + 1
		m.Touch()

		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal magazine: %w", err)
		}
		return txn.Set(key, data)
	})
}

// DeleteMagazine removes a magazine. Idempotent.
func (s *Store) DeleteMagazine(_ context.Context, id string) error {
	key := []byte(magazinePrefix + id)

	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// ListMagazinesByOwner returns all magazines owned by the given user.
func (s *Store) ListMagazinesByOwner(_ context.Context, ownerID string) ([]*domain.Magazine, error) {
	prefix := []byte(magazinePrefix)
	var magazines []*domain.Magazine

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			err := item.Value(func(val []byte) error {
				var m domain.Magazine
				if unmarshalErr := json.Unmarshal(val, &m); unmarshalErr != nil {
					// Skip malformed entries
					return nil //nolint:nilerr // intentionally skip malformed entries
				}

				if m.OwnerID != ownerID {
					return nil
				}

				magazines = append(magazines, &m)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list magazines: %w", err)
	}

	return magazines, nil
}
