package store

import (
	"context"
	"encoding/json/v2"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/glossyapp/glossy-server/internal/domain"
)

// ListSessionsByUser returns all sessions belonging to the given user,
// including revoked and expired ones. Callers filter on validity.
func (s *Store) ListSessionsByUser(_ context.Context, userID string) ([]*domain.Session, error) {
	prefix := []byte("session:")
	var sessions []*domain.Session

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			// Skip index keys
			if len(item.Key()) > len(prefix) {
				remainder := string(item.Key()[len(prefix):])
				if len(remainder) >= 4 && remainder[:4] == "idx:" {
					continue
				}
			}

			err := item.Value(func(val []byte) error {
				var sess domain.Session
				if unmarshalErr := json.Unmarshal(val, &sess); unmarshalErr != nil {
					// Skip malformed entries
					return nil //nolint:nilerr // intentionally skip malformed entries
				}

				if sess.UserID != userID {
					return nil
				}

				sessions = append(sessions, &sess)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}
