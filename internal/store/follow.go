package store

import (
	"context"
	"encoding/json/v2"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/glossyapp/glossy-server/internal/domain"
)

// ListFollowing returns the follow edges where the given user is the follower.
func (s *Store) ListFollowing(ctx context.Context, userID string) ([]*domain.Follow, error) {
	// The follow ID is "follower:followee", so all edges for one follower
	// share a key prefix and can be read with a single scan.
	return s.scanFollows(ctx, "follow:"+userID+":", nil)
}

// ListFollowers returns the follow edges where the given user is the followee.
func (s *Store) ListFollowers(ctx context.Context, userID string) ([]*domain.Follow, error) {
	return s.scanFollows(ctx, "follow:", func(f *domain.Follow) bool {
		return f.FolloweeID == userID
	})
}

// scanFollows iterates follow edges under the given key prefix, keeping
// those the filter accepts. A nil filter keeps everything.
func (s *Store) scanFollows(_ context.Context, keyPrefix string, keep func(*domain.Follow) bool) ([]*domain.Follow, error) {
	prefix := []byte(keyPrefix)
	var follows []*domain.Follow

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			err := item.Value(func(val []byte) error {
				var f domain.Follow
				if unmarshalErr := json.Unmarshal(val, &f); unmarshalErr != nil {
					// Skip malformed entries
					return nil //nolint:nilerr // intentionally skip malformed entries
				}

				if keep != nil && !keep(&f) {
					return nil
				}

				follows = append(follows, &f)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scan follows: %w", err)
	}

	return follows, nil
}
