package domain

import "time"

// Follow records that one user follows another. The pair is unique; the ID
// is derived from it so re-following is naturally idempotent.
type Follow struct {
	ID         string    `json:"id"`
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowID derives the stable identity for a follower/followee pair.
func FollowID(followerID, followeeID string) string {
	return followerID + ":" + followeeID
}
