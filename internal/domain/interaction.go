package domain

import "time"

// Interaction is one append-only history entry per applied AI mutation:
// what the user asked, how the backend summarized its change, and which
// action it resolved to. Never mutated after creation.
type Interaction struct {
	ID         string     `json:"id"`
	MagazineID string     `json:"magazine_id"`
	UserID     string     `json:"user_id"`
	Message    string     `json:"message"`
	Summary    string     `json:"summary"`
	ActionType ActionType `json:"action_type"`
	CreatedAt  time.Time  `json:"created_at"`
}
