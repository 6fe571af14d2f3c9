package model

import "time"

type Contest struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	MaxSubmissions int       `json:"max_submissions"` // stored only
	Penalty        int       `json:"penalty"`         // stored only
	CreatedByID    *string   `json:"created_by_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Participant is a user's registration in one contest.
type Participant struct {
	ID               string     `json:"id"`
	ContestID        string     `json:"contest_id"`
	UserID           string     `json:"user_id"`
	RegisteredAt     time.Time  `json:"registered_at"`
	SubmissionsCount int        `json:"submissions_count"`
	LastActivityAt   *time.Time `json:"last_activity_at,omitempty"`
}

type StandingsEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
}
