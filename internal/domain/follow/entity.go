package follow

import (
	"time"

	"github.com/google/uuid"
)

// Status of a relationship row
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// Relationship represents a directed follow edge between two users.
// At most one row exists per ordered (follower_id, following_id) pair;
// mutual following is derived by checking both directions.
type Relationship struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	FollowerID  uuid.UUID  `db:"follower_id" json:"follower_id"`
	FollowingID uuid.UUID  `db:"following_id" json:"following_id"`
	Status      Status     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	AcceptedAt  *time.Time `db:"accepted_at" json:"accepted_at,omitempty"`
}

// State of a relationship from the acting user's perspective
type State string

const (
	StateNotFollowing State = "not_following"
	StatePending      State = "pending"
	StateFollowing    State = "following"
	StateMutual       State = "mutual"
)

// Stats holds follower counts for a user. Pending is only populated
// when a user asks about themselves.
type Stats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
	Pending   int `json:"pending,omitempty"`
}

// UserCard is the profile shape hydrated into follower lists
type UserCard struct {
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Headline     string    `json:"headline,omitempty"`
	Organization string    `json:"organization,omitempty"`
	IsOnline     bool      `json:"is_online"`
}
