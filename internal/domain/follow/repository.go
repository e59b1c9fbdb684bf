package follow

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines follow-relationship data access
type Repository interface {
	// Create inserts a relationship row. Returns false when a row for the
	// ordered pair already exists (the unique constraint is the backstop
	// against racing writers).
	Create(ctx context.Context, rel *Relationship) (bool, error)

	// Get returns the relationship for the ordered pair, or nil
	Get(ctx context.Context, followerID, followingID uuid.UUID) (*Relationship, error)

	// GetByID returns a relationship by row id, or nil
	GetByID(ctx context.Context, id uuid.UUID) (*Relationship, error)

	// Accept transitions a pending row to accepted
	Accept(ctx context.Context, id uuid.UUID, acceptedAt time.Time) error

	// Delete removes the row for the ordered pair; no-op if absent
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error

	// DeleteByID removes a row by id
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteBetween removes rows in both directions between two users
	DeleteBetween(ctx context.Context, a, b uuid.UUID) error

	// AcceptedFollower reports whether followerID follows followingID with
	// accepted status.
	AcceptedFollower(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)

	// AcceptedFollowersAmong returns the subset of candidateIDs that follow
	// userID with accepted status, in one query.
	AcceptedFollowersAmong(ctx context.Context, userID uuid.UUID, candidateIDs []uuid.UUID) ([]uuid.UUID, error)

	// AcceptedFollowerIDs / AcceptedFollowingIDs return full direction sets,
	// capped at limit rows for query safety.
	AcceptedFollowerIDs(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error)
	AcceptedFollowingIDs(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error)

	// Count-only queries
	CountFollowers(ctx context.Context, userID uuid.UUID) (int, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int, error)
	CountPending(ctx context.Context, userID uuid.UUID) (int, error)

	// AcceptAllPending bulk-accepts every pending inbound request for the
	// user, returning the number of rows updated.
	AcceptAllPending(ctx context.Context, followingID uuid.UUID, acceptedAt time.Time) (int64, error)

	// Paged listings
	ListPending(ctx context.Context, followingID uuid.UUID, limit, offset int) ([]*Relationship, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Relationship, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Relationship, error)

	// SuggestedUserIDs returns friends-of-friends candidates, excluding
	// users already followed or blocked in either direction.
	SuggestedUserIDs(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error)
}
