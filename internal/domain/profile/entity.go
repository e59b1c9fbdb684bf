package profile

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Profile represents a user's public profile (matches user_profiles table)
type Profile struct {
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	FullName     string         `db:"full_name"`
	Headline     sql.NullString `db:"headline"`
	Organization sql.NullString `db:"organization"`
	Bio          sql.NullString `db:"bio"`
	City         sql.NullString `db:"city"`

	// NULL means no avatar is set.
	AvatarURL      sql.NullString `db:"avatar_url"`
	AvatarThumbURL sql.NullString `db:"avatar_thumb_url"`

	// IsPrivate gates incoming follow requests. New accounts are public.
	IsPrivate bool `db:"is_private"`

	IsOnline   bool         `db:"is_online"`
	LastSeenAt sql.NullTime `db:"last_seen_at"`
}

// Card is the compact projection used in follower and suggestion lists.
type Card struct {
	UserID       uuid.UUID `db:"user_id"`
	FullName     string    `db:"full_name"`
	AvatarURL    *string   `db:"avatar_url"`
	Headline     *string   `db:"headline"`
	Organization *string   `db:"organization"`
	IsOnline     bool      `db:"is_online"`
}
