package profile

import (
	"time"

	"github.com/google/uuid"
)

// UpdateProfileRequest is the edit-profile payload. Nil fields are untouched.
type UpdateProfileRequest struct {
	FullName     *string `json:"full_name" validate:"omitempty,min=1,max=120"`
	Headline     *string `json:"headline" validate:"omitempty,max=160"`
	Organization *string `json:"organization" validate:"omitempty,max=160"`
	Bio          *string `json:"bio" validate:"omitempty,max=2000"`
	City         *string `json:"city" validate:"omitempty,max=120"`
}

// ProfileResponse is the public profile representation
type ProfileResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	Headline     *string   `json:"headline,omitempty"`
	Organization *string   `json:"organization,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	City         *string   `json:"city,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	AvatarThumb  *string   `json:"avatar_thumb_url,omitempty"`
	IsPrivate    bool      `json:"is_private"`
	IsOnline     bool      `json:"is_online"`
	CreatedAt    time.Time `json:"created_at"`
}

// FromEntity converts a Profile entity to its response form
func FromEntity(p *Profile) *ProfileResponse {
	resp := &ProfileResponse{
		UserID:    p.UserID,
		FullName:  p.FullName,
		IsPrivate: p.IsPrivate,
		IsOnline:  p.IsOnline,
		CreatedAt: p.CreatedAt,
	}
	if p.Headline.Valid {
		resp.Headline = &p.Headline.String
	}
	if p.Organization.Valid {
		resp.Organization = &p.Organization.String
	}
	if p.Bio.Valid {
		resp.Bio = &p.Bio.String
	}
	if p.City.Valid {
		resp.City = &p.City.String
	}
	if p.AvatarURL.Valid {
		resp.AvatarURL = &p.AvatarURL.String
	}
	if p.AvatarThumbURL.Valid {
		resp.AvatarThumb = &p.AvatarThumbURL.String
	}
	return resp
}
