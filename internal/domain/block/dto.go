package block

import (
	"time"

	"github.com/google/uuid"
)

// BlockedUserResponse represents a blocked user in API response
type BlockedUserResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	BlockedAt string    `json:"blocked_at"`
}

// FromEntity converts entity to response
func FromEntity(block *Block, fullName string, avatarURL *string) *BlockedUserResponse {
	return &BlockedUserResponse{
		ID:        block.ID,
		UserID:    block.BlockedUserID,
		FullName:  fullName,
		AvatarURL: avatarURL,
		BlockedAt: block.CreatedAt.Format(time.RFC3339),
	}
}
