package profile

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines profile data access interface
type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	ListCards(ctx context.Context, userIDs []uuid.UUID) ([]*Card, error)
	IsPrivate(ctx context.Context, userID uuid.UUID) (bool, error)
	SetPrivate(ctx context.Context, userID uuid.UUID, private bool) error
	SetAvatarURLs(ctx context.Context, userID uuid.UUID, fullURL, thumbURL string) error
	SetOnline(ctx context.Context, userID uuid.UUID, online bool) error
}
