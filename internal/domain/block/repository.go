package block

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines block data access interface
type Repository interface {
	Create(ctx context.Context, block *Block) error
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error

	// HasBlockBetween checks both directions in one query
	HasBlockBetween(ctx context.Context, a, b uuid.UUID) (bool, error)

	List(ctx context.Context, userID uuid.UUID) ([]*Block, error)
}
