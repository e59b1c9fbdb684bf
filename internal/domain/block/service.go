package block

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrSelfBlock = errors.New("cannot block yourself")

// FollowSeverer removes follow edges between two users in both directions
type FollowSeverer interface {
	DeleteBetween(ctx context.Context, a, b uuid.UUID) error
}

// Service handles user block business logic
type Service struct {
	repo    Repository
	follows FollowSeverer
}

// NewService creates new block service. follows may be nil.
func NewService(repo Repository, follows FollowSeverer) *Service {
	return &Service{repo: repo, follows: follows}
}

// HasBlockBetween checks for a block in either direction between two users
func (s *Service) HasBlockBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.repo.HasBlockBetween(ctx, a, b)
}

// BlockUser blocks a user and severs any follow relationship in both
// directions, so a block always ends the social edge too.
func (s *Service) BlockUser(ctx context.Context, blockerID, targetID uuid.UUID) error {
	if blockerID == targetID {
		return ErrSelfBlock
	}

	blk := &Block{
		ID:            uuid.New(),
		BlockerUserID: blockerID,
		BlockedUserID: targetID,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, blk); err != nil {
		return err
	}

	if s.follows != nil {
		if err := s.follows.DeleteBetween(ctx, blockerID, targetID); err != nil {
			// The block itself stands; the stale follow rows are invisible
			// to follow operations because every path checks blocks first.
			log.Error().Err(err).Str("blocker", blockerID.String()).Msg("Failed to sever follows on block")
		}
	}
	return nil
}

// UnblockUser unblocks a user
func (s *Service) UnblockUser(ctx context.Context, blockerID, targetID uuid.UUID) error {
	return s.repo.Delete(ctx, blockerID, targetID)
}

// ListMyBlocks returns all users blocked by the given user
func (s *Service) ListMyBlocks(ctx context.Context, userID uuid.UUID) ([]*Block, error) {
	return s.repo.List(ctx, userID)
}
