package follow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a follow repository backed by PostgreSQL
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rel *Relationship) (bool, error) {
	query := `
		INSERT INTO follow_relationships (id, follower_id, following_id, status, created_at, accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, rel.ID, rel.FollowerID, rel.FollowingID, rel.Status, rel.CreatedAt, rel.AcceptedAt)
	if err != nil {
		return false, fmt.Errorf("insert follow: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) Get(ctx context.Context, followerID, followingID uuid.UUID) (*Relationship, error) {
	query := `SELECT * FROM follow_relationships WHERE follower_id = $1 AND following_id = $2`

	var rel Relationship
	err := r.db.GetContext(ctx, &rel, query, followerID, followingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Relationship, error) {
	query := `SELECT * FROM follow_relationships WHERE id = $1`

	var rel Relationship
	err := r.db.GetContext(ctx, &rel, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *repository) Accept(ctx context.Context, id uuid.UUID, acceptedAt time.Time) error {
	query := `UPDATE follow_relationships SET status = $1, accepted_at = $2 WHERE id = $3 AND status = $4`
	_, err := r.db.ExecContext(ctx, query, StatusAccepted, acceptedAt, id, StatusPending)
	return err
}

func (r *repository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	query := `DELETE FROM follow_relationships WHERE follower_id = $1 AND following_id = $2`
	_, err := r.db.ExecContext(ctx, query, followerID, followingID)
	return err
}

func (r *repository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM follow_relationships WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) DeleteBetween(ctx context.Context, a, b uuid.UUID) error {
	query := `
		DELETE FROM follow_relationships
		WHERE (follower_id = $1 AND following_id = $2)
		   OR (follower_id = $2 AND following_id = $1)
	`
	_, err := r.db.ExecContext(ctx, query, a, b)
	return err
}

func (r *repository) AcceptedFollower(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM follow_relationships
			WHERE follower_id = $1 AND following_id = $2 AND status = $3
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, followingID, StatusAccepted)
	return exists, err
}

func (r *repository) AcceptedFollowersAmong(ctx context.Context, userID uuid.UUID, candidateIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(candidateIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT follower_id FROM follow_relationships
		WHERE following_id = ? AND status = ? AND follower_id IN (?)
	`, userID, StatusAccepted, candidateIDs)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) AcceptedFollowerIDs(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT follower_id FROM follow_relationships
		WHERE following_id = $1 AND status = $2
		LIMIT $3
	`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, userID, StatusAccepted, limit)
	return ids, err
}

func (r *repository) AcceptedFollowingIDs(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT following_id FROM follow_relationships
		WHERE follower_id = $1 AND status = $2
		LIMIT $3
	`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, userID, StatusAccepted, limit)
	return ids, err
}

func (r *repository) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM follow_relationships WHERE following_id = $1 AND status = $2`
	var count int
	err := r.db.GetContext(ctx, &count, query, userID, StatusAccepted)
	return count, err
}

func (r *repository) CountFollowing(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM follow_relationships WHERE follower_id = $1 AND status = $2`
	var count int
	err := r.db.GetContext(ctx, &count, query, userID, StatusAccepted)
	return count, err
}

func (r *repository) CountPending(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM follow_relationships WHERE following_id = $1 AND status = $2`
	var count int
	err := r.db.GetContext(ctx, &count, query, userID, StatusPending)
	return count, err
}

func (r *repository) AcceptAllPending(ctx context.Context, followingID uuid.UUID, acceptedAt time.Time) (int64, error) {
	query := `
		UPDATE follow_relationships SET status = $1, accepted_at = $2
		WHERE following_id = $3 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, query, StatusAccepted, acceptedAt, followingID, StatusPending)
	if err != nil {
		return 0, fmt.Errorf("accept pending: %w", err)
	}
	return res.RowsAffected()
}

func (r *repository) ListPending(ctx context.Context, followingID uuid.UUID, limit, offset int) ([]*Relationship, error) {
	query := `
		SELECT * FROM follow_relationships
		WHERE following_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	var rels []*Relationship
	err := r.db.SelectContext(ctx, &rels, query, followingID, StatusPending, limit, offset)
	return rels, err
}

func (r *repository) ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Relationship, error) {
	query := `
		SELECT * FROM follow_relationships
		WHERE following_id = $1 AND status = $2
		ORDER BY COALESCE(accepted_at, created_at) DESC
		LIMIT $3 OFFSET $4
	`
	var rels []*Relationship
	err := r.db.SelectContext(ctx, &rels, query, userID, StatusAccepted, limit, offset)
	return rels, err
}

func (r *repository) ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Relationship, error) {
	query := `
		SELECT * FROM follow_relationships
		WHERE follower_id = $1 AND status = $2
		ORDER BY COALESCE(accepted_at, created_at) DESC
		LIMIT $3 OFFSET $4
	`
	var rels []*Relationship
	err := r.db.SelectContext(ctx, &rels, query, userID, StatusAccepted, limit, offset)
	return rels, err
}

func (r *repository) SuggestedUserIDs(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	// Friends-of-friends ranked by common connections, skipping users the
	// acting user already follows or has a block with in either direction.
	query := `
		SELECT f2.following_id
		FROM follow_relationships f1
		JOIN follow_relationships f2
		  ON f2.follower_id = f1.following_id AND f2.status = $2
		WHERE f1.follower_id = $1 AND f1.status = $2
		  AND f2.following_id <> $1
		  AND NOT EXISTS (
			SELECT 1 FROM follow_relationships e
			WHERE e.follower_id = $1 AND e.following_id = f2.following_id
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM user_blocks b
			WHERE (b.blocker_user_id = $1 AND b.blocked_user_id = f2.following_id)
			   OR (b.blocker_user_id = f2.following_id AND b.blocked_user_id = $1)
		  )
		GROUP BY f2.following_id
		ORDER BY COUNT(*) DESC
		LIMIT $3
	`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, userID, StatusAccepted, limit)
	return ids, err
}
