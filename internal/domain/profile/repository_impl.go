package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type repository struct{ db *sqlx.DB }

// NewRepository creates profile repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	q := `SELECT * FROM user_profiles WHERE user_id = $1`
	err := r.db.GetContext(ctx, &p, q, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, profile *Profile) error {
	profile.UpdatedAt = time.Now()
	q := `UPDATE user_profiles SET
		full_name = $2, headline = $3, organization = $4, bio = $5, city = $6,
		updated_at = $7
	WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, q,
		profile.UserID, profile.FullName, profile.Headline, profile.Organization,
		profile.Bio, profile.City, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (r *repository) ListCards(ctx context.Context, userIDs []uuid.UUID) ([]*Card, error) {
	if len(userIDs) == 0 {
		return []*Card{}, nil
	}
	q, args, err := sqlx.In(`
		SELECT user_id, full_name, avatar_thumb_url AS avatar_url, headline, organization, is_online
		FROM user_profiles
		WHERE user_id IN (?)`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("build cards query: %w", err)
	}
	q = r.db.Rebind(q)

	cards := []*Card{}
	if err := r.db.SelectContext(ctx, &cards, q, args...); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

func (r *repository) IsPrivate(ctx context.Context, userID uuid.UUID) (bool, error) {
	var private bool
	q := `SELECT is_private FROM user_profiles WHERE user_id = $1`
	err := r.db.GetContext(ctx, &private, q, userID)
	if errors.Is(err, sql.ErrNoRows) {
		// Missing profile rows behave as public accounts.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get privacy: %w", err)
	}
	return private, nil
}

func (r *repository) SetPrivate(ctx context.Context, userID uuid.UUID, private bool) error {
	q := `UPDATE user_profiles SET is_private = $2, updated_at = $3 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, q, userID, private, time.Now())
	if err != nil {
		return fmt.Errorf("set privacy: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *repository) SetAvatarURLs(ctx context.Context, userID uuid.UUID, fullURL, thumbURL string) error {
	q := `UPDATE user_profiles SET avatar_url = $2, avatar_thumb_url = $3, updated_at = $4 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, q, userID, fullURL, thumbURL, time.Now())
	if err != nil {
		return fmt.Errorf("set avatar: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *repository) SetOnline(ctx context.Context, userID uuid.UUID, online bool) error {
	q := `UPDATE user_profiles SET is_online = $2, last_seen_at = $3 WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, q, userID, online, time.Now())
	if err != nil {
		return fmt.Errorf("set online: %w", err)
	}
	return nil
}
