package profile

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thittam1hub/hub-api/internal/pkg/imaging"
	"github.com/thittam1hub/hub-api/internal/pkg/storage"
)

// Service handles profile business logic
type Service struct {
	repo      Repository
	storage   storage.Storage
	processor *imaging.Processor
}

// NewService creates profile service
func NewService(repo Repository, store storage.Storage, processor *imaging.Processor) *Service {
	return &Service{
		repo:      repo,
		storage:   store,
		processor: processor,
	}
}

// Get returns a user's profile
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// Update applies an owner's edits to their profile
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.Headline != nil {
		p.Headline = sql.NullString{String: *req.Headline, Valid: *req.Headline != ""}
	}
	if req.Organization != nil {
		p.Organization = sql.NullString{String: *req.Organization, Valid: *req.Organization != ""}
	}
	if req.Bio != nil {
		p.Bio = sql.NullString{String: *req.Bio, Valid: *req.Bio != ""}
	}
	if req.City != nil {
		p.City = sql.NullString{String: *req.City, Valid: *req.City != ""}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UploadAvatar processes an uploaded image and stores full + thumbnail variants.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, reader io.Reader, filename string) (*Profile, error) {
	processed, err := s.processor.Process(reader, filename)
	if err != nil {
		return nil, ErrInvalidImage
	}

	ext := ".jpg"
	if processed.ContentType == "image/png" {
		ext = ".png"
	}

	// Content-addressed-ish keys: a fresh UUID per upload so CDN caches
	// never serve a stale avatar after replacement.
	uploadID := uuid.New()
	fullKey := path.Join("avatars", userID.String(), uploadID.String()+ext)
	thumbKey := path.Join("avatars", userID.String(), uploadID.String()+"_thumb"+ext)

	if err := s.storage.Put(ctx, fullKey, bytes.NewReader(processed.Full), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}
	if err := s.storage.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store avatar thumbnail: %w", err)
	}

	old, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, ErrProfileNotFound
	}

	fullURL := s.storage.GetURL(fullKey)
	thumbURL := s.storage.GetURL(thumbKey)
	if err := s.repo.SetAvatarURLs(ctx, userID, fullURL, thumbURL); err != nil {
		return nil, err
	}

	// Best-effort cleanup of the replaced files.
	s.deleteOldAvatar(ctx, old)

	old.AvatarURL = sql.NullString{String: fullURL, Valid: true}
	old.AvatarThumbURL = sql.NullString{String: thumbURL, Valid: true}
	return old, nil
}

func (s *Service) deleteOldAvatar(ctx context.Context, p *Profile) {
	for _, u := range []sql.NullString{p.AvatarURL, p.AvatarThumbURL} {
		if !u.Valid {
			continue
		}
		key := storage.KeyFromURL(u.String)
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to delete old avatar")
		}
	}
}

// IsPrivate reports a user's account privacy. Missing profiles are public.
func (s *Service) IsPrivate(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.IsPrivate(ctx, userID)
}

// SetPrivate flips a user's account privacy.
func (s *Service) SetPrivate(ctx context.Context, userID uuid.UUID, private bool) error {
	return s.repo.SetPrivate(ctx, userID, private)
}

// ListCards loads compact profile cards for a set of users.
func (s *Service) ListCards(ctx context.Context, userIDs []uuid.UUID) ([]*Card, error) {
	return s.repo.ListCards(ctx, userIDs)
}
