package follow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BlockChecker reports whether a block exists between two users in
// either direction.
type BlockChecker interface {
	HasBlockBetween(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// ProfileDirectory is the minimal profile surface the orchestrator needs:
// the privacy flag and display-field hydration for id lists.
type ProfileDirectory interface {
	// IsPrivate returns the target's privacy flag, false when no profile row exists.
	IsPrivate(ctx context.Context, userID uuid.UUID) (bool, error)
	SetPrivate(ctx context.Context, userID uuid.UUID, isPrivate bool) error
	ListCards(ctx context.Context, userIDs []uuid.UUID) ([]*UserCard, error)
}

// mutualCap bounds each direction set fed into the intersection so one
// query cannot fan out unbounded profile hydration.
const mutualCap = 5000

// Service orchestrates follow/unfollow/accept/decline operations over the
// relationship store, the rate limiter and the privacy/block collaborators.
//
// Every public method swallows store errors: mutations return a tagged
// Result or a bool, reads fall back to empty values. Callers check return
// values instead of handling errors.
type Service struct {
	repo      Repository
	blocks    BlockChecker
	profiles  ProfileDirectory
	limiter   *Limiter
	publisher RealtimePublisher
}

// NewService creates the follow orchestrator. publisher may be nil.
func NewService(repo Repository, blocks BlockChecker, profiles ProfileDirectory, limiter *Limiter, publisher RealtimePublisher) *Service {
	return &Service{
		repo:      repo,
		blocks:    blocks,
		profiles:  profiles,
		limiter:   limiter,
		publisher: publisher,
	}
}

// Follow runs the full follow state machine for actor -> target.
// Checks are ordered and short-circuit on the first rejection; steps
// before the insert are read-only, so a failed write leaves no partial
// state.
func (s *Service) Follow(ctx context.Context, actorID, targetID uuid.UUID) Result {
	if actorID == uuid.Nil {
		return Failure(msgNotAuthenticated)
	}
	if actorID == targetID {
		return Failure(msgSelfFollow)
	}

	if s.limiter.IsLimited(actorID) {
		return RateLimited(s.limiter.Remaining(actorID))
	}
	if until, active := s.limiter.CooldownUntil(actorID, targetID); active {
		return CooldownActive(until)
	}

	existing, err := s.repo.Get(ctx, actorID, targetID)
	if err != nil {
		log.Error().Err(err).Str("actor", actorID.String()).Msg("Follow: relationship lookup failed")
		return Failure(msgFollowFailed)
	}
	if existing != nil {
		return AlreadyFollowing()
	}

	blocked, err := s.blocks.HasBlockBetween(ctx, actorID, targetID)
	if err != nil {
		log.Error().Err(err).Str("actor", actorID.String()).Msg("Follow: block check failed")
		return Failure(msgFollowFailed)
	}
	if blocked {
		return Blocked()
	}

	isPrivate, err := s.profiles.IsPrivate(ctx, targetID)
	if err != nil {
		log.Error().Err(err).Str("target", targetID.String()).Msg("Follow: privacy lookup failed")
		return Failure(msgFollowFailed)
	}

	now := time.Now()
	rel := &Relationship{
		ID:          uuid.New(),
		FollowerID:  actorID,
		FollowingID: targetID,
		Status:      StatusAccepted,
		CreatedAt:   now,
	}
	if isPrivate {
		rel.Status = StatusPending
	} else {
		rel.AcceptedAt = &now
	}

	created, err := s.repo.Create(ctx, rel)
	if err != nil {
		log.Error().Err(err).Str("actor", actorID.String()).Str("target", targetID.String()).Msg("Follow: insert failed")
		return Failure(msgFollowFailed)
	}
	if !created {
		// Lost the race against another device for the same actor; the
		// unique constraint kept the pair single-rowed.
		return AlreadyFollowing()
	}

	s.limiter.Record(actorID)
	s.notifyTarget(ctx, rel)

	if isPrivate {
		return RequestSent()
	}
	return Success()
}

// Unfollow deletes the outbound relationship unconditionally (no-op when
// absent) and starts the re-follow cooldown for the pair.
func (s *Service) Unfollow(ctx context.Context, actorID, targetID uuid.UUID) bool {
	if actorID == uuid.Nil {
		return false
	}

	if err := s.repo.Delete(ctx, actorID, targetID); err != nil {
		log.Error().Err(err).Str("actor", actorID.String()).Msg("Unfollow failed")
		return false
	}

	s.limiter.SetCooldown(actorID, targetID)
	return true
}

// CancelRequest withdraws an outbound pending request. Deletion semantics
// are identical to Unfollow.
func (s *Service) CancelRequest(ctx context.Context, actorID, targetID uuid.UUID) bool {
	return s.Unfollow(ctx, actorID, targetID)
}

// AcceptRequest accepts an inbound pending request. The caller must be
// the request's target; a mismatch mutates nothing.
func (s *Service) AcceptRequest(ctx context.Context, actorID, requestID uuid.UUID) bool {
	rel, ok := s.inboundRequest(ctx, actorID, requestID)
	if !ok {
		return false
	}

	if err := s.repo.Accept(ctx, rel.ID, time.Now()); err != nil {
		log.Error().Err(err).Str("request", requestID.String()).Msg("AcceptRequest failed")
		return false
	}

	s.notifyPendingCount(ctx, actorID)
	return true
}

// DeclineRequest declines an inbound pending request by deleting the row.
func (s *Service) DeclineRequest(ctx context.Context, actorID, requestID uuid.UUID) bool {
	rel, ok := s.inboundRequest(ctx, actorID, requestID)
	if !ok {
		return false
	}

	if err := s.repo.DeleteByID(ctx, rel.ID); err != nil {
		log.Error().Err(err).Str("request", requestID.String()).Msg("DeclineRequest failed")
		return false
	}

	s.notifyPendingCount(ctx, actorID)
	return true
}

// RemoveFollower forcibly ends an inbound relationship: the other user
// stops following the caller. Distinct from Unfollow, which ends an
// outbound one.
func (s *Service) RemoveFollower(ctx context.Context, actorID, followerID uuid.UUID) bool {
	if actorID == uuid.Nil {
		return false
	}

	if err := s.repo.Delete(ctx, followerID, actorID); err != nil {
		log.Error().Err(err).Str("actor", actorID.String()).Msg("RemoveFollower failed")
		return false
	}
	return true
}

// Status derives the relationship state from the actor's perspective.
// Mutual requires accepted rows in both directions.
func (s *Service) Status(ctx context.Context, actorID, targetID uuid.UUID) (State, error) {
	outbound, err := s.repo.Get(ctx, actorID, targetID)
	if err != nil {
		return StateNotFollowing, err
	}
	if outbound == nil {
		return StateNotFollowing, nil
	}
	if outbound.Status == StatusPending {
		return StatePending, nil
	}

	followsBack, err := s.repo.AcceptedFollower(ctx, targetID, actorID)
	if err != nil {
		return StateNotFollowing, err
	}
	if followsBack {
		return StateMutual, nil
	}
	return StateFollowing, nil
}

// FollowsMe reports whether target follows the actor with accepted status
func (s *Service) FollowsMe(ctx context.Context, actorID, targetID uuid.UUID) bool {
	follows, err := s.repo.AcceptedFollower(ctx, targetID, actorID)
	if err != nil {
		log.Error().Err(err).Str("actor", actorID.String()).Msg("FollowsMe check failed")
		return false
	}
	return follows
}

// BatchFollowsMe answers FollowsMe for every id in one query. Every input
// id is present in the result, defaulting to false on lookup miss.
func (s *Service) BatchFollowsMe(ctx context.Context, actorID uuid.UUID, userIDs []uuid.UUID) map[uuid.UUID]bool {
	result := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		result[id] = false
	}

	found, err := s.repo.AcceptedFollowersAmong(ctx, actorID, userIDs)
	if err != nil {
		log.Error().Err(err).Str("actor", actorID.String()).Msg("BatchFollowsMe query failed")
		return result
	}
	for _, id := range found {
		if _, ok := result[id]; ok {
			result[id] = true
		}
	}
	return result
}

// MutualFollowers intersects the accepted follower and following sets
// (each capped) and hydrates profiles for the intersection only.
func (s *Service) MutualFollowers(ctx context.Context, actorID uuid.UUID) ([]*UserCard, error) {
	followers, err := s.repo.AcceptedFollowerIDs(ctx, actorID, mutualCap)
	if err != nil {
		return nil, err
	}
	following, err := s.repo.AcceptedFollowingIDs(ctx, actorID, mutualCap)
	if err != nil {
		return nil, err
	}

	followerSet := make(map[uuid.UUID]struct{}, len(followers))
	for _, id := range followers {
		followerSet[id] = struct{}{}
	}

	var mutual []uuid.UUID
	for _, id := range following {
		if _, ok := followerSet[id]; ok {
			mutual = append(mutual, id)
		}
	}
	if len(mutual) == 0 {
		return []*UserCard{}, nil
	}

	return s.profiles.ListCards(ctx, mutual)
}

// StatsFor returns follower counts. Pending is only exposed when the
// actor asks about themselves.
func (s *Service) StatsFor(ctx context.Context, actorID, userID uuid.UUID) (*Stats, error) {
	followers, err := s.repo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.repo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Followers: followers, Following: following}
	if actorID == userID {
		pending, err := s.repo.CountPending(ctx, userID)
		if err != nil {
			return nil, err
		}
		stats.Pending = pending
	}
	return stats, nil
}

// Suggestions returns hydrated friends-of-friends candidates
func (s *Service) Suggestions(ctx context.Context, actorID uuid.UUID, limit int) ([]*UserCard, error) {
	ids, err := s.repo.SuggestedUserIDs(ctx, actorID, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*UserCard{}, nil
	}
	return s.profiles.ListCards(ctx, ids)
}

// SetAccountPrivacy flips the profile's private flag. Switching to public
// auto-accepts every pending inbound request, so a formerly-private
// account does not keep stale requests around.
func (s *Service) SetAccountPrivacy(ctx context.Context, actorID uuid.UUID, isPrivate bool) bool {
	if actorID == uuid.Nil {
		return false
	}

	if err := s.profiles.SetPrivate(ctx, actorID, isPrivate); err != nil {
		log.Error().Err(err).Str("actor", actorID.String()).Msg("SetAccountPrivacy failed")
		return false
	}

	if !isPrivate {
		accepted, err := s.repo.AcceptAllPending(ctx, actorID, time.Now())
		if err != nil {
			log.Error().Err(err).Str("actor", actorID.String()).Msg("Auto-accept of pending requests failed")
			return false
		}
		if accepted > 0 {
			log.Info().Str("actor", actorID.String()).Int64("accepted", accepted).Msg("Auto-accepted pending follow requests")
			s.notifyPendingCount(ctx, actorID)
		}
	}
	return true
}

// PendingRequest pairs a pending inbound row with its hydrated follower
type PendingRequest struct {
	ID        uuid.UUID `json:"id"`
	Follower  *UserCard `json:"follower"`
	CreatedAt time.Time `json:"created_at"`
}

// PendingRequests lists inbound pending requests with hydrated profiles
func (s *Service) PendingRequests(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*PendingRequest, error) {
	rels, err := s.repo.ListPending(ctx, actorID, limit, offset)
	if err != nil {
		return nil, err
	}

	cards, err := s.cardsFor(ctx, rels, func(rel *Relationship) uuid.UUID { return rel.FollowerID })
	if err != nil {
		return nil, err
	}

	items := make([]*PendingRequest, 0, len(rels))
	for _, rel := range rels {
		items = append(items, &PendingRequest{
			ID:        rel.ID,
			Follower:  cards[rel.FollowerID],
			CreatedAt: rel.CreatedAt,
		})
	}
	return items, nil
}

// FollowerItem pairs a relationship edge with its hydrated counterpart
type FollowerItem struct {
	User       *UserCard `json:"user"`
	FollowedAt time.Time `json:"followed_at"`
}

// Followers lists accepted followers of userID with hydrated profiles
func (s *Service) Followers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*FollowerItem, error) {
	rels, err := s.repo.ListFollowers(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.followerItems(ctx, rels, func(rel *Relationship) uuid.UUID { return rel.FollowerID })
}

// Following lists users userID follows with hydrated profiles
func (s *Service) Following(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*FollowerItem, error) {
	rels, err := s.repo.ListFollowing(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.followerItems(ctx, rels, func(rel *Relationship) uuid.UUID { return rel.FollowingID })
}

func (s *Service) followerItems(ctx context.Context, rels []*Relationship, pick func(*Relationship) uuid.UUID) ([]*FollowerItem, error) {
	cards, err := s.cardsFor(ctx, rels, pick)
	if err != nil {
		return nil, err
	}

	items := make([]*FollowerItem, 0, len(rels))
	for _, rel := range rels {
		followedAt := rel.CreatedAt
		if rel.AcceptedAt != nil {
			followedAt = *rel.AcceptedAt
		}
		items = append(items, &FollowerItem{
			User:       cards[pick(rel)],
			FollowedAt: followedAt,
		})
	}
	return items, nil
}

func (s *Service) cardsFor(ctx context.Context, rels []*Relationship, pick func(*Relationship) uuid.UUID) (map[uuid.UUID]*UserCard, error) {
	if len(rels) == 0 {
		return map[uuid.UUID]*UserCard{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, pick(rel))
	}

	cards, err := s.profiles.ListCards(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*UserCard, len(cards))
	for _, card := range cards {
		byID[card.UserID] = card
	}
	return byID, nil
}

// inboundRequest loads a pending request and verifies the caller is its
// target. Authorization is explicit here, not delegated to a query filter.
func (s *Service) inboundRequest(ctx context.Context, actorID, requestID uuid.UUID) (*Relationship, bool) {
	if actorID == uuid.Nil {
		return nil, false
	}

	rel, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		log.Error().Err(err).Str("request", requestID.String()).Msg("Request lookup failed")
		return nil, false
	}
	if rel == nil || rel.Status != StatusPending {
		return nil, false
	}
	if rel.FollowingID != actorID {
		log.Warn().
			Str("actor", actorID.String()).
			Str("request", requestID.String()).
			Msg("Request mutation rejected: caller is not the target")
		return nil, false
	}
	return rel, true
}

// notifyTarget pushes the realtime event matching the new row's status
func (s *Service) notifyTarget(ctx context.Context, rel *Relationship) {
	if s.publisher == nil {
		return
	}

	if rel.Status == StatusPending {
		s.notifyPendingCount(ctx, rel.FollowingID)
		return
	}

	cards, err := s.profiles.ListCards(ctx, []uuid.UUID{rel.FollowerID})
	if err != nil || len(cards) == 0 {
		return
	}
	if err := s.publisher.NotifyNewFollower(ctx, rel.FollowingID, cards[0]); err != nil {
		log.Debug().Err(err).Msg("New-follower event publish failed")
	}
}

func (s *Service) notifyPendingCount(ctx context.Context, userID uuid.UUID) {
	if s.publisher == nil {
		return
	}

	count, err := s.repo.CountPending(ctx, userID)
	if err != nil {
		return
	}
	if err := s.publisher.NotifyPendingCount(ctx, userID, count); err != nil {
		log.Debug().Err(err).Msg("Pending-count event publish failed")
	}
}
