package follow

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Limiter throttles follow actions per acting user over a sliding window
// and records per-pair unfollow cooldowns. State is process-local and
// resets on restart; that is acceptable for an abuse deterrent, not a
// security boundary.
type Limiter struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	cooldown  time.Duration
	actions   map[uuid.UUID][]time.Time
	cooldowns map[pairKey]time.Time

	now func() time.Time
}

type pairKey struct {
	follower  uuid.UUID
	following uuid.UUID
}

// NewLimiter creates a limiter allowing max follow actions per window,
// with the given re-follow cooldown after an unfollow.
func NewLimiter(max int, window, cooldown time.Duration) *Limiter {
	return &Limiter{
		max:       max,
		window:    window,
		cooldown:  cooldown,
		actions:   make(map[uuid.UUID][]time.Time),
		cooldowns: make(map[pairKey]time.Time),
		now:       time.Now,
	}
}

// IsLimited reports whether the user has exhausted the window
func (l *Limiter) IsLimited(userID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.countInWindow(userID) >= l.max
}

// Remaining returns how many follow actions are left in the window
func (l *Limiter) Remaining(userID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.max - l.countInWindow(userID)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Record appends a follow timestamp for the user. Entries older than
// twice the window are pruned to bound memory.
func (l *Limiter) Record(userID uuid.UUID) {
	now := l.now()
	cutoff := now.Add(-2 * l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamps := l.actions[userID]
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.actions[userID] = append(kept, now)
}

// SetCooldown marks the ordered pair ineligible for re-follow until the
// cooldown elapses.
func (l *Limiter) SetCooldown(followerID, followingID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cooldowns[pairKey{followerID, followingID}] = l.now().Add(l.cooldown)
}

// CooldownUntil returns the cooldown expiry for the pair, if one is
// still active. Expired entries are dropped on lookup.
func (l *Limiter) CooldownUntil(followerID, followingID uuid.UUID) (time.Time, bool) {
	key := pairKey{followerID, followingID}

	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.cooldowns[key]
	if !ok {
		return time.Time{}, false
	}
	if !l.now().Before(until) {
		delete(l.cooldowns, key)
		return time.Time{}, false
	}
	return until, true
}

// countInWindow counts timestamps inside the active window. Callers hold l.mu.
func (l *Limiter) countInWindow(userID uuid.UUID) int {
	cutoff := l.now().Add(-l.window)

	count := 0
	for _, ts := range l.actions[userID] {
		if ts.After(cutoff) {
			count++
		}
	}
	return count
}
