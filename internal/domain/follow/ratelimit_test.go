package follow

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestLimiter(max int, window, cooldown time.Duration) (*Limiter, *time.Time) {
	l := NewLimiter(max, window, cooldown)
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }
	return l, &current
}

func TestLimiterAllowsUpToMax(t *testing.T) {
	l, _ := newTestLimiter(3, time.Hour, 24*time.Hour)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		if l.IsLimited(userID) {
			t.Fatalf("limited after %d actions, max is 3", i)
		}
		l.Record(userID)
	}

	if !l.IsLimited(userID) {
		t.Fatal("expected limited after max actions")
	}
	if got := l.Remaining(userID); got != 0 {
		t.Fatalf("expected 0 remaining, got %d", got)
	}
}

func TestLimiterRemainingCountsDown(t *testing.T) {
	l, _ := newTestLimiter(5, time.Hour, 24*time.Hour)
	userID := uuid.New()

	if got := l.Remaining(userID); got != 5 {
		t.Fatalf("expected 5 remaining for fresh user, got %d", got)
	}
	l.Record(userID)
	l.Record(userID)
	if got := l.Remaining(userID); got != 3 {
		t.Fatalf("expected 3 remaining after 2 actions, got %d", got)
	}
}

func TestLimiterWindowSlides(t *testing.T) {
	l, current := newTestLimiter(2, time.Hour, 24*time.Hour)
	userID := uuid.New()

	l.Record(userID)
	l.Record(userID)
	if !l.IsLimited(userID) {
		t.Fatal("expected limited at max")
	}

	// Just inside the window: still limited
	*current = current.Add(59 * time.Minute)
	if !l.IsLimited(userID) {
		t.Fatal("expected still limited inside window")
	}

	// Past the window: both entries expired
	*current = current.Add(2 * time.Minute)
	if l.IsLimited(userID) {
		t.Fatal("expected not limited after window elapsed")
	}
	if got := l.Remaining(userID); got != 2 {
		t.Fatalf("expected full allowance back, got %d", got)
	}
}

func TestLimiterUsersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Hour, 24*time.Hour)
	a, b := uuid.New(), uuid.New()

	l.Record(a)
	if !l.IsLimited(a) {
		t.Fatal("expected a limited")
	}
	if l.IsLimited(b) {
		t.Fatal("b should be unaffected by a's actions")
	}
}

func TestLimiterRecordPrunesOldEntries(t *testing.T) {
	l, current := newTestLimiter(10, time.Hour, 24*time.Hour)
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		l.Record(userID)
	}

	// Entries older than 2x the window are dropped on the next Record
	*current = current.Add(3 * time.Hour)
	l.Record(userID)

	if got := len(l.actions[userID]); got != 1 {
		t.Fatalf("expected stale entries pruned, kept %d", got)
	}
}

func TestCooldownActiveUntilExpiry(t *testing.T) {
	l, current := newTestLimiter(10, time.Hour, 24*time.Hour)
	follower, following := uuid.New(), uuid.New()

	l.SetCooldown(follower, following)

	until, active := l.CooldownUntil(follower, following)
	if !active {
		t.Fatal("expected active cooldown right after SetCooldown")
	}
	if want := current.Add(24 * time.Hour); !until.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, until)
	}

	// Reverse direction is a different pair
	if _, active := l.CooldownUntil(following, follower); active {
		t.Fatal("cooldown must be directional")
	}

	*current = current.Add(24*time.Hour + time.Second)
	if _, active := l.CooldownUntil(follower, following); active {
		t.Fatal("expected cooldown expired")
	}
	if _, ok := l.cooldowns[pairKey{follower, following}]; ok {
		t.Fatal("expected expired entry dropped on lookup")
	}
}
