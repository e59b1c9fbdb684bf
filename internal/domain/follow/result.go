package follow

import "time"

// Outcome tags the result of a follow attempt. Callers are expected to
// switch over it; policy rejections are distinct from generic failure so
// the client can show a specific message.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeRequestSent      Outcome = "request_sent"
	OutcomeAlreadyFollowing Outcome = "already_following"
	OutcomeBlocked          Outcome = "blocked"
	OutcomeRateLimited      Outcome = "rate_limited"
	OutcomeCooldownActive   Outcome = "cooldown_active"
	OutcomeFailure          Outcome = "failure"
)

// Result is the tagged outcome of Follow. Exactly one constructor below
// produces each variant; payload fields are only meaningful for the
// variant that sets them.
type Result struct {
	Outcome   Outcome
	Remaining int       // rate_limited: calls left in the window
	RetryAt   time.Time // cooldown_active: when the pair is eligible again
	Message   string    // failure: fixed user-facing message
}

func Success() Result          { return Result{Outcome: OutcomeSuccess} }
func RequestSent() Result      { return Result{Outcome: OutcomeRequestSent} }
func AlreadyFollowing() Result { return Result{Outcome: OutcomeAlreadyFollowing} }
func Blocked() Result          { return Result{Outcome: OutcomeBlocked} }

func RateLimited(remaining int) Result {
	return Result{Outcome: OutcomeRateLimited, Remaining: remaining}
}

func CooldownActive(retryAt time.Time) Result {
	return Result{Outcome: OutcomeCooldownActive, RetryAt: retryAt}
}

func Failure(message string) Result {
	return Result{Outcome: OutcomeFailure, Message: message}
}

// Ok reports whether the follow produced a relationship row
func (r Result) Ok() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomeRequestSent
}
