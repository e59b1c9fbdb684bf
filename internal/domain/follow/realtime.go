package follow

import (
	"context"

	"github.com/google/uuid"
)

// RealtimePublisher pushes follow events to connected clients. Both
// methods are thin stream adapters with no business logic; failures are
// logged and never surface to the caller of a follow operation.
type RealtimePublisher interface {
	// NotifyNewFollower tells userID that follower started following them
	NotifyNewFollower(ctx context.Context, userID uuid.UUID, follower *UserCard) error

	// NotifyPendingCount pushes the current inbound pending-request count
	NotifyPendingCount(ctx context.Context, userID uuid.UUID, count int) error
}
