// Package notify creates inbox notifications as side effects of workflow
// transitions.
//
// Emission is deliberately two-phase and best-effort: the caller commits
// its primary state change first, then dispatches the notification. A
// failure to persist a notification is logged and swallowed; it must
// never fail or roll back the ledger or roster mutation that triggered it.
package notify

import (
	"context"

	notificationstore "github.com/dalemusser/mentorhub/internal/app/store/notifications"
	"github.com/dalemusser/mentorhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notifier fans workflow events out to user inboxes.
type Notifier struct {
	store *notificationstore.Store
	log   *zap.Logger
}

// New creates a Notifier writing through the given store.
func New(store *notificationstore.Store, logger *zap.Logger) *Notifier {
	return &Notifier{store: store, log: logger}
}

// Emit stores one notification for userID. It never returns an error:
// persistence failures are logged and dropped. The write runs on a context
// detached from the caller's cancellation, so a client disconnecting after
// the primary operation committed cannot abort the side effect; only the
// store timeout bounds it.
func (n *Notifier) Emit(ctx context.Context, userID primitive.ObjectID, eventType string, payload map[string]any) {
	emitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
	defer cancel()

	if err := n.store.Insert(emitCtx, userID, eventType, payload); err != nil {
		n.log.Error("failed to store notification",
			zap.String("type", eventType),
			zap.String("user_id", userID.Hex()),
			zap.Error(err),
		)
	}
}

// EmitEach emits the same event type to every listed user. Each emit is
// independent: a failure for one recipient never aborts the rest. The
// payload function is invoked per recipient so callers can share one
// payload or build per-user ones.
func (n *Notifier) EmitEach(ctx context.Context, userIDs []primitive.ObjectID, eventType string, payload func(userID primitive.ObjectID) map[string]any) {
	for _, id := range userIDs {
		n.Emit(ctx, id, eventType, payload(id))
	}
}
