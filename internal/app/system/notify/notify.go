// internal/app/system/notify/notify.go

// Package notify is the fan-out side of the mutation pipeline: durable
// per-user notification writes plus best-effort realtime delivery.
// Fan-out runs after the primary mutation has committed, so a failure
// here is logged and swallowed, never rolled back into the mutation.
package notify

import (
	"context"

	"github.com/rollcallhq/rollcall/internal/app/store/notifications"
	"github.com/rollcallhq/rollcall/internal/app/system/realtime"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notifier writes inbox notifications and mirrors them to any open
// realtime session of the recipient.
type Notifier struct {
	store  *notifications.Store
	hub    *realtime.Hub
	zapLog *zap.Logger
}

// New creates a Notifier. hub may be nil (no realtime mirroring).
func New(store *notifications.Store, hub *realtime.Hub, zapLog *zap.Logger) *Notifier {
	return &Notifier{store: store, hub: hub, zapLog: zapLog}
}

// NotifyUser enqueues one notification. The document write is durable; a
// disconnected recipient simply finds it unread on the next poll. A nil
// Notifier is a no-op.
func (n *Notifier) NotifyUser(ctx context.Context, userID primitive.ObjectID, typ models.NotificationType, title, message string) {
	if n == nil {
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	created, err := n.store.Create(writeCtx, models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	})
	if err != nil {
		n.zapLog.Error("notification write failed",
			zap.String("user_id", userID.Hex()),
			zap.String("type", string(typ)),
			zap.Error(err))
		return
	}

	if n.hub != nil {
		n.hub.Publish(realtime.UserRoom(userID), realtime.Event{
			Type: realtime.EventNotification,
			Payload: map[string]interface{}{
				"id":      created.ID.Hex(),
				"type":    string(created.Type),
				"title":   created.Title,
				"message": created.Message,
			},
		})
	}
}

// NotifyUsers fans one notification out to every recipient, one document
// each. Per-recipient failures are logged and do not stop the fan-out.
func (n *Notifier) NotifyUsers(ctx context.Context, userIDs []primitive.ObjectID, typ models.NotificationType, title, message string) {
	if n == nil {
		return
	}
	for _, uid := range userIDs {
		n.NotifyUser(ctx, uid, typ, title, message)
	}
}
