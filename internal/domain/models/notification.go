// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types, one per workflow transition that fans out.
const (
	NotifyRequestReceived = "request_received"
	NotifyRequestAccepted = "request_accepted"
	NotifyGroupAdded      = "group_added"
	NotifyVideoUploaded   = "video_uploaded"
)

// Notification is one entry in a user's inbox. Notifications are created
// only as side effects of workflow transitions, are owned strictly by
// UserID (no other user may read or mark them), and are never deleted.
// Delivery is pull: clients poll GET /api/notifications.
type Notification struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"userId"`
	Type    string             `bson:"type" json:"type"`
	Payload map[string]any     `bson:"payload" json:"payload"`
	Read    bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
