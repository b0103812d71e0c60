package notificationstore

import (
	"context"
	"time"

	"github.com/dalemusser/mentorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the per-user notification inbox. Rows are written only by the
// workflow's fan-out, mutated only by marking read, and never deleted.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// Insert stores one notification.
func (s *Store) Insert(ctx context.Context, userID primitive.ObjectID, eventType string, payload map[string]any) error {
	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      eventType,
		Payload:   payload,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, n)
	return err
}

// GetByID loads a notification. Returns mongo.ErrNoDocuments if unknown.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var n models.Notification
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByUser returns the user's notifications, newest first, bounded by
// limit.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	notifications := []models.Notification{}
	for cur.Next(ctx) {
		var n models.Notification
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, cur.Err()
}

// MarkRead sets read=true. Marking an already-read notification is a
// no-op success. Ownership is checked by the caller.
func (s *Store) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"read": true}})
	return err
}
