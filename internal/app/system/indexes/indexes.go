// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The partial unique index on requests is load-bearing: it is what makes the
"at most one pending request per (student, teacher) pair" invariant hold
under concurrent creates, rather than the best-effort pre-check in the
store.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureRequests(ctx, db); err != nil {
		problems = append(problems, "requests: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	logger.Info("indexes ensured",
		zap.Strings("collections", []string{"users", "requests", "groups", "notifications"}))
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("uniq_username").SetUnique(true).SetSparse(true),
		},
		// Teacher search filters on role before the regex match.
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("role"),
		},
	})
	return err
}

func ensureRequests(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("requests").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// At most one pending request per (student, teacher) pair.
		// Terminal (accepted/rejected) requests are excluded, so a student
		// may re-request the same teacher after a decision.
		{
			Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "teacher_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_pending_pair").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "pending"}),
		},
		// Incoming list: requests addressed to a teacher, newest first.
		{
			Keys:    bson.D{{Key: "teacher_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("teacher_recent"),
		},
		// Roster eligibility: accepted requests by (teacher, student).
		{
			Keys:    bson.D{{Key: "teacher_id", Value: 1}, {Key: "status", Value: 1}, {Key: "student_id", Value: 1}},
			Options: options.Index().SetName("teacher_status_student"),
		},
	})
	return err
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("groups").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "teacher_id", Value: 1}},
			Options: options.Index().SetName("teacher"),
		},
	})
	return err
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("notifications").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Inbox listing: a user's notifications, newest first.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_recent"),
		},
	})
	return err
}
