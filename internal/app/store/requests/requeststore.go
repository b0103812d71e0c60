package requeststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/mentorhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the mentorship-request ledger. Requests are created pending,
// transition at most once, and are never deleted.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("requests")}
}

var (
	// ErrDuplicatePending is returned when a pending request for the same
	// (student, teacher) pair already exists.
	ErrDuplicatePending = errors.New("a pending request for this pair already exists")
	// ErrNotPending is returned when a transition is attempted on a
	// request that is no longer pending.
	ErrNotPending = errors.New("request is not pending")
)

// Create inserts a new pending request. The partial unique index on
// (student_id, teacher_id, status=pending) makes this safe under
// concurrent creates: the loser gets ErrDuplicatePending.
func (s *Store) Create(ctx context.Context, studentID, teacherID primitive.ObjectID) (models.Request, error) {
	now := time.Now().UTC()
	req := models.Request{
		ID:        primitive.NewObjectID(),
		StudentID: studentID,
		TeacherID: teacherID,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, req); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Request{}, ErrDuplicatePending
		}
		return models.Request{}, err
	}
	return req, nil
}

// GetByID loads a request. Returns mongo.ErrNoDocuments if unknown.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var req models.Request
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Accept transitions a pending request to accepted and returns the updated
// record. The status guard is part of the filter, so of two concurrent
// accepts exactly one wins; the loser gets ErrNotPending. Ownership must be
// checked by the caller before calling Accept.
func (s *Store) Accept(ctx context.Context, id primitive.ObjectID) (models.Request, error) {
	filter := bson.M{"_id": id, "status": models.StatusPending}
	update := bson.M{"$set": bson.M{
		"status":     models.StatusAccepted,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var req models.Request
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Request{}, ErrNotPending
	}
	if err != nil {
		return models.Request{}, err
	}
	return req, nil
}

// ListIncoming returns requests addressed to the teacher, newest first,
// bounded by limit.
func (s *Store) ListIncoming(ctx context.Context, teacherID primitive.ObjectID, limit int64) ([]models.Request, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"teacher_id": teacherID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	requests := []models.Request{}
	for cur.Next(ctx) {
		var req models.Request
		if err := cur.Decode(&req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, cur.Err()
}

// AcceptedStudentIDs filters candidates down to students holding an
// accepted request with the teacher. This is the snapshot eligibility
// check behind roster additions; ineligible ids are simply absent from
// the result.
func (s *Store) AcceptedStudentIDs(ctx context.Context, teacherID primitive.ObjectID, candidates []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"teacher_id": teacherID,
		"status":     models.StatusAccepted,
		"student_id": bson.M{"$in": candidates},
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	seen := make(map[primitive.ObjectID]struct{}, len(candidates))
	var accepted []primitive.ObjectID
	for cur.Next(ctx) {
		var req models.Request
		if err := cur.Decode(&req); err != nil {
			return nil, err
		}
		if _, dup := seen[req.StudentID]; dup {
			continue
		}
		seen[req.StudentID] = struct{}{}
		accepted = append(accepted, req.StudentID)
	}
	return accepted, cur.Err()
}
