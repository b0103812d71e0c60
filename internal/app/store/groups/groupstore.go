// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"time"

	"github.com/dalemusser/mentorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// Create inserts an empty-roster group owned by the teacher.
func (s *Store) Create(ctx context.Context, name string, teacherID primitive.ObjectID) (models.Group, error) {
	now := time.Now().UTC()
	g := models.Group{
		ID:         primitive.NewObjectID(),
		Name:       name,
		TeacherID:  teacherID,
		StudentIDs: []primitive.ObjectID{},
		Videos:     []models.Video{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByID loads a group. Returns mongo.ErrNoDocuments if unknown.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// ListByTeacher returns all groups owned by the teacher, newest first.
func (s *Store) ListByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"teacher_id": teacherID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	groups := []models.Group{}
	for cur.Next(ctx) {
		var g models.Group
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, cur.Err()
}

// AddStudents merges studentIDs into the roster with $addToSet set
// semantics and returns the ids that were actually new. The merge is a
// single atomic document update, so concurrent adds of the same student
// serialize: exactly one call reports the id as added, and re-adding an
// existing member is a no-op. Eligibility filtering is the caller's job.
// Returns mongo.ErrNoDocuments if the group does not exist.
func (s *Store) AddStudents(ctx context.Context, groupID primitive.ObjectID, studentIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	update := bson.M{
		"$addToSet": bson.M{"student_ids": bson.M{"$each": studentIDs}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before models.Group
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": groupID}, update, opts).Decode(&before); err != nil {
		return nil, err
	}

	existing := make(map[primitive.ObjectID]struct{}, len(before.StudentIDs))
	for _, id := range before.StudentIDs {
		existing[id] = struct{}{}
	}
	added := []primitive.ObjectID{}
	for _, id := range studentIDs {
		if _, ok := existing[id]; ok {
			continue
		}
		// Guard against duplicates within the input set as well.
		existing[id] = struct{}{}
		added = append(added, id)
	}
	return added, nil
}

// AppendVideo appends a video to the group's board and returns the updated
// group (including the roster the caller fans notifications out to).
// Returns mongo.ErrNoDocuments if the group does not exist.
func (s *Store) AppendVideo(ctx context.Context, groupID primitive.ObjectID, v models.Video) (models.Group, error) {
	update := bson.M{
		"$push": bson.M{"videos": v},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var g models.Group
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": groupID}, update, opts).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}
