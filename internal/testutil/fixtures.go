package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/mentorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// HashPassword bcrypt-hashes a plaintext password for fixture users. Cost
// is kept at the library minimum so test suites stay fast.
func (f *Fixtures) HashPassword(password string) string {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}
	return string(hash)
}

// CreateUser creates a test user with the given role ("" for a fresh
// signup that has not completed its profile). Email and username are
// generated unique so fixtures never collide on the unique indexes.
func (f *Fixtures) CreateUser(ctx context.Context, name, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	suffix := primitive.NewObjectID().Hex()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        fmt.Sprintf("%s@test.com", suffix),
		Username:     "u_" + suffix,
		PasswordHash: f.HashPassword("password123"),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTeacher creates a test user with the teacher role.
func (f *Fixtures) CreateTeacher(ctx context.Context, name string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, models.RoleTeacher)
}

// CreateTeacherWithBio creates a teacher with a bio, for search tests.
func (f *Fixtures) CreateTeacherWithBio(ctx context.Context, name, bio string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, name, models.RoleTeacher)
	_, err := f.db.Collection("users").UpdateByID(ctx, u.ID,
		bson.M{"$set": bson.M{"bio": bio}})
	if err != nil {
		f.t.Fatalf("failed to set fixture bio: %v", err)
	}
	u.Bio = bio
	return u
}

// CreateStudent creates a test user with the student role.
func (f *Fixtures) CreateStudent(ctx context.Context, name string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, models.RoleStudent)
}

// CreateRequest creates a request in the given status.
func (f *Fixtures) CreateRequest(ctx context.Context, studentID, teacherID primitive.ObjectID, status string) models.Request {
	f.t.Helper()

	now := time.Now().UTC()
	req := models.Request{
		ID:        primitive.NewObjectID(),
		StudentID: studentID,
		TeacherID: teacherID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test request: %v", err)
	}
	return req
}

// CreateGroup creates a group owned by the teacher with the given roster.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, teacherID primitive.ObjectID, studentIDs ...primitive.ObjectID) models.Group {
	f.t.Helper()

	if studentIDs == nil {
		studentIDs = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	group := models.Group{
		ID:         primitive.NewObjectID(),
		Name:       name,
		TeacherID:  teacherID,
		StudentIDs: studentIDs,
		Videos:     []models.Video{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateNotification creates an inbox entry for the user.
func (f *Fixtures) CreateNotification(ctx context.Context, userID primitive.ObjectID, eventType string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      eventType,
		Payload:   map[string]any{},
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
