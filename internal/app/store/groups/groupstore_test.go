package groupstore_test

import (
	"errors"
	"testing"
	"time"

	groupstore "github.com/dalemusser/mentorhub/internal/app/store/groups"
	"github.com/dalemusser/mentorhub/internal/domain/models"
	"github.com/dalemusser/mentorhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreate_EmptyRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := groupstore.New(db)

	teacher := primitive.NewObjectID()
	g, err := store.Create(ctx, "Beginners", teacher)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.TeacherID != teacher || g.Name != "Beginners" {
		t.Errorf("group: got %+v", g)
	}
	if g.StudentIDs == nil || len(g.StudentIDs) != 0 {
		t.Errorf("roster should be an empty slice, got %v", g.StudentIDs)
	}
	if g.Videos == nil || len(g.Videos) != 0 {
		t.Errorf("videos should be an empty slice, got %v", g.Videos)
	}
}

func TestAddStudents_ReportsOnlyNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := groupstore.New(db)

	existing := primitive.NewObjectID()
	fresh := primitive.NewObjectID()

	fx := testutil.NewFixtures(t, db)
	g := fx.CreateGroup(ctx, "Band", primitive.NewObjectID(), existing)

	added, err := store.AddStudents(ctx, g.ID, []primitive.ObjectID{existing, fresh, fresh})
	if err != nil {
		t.Fatalf("AddStudents failed: %v", err)
	}
	if len(added) != 1 || added[0] != fresh {
		t.Errorf("added: got %v, want only the fresh student once", added)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.StudentIDs) != 2 {
		t.Errorf("roster size: got %d, want 2", len(got.StudentIDs))
	}
}

func TestAddStudents_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)

	g := fx.CreateGroup(ctx, "Band", primitive.NewObjectID())
	student := primitive.NewObjectID()

	first, err := store.AddStudents(ctx, g.ID, []primitive.ObjectID{student})
	if err != nil {
		t.Fatalf("AddStudents failed: %v", err)
	}
	second, err := store.AddStudents(ctx, g.ID, []primitive.ObjectID{student})
	if err != nil {
		t.Fatalf("second AddStudents failed: %v", err)
	}

	if len(first) != 1 {
		t.Errorf("first add: got %v, want one id", first)
	}
	if len(second) != 0 {
		t.Errorf("second add: got %v, want no ids", second)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.StudentIDs) != 1 {
		t.Errorf("roster size: got %d, want 1", len(got.StudentIDs))
	}
}

func TestAddStudents_UnknownGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := groupstore.New(db)

	_, err := store.AddStudents(ctx, primitive.NewObjectID(), []primitive.ObjectID{primitive.NewObjectID()})
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestAppendVideo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)

	student := primitive.NewObjectID()
	g := fx.CreateGroup(ctx, "Band", primitive.NewObjectID(), student)

	v := models.Video{
		Title:     "Lesson 1",
		URL:       "https://cdn.example.com/lesson1.mp4",
		PublicID:  "lesson1",
		CreatedAt: time.Now().UTC(),
	}
	updated, err := store.AppendVideo(ctx, g.ID, v)
	if err != nil {
		t.Fatalf("AppendVideo failed: %v", err)
	}
	if len(updated.Videos) != 1 || updated.Videos[0].PublicID != "lesson1" {
		t.Errorf("videos: got %+v", updated.Videos)
	}
	// The returned group carries the roster for the fan-out.
	if len(updated.StudentIDs) != 1 || updated.StudentIDs[0] != student {
		t.Errorf("roster: got %v", updated.StudentIDs)
	}

	// Appending preserves order.
	v2 := models.Video{Title: "Lesson 2", URL: "https://cdn.example.com/lesson2.mp4", PublicID: "lesson2", CreatedAt: time.Now().UTC()}
	updated, err = store.AppendVideo(ctx, g.ID, v2)
	if err != nil {
		t.Fatalf("second AppendVideo failed: %v", err)
	}
	if len(updated.Videos) != 2 || updated.Videos[1].PublicID != "lesson2" {
		t.Errorf("videos after second append: got %+v", updated.Videos)
	}
}

func TestListByTeacher(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := groupstore.New(db)

	teacher := primitive.NewObjectID()
	if _, err := store.Create(ctx, "One", teacher); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, "Two", teacher); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, "Other", primitive.NewObjectID()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	groups, err := store.ListByTeacher(ctx, teacher)
	if err != nil {
		t.Fatalf("ListByTeacher failed: %v", err)
	}
	if len(groups) != 2 {
		t.Errorf("expected 2 groups, got %d", len(groups))
	}
}
