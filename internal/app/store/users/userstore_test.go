package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/mentorhub/internal/app/store/users"
	"github.com/dalemusser/mentorhub/internal/domain/models"
	"github.com/dalemusser/mentorhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreate_NormalizesIdentity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := userstore.New(db)

	u, err := store.Create(ctx, models.User{
		Name:         "  Pat Chen  ",
		Email:        "Pat.Chen@Example.COM",
		Username:     "PatC",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.Email != "pat.chen@example.com" {
		t.Errorf("email: got %q", u.Email)
	}
	if u.Username != "patc" {
		t.Errorf("username: got %q", u.Username)
	}
	if u.Name != "Pat Chen" {
		t.Errorf("name: got %q", u.Name)
	}
	if u.Role != "" {
		t.Errorf("role should be unset at signup, got %q", u.Role)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := userstore.New(db)

	first := models.User{Name: "A", Email: "dup@test.com", Username: "user_a", PasswordHash: "x"}
	if _, err := store.Create(ctx, first); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	second := models.User{Name: "B", Email: "DUP@test.com", Username: "user_b", PasswordHash: "x"}
	if _, err := store.Create(ctx, second); !errors.Is(err, userstore.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for same email, got %v", err)
	}
}

func TestGetByIdentifier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := userstore.New(db)

	created, err := store.Create(ctx, models.User{
		Name: "Sam", Email: "sam@test.com", Username: "sam_t", PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, identifier := range []string{"sam@test.com", "SAM@TEST.COM", "sam_t", "Sam_T"} {
		u, err := store.GetByIdentifier(ctx, identifier)
		if err != nil {
			t.Fatalf("GetByIdentifier(%q) failed: %v", identifier, err)
		}
		if u.ID != created.ID {
			t.Errorf("GetByIdentifier(%q): got %s, want %s", identifier, u.ID.Hex(), created.ID.Hex())
		}
	}

	if _, err := store.GetByIdentifier(ctx, "nobody@test.com"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments for unknown identifier, got %v", err)
	}
}

func TestCompleteProfile_RoleImmutable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)

	u := fx.CreateUser(ctx, "Fresh", "")

	// First write sets the role.
	if err := store.CompleteProfile(ctx, u.ID, models.RoleTeacher, "bio", ""); err != nil {
		t.Fatalf("CompleteProfile failed: %v", err)
	}

	// Same role again is a no-op success (bio may change).
	if err := store.CompleteProfile(ctx, u.ID, models.RoleTeacher, "new bio", ""); err != nil {
		t.Fatalf("CompleteProfile with same role failed: %v", err)
	}

	// A different role is rejected.
	err := store.CompleteProfile(ctx, u.ID, models.RoleStudent, "bio", "")
	if !errors.Is(err, userstore.ErrRoleImmutable) {
		t.Errorf("expected ErrRoleImmutable, got %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Role != models.RoleTeacher {
		t.Errorf("role: got %q, want teacher", got.Role)
	}
	if got.Bio != "new bio" {
		t.Errorf("bio: got %q, want %q", got.Bio, "new bio")
	}
}

func TestCompleteProfile_UnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := userstore.New(db)

	err := store.CompleteProfile(ctx, primitive.NewObjectID(), models.RoleStudent, "", "")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestSearchTeachers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)

	guitar := fx.CreateTeacherWithBio(ctx, "Alice Frets", "I teach GUITAR.")
	piano := fx.CreateTeacherWithBio(ctx, "Bob Keys", "Classical piano lessons.")
	fx.CreateStudent(ctx, "Guitar Fan") // students never match

	results, err := store.SearchTeachers(ctx, "guitar", 20)
	if err != nil {
		t.Fatalf("SearchTeachers failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != guitar.ID {
		t.Errorf("search 'guitar': got %d results, want exactly the guitar teacher", len(results))
	}

	// Case-insensitive name match.
	results, err = store.SearchTeachers(ctx, "bob k", 20)
	if err != nil {
		t.Fatalf("SearchTeachers failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != piano.ID {
		t.Errorf("search 'bob k': got %d results, want exactly the piano teacher", len(results))
	}
}

func TestSearchTeachers_EmptyQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	fx.CreateTeacher(ctx, "Someone")

	results, err := store.SearchTeachers(ctx, "", 20)
	if err != nil {
		t.Fatalf("SearchTeachers failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty query should return no results, got %d", len(results))
	}
}

func TestSearchTeachers_EscapesRegex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	fx.CreateTeacher(ctx, "Anyone")

	// ".*" must match literally, not as a wildcard.
	results, err := store.SearchTeachers(ctx, ".*", 20)
	if err != nil {
		t.Fatalf("SearchTeachers failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("metacharacter query matched %d teachers, want 0", len(results))
	}
}

func TestSearchTeachers_Limit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)

	for i := 0; i < 5; i++ {
		fx.CreateTeacher(ctx, "Music Teacher")
	}

	results, err := store.SearchTeachers(ctx, "music", 3)
	if err != nil {
		t.Fatalf("SearchTeachers failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("limit 3: got %d results", len(results))
	}
}

func TestGetTeacherByID_NotTeacher(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)

	student := fx.CreateStudent(ctx, "Just A Student")
	if _, err := store.GetTeacherByID(ctx, student.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments for a student id, got %v", err)
	}

	teacher := fx.CreateTeacher(ctx, "Real Teacher")
	got, err := store.GetTeacherByID(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("GetTeacherByID failed: %v", err)
	}
	if got.ID != teacher.ID || got.Name != "Real Teacher" {
		t.Errorf("summary: got %+v", got)
	}
}

func TestSummaries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)

	a := fx.CreateStudent(ctx, "Student A")
	b := fx.CreateStudent(ctx, "Student B")
	missing := primitive.NewObjectID()

	got, err := store.Summaries(ctx, []primitive.ObjectID{a.ID, b.ID, missing})
	if err != nil {
		t.Fatalf("Summaries failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	if got[a.ID].Name != "Student A" || got[b.ID].Name != "Student B" {
		t.Errorf("summaries: got %+v", got)
	}
	if _, ok := got[missing]; ok {
		t.Error("missing id should be absent from the map")
	}
}
