package requeststore_test

import (
	"errors"
	"sync"
	"testing"

	requeststore "github.com/dalemusser/mentorhub/internal/app/store/requests"
	"github.com/dalemusser/mentorhub/internal/domain/models"
	"github.com/dalemusser/mentorhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreate_StartsPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := requeststore.New(db)

	student, teacher := primitive.NewObjectID(), primitive.NewObjectID()
	req, err := store.Create(ctx, student, teacher)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if req.Status != models.StatusPending {
		t.Errorf("status: got %q, want pending", req.Status)
	}
	if req.StudentID != student || req.TeacherID != teacher {
		t.Errorf("pair: got (%s, %s)", req.StudentID.Hex(), req.TeacherID.Hex())
	}
}

func TestCreate_DuplicatePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := requeststore.New(db)

	student, teacher := primitive.NewObjectID(), primitive.NewObjectID()
	if _, err := store.Create(ctx, student, teacher); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := store.Create(ctx, student, teacher); !errors.Is(err, requeststore.ErrDuplicatePending) {
		t.Errorf("expected ErrDuplicatePending, got %v", err)
	}

	// A different teacher is a different pair.
	if _, err := store.Create(ctx, student, primitive.NewObjectID()); err != nil {
		t.Errorf("create for a different teacher failed: %v", err)
	}
}

func TestCreate_ConcurrentDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := requeststore.New(db)

	student, teacher := primitive.NewObjectID(), primitive.NewObjectID()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Create(ctx, student, teacher)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, requeststore.ErrDuplicatePending):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("concurrent creates: got %d winners, want exactly 1", winners)
	}
}

func TestCreate_AfterAccept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := requeststore.New(db)

	student, teacher := primitive.NewObjectID(), primitive.NewObjectID()
	req, err := store.Create(ctx, student, teacher)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Accept(ctx, req.ID); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	// The pair is free again once the first request is terminal.
	if _, err := store.Create(ctx, student, teacher); err != nil {
		t.Errorf("re-request after accept failed: %v", err)
	}
}

func TestAccept_OnlyOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := requeststore.New(db)

	req, err := store.Create(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.Accept(ctx, req.ID)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if updated.Status != models.StatusAccepted {
		t.Errorf("status: got %q, want accepted", updated.Status)
	}

	if _, err := store.Accept(ctx, req.ID); !errors.Is(err, requeststore.ErrNotPending) {
		t.Errorf("second accept: expected ErrNotPending, got %v", err)
	}
}

func TestAccept_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := requeststore.New(db)

	if _, err := store.Accept(ctx, primitive.NewObjectID()); !errors.Is(err, requeststore.ErrNotPending) {
		t.Errorf("expected ErrNotPending for unknown id, got %v", err)
	}
}

func TestAccept_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := requeststore.New(db)

	req, err := store.Create(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Accept(ctx, req.ID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, requeststore.ErrNotPending):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("concurrent accepts: got %d winners, want exactly 1", winners)
	}
}

func TestListIncoming_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := requeststore.New(db)

	teacher := primitive.NewObjectID()
	var ids []primitive.ObjectID
	for i := 0; i < 3; i++ {
		req, err := store.Create(ctx, primitive.NewObjectID(), teacher)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, req.ID)
	}
	// Another teacher's request must not appear.
	if _, err := store.Create(ctx, primitive.NewObjectID(), primitive.NewObjectID()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.ListIncoming(ctx, teacher, 200)
	if err != nil {
		t.Fatalf("ListIncoming failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(got))
	}
	for i, req := range got {
		if req.ID != ids[len(ids)-1-i] {
			t.Errorf("position %d: got %s, want %s (newest first)", i, req.ID.Hex(), ids[len(ids)-1-i].Hex())
		}
	}

	limited, err := store.ListIncoming(ctx, teacher, 2)
	if err != nil {
		t.Fatalf("ListIncoming failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit 2: got %d", len(limited))
	}
}

func TestAcceptedStudentIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := requeststore.New(db)
	fx := testutil.NewFixtures(t, db)

	teacher := primitive.NewObjectID()
	accepted := primitive.NewObjectID()
	pending := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	otherTeacherStudent := primitive.NewObjectID()

	fx.CreateRequest(ctx, accepted, teacher, models.StatusAccepted)
	fx.CreateRequest(ctx, pending, teacher, models.StatusPending)
	fx.CreateRequest(ctx, otherTeacherStudent, primitive.NewObjectID(), models.StatusAccepted)

	got, err := store.AcceptedStudentIDs(ctx, teacher,
		[]primitive.ObjectID{accepted, pending, stranger, otherTeacherStudent})
	if err != nil {
		t.Fatalf("AcceptedStudentIDs failed: %v", err)
	}
	if len(got) != 1 || got[0] != accepted {
		t.Errorf("eligible: got %v, want only the accepted student", got)
	}
}

func TestAcceptedStudentIDs_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := requeststore.New(db)

	got, err := store.AcceptedStudentIDs(ctx, primitive.NewObjectID(), nil)
	if err != nil {
		t.Fatalf("AcceptedStudentIDs failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no ids, got %v", got)
	}
}

func TestGetByID_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := requeststore.New(db)

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}
