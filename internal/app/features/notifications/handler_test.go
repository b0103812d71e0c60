package notifications_test

import (
	"net/http"
	"testing"

	notificationsfeature "github.com/dalemusser/mentorhub/internal/app/features/notifications"
	notificationstore "github.com/dalemusser/mentorhub/internal/app/store/notifications"
	"github.com/dalemusser/mentorhub/internal/domain/models"
	"github.com/dalemusser/mentorhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*notificationsfeature.Handler, *notificationstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	return notificationsfeature.NewHandler(store, zap.NewNop()), store, testutil.NewFixtures(t, db)
}

func TestServeList_OwnOnly(t *testing.T) {
	h, _, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := primitive.NewObjectID()
	other := primitive.NewObjectID()
	fx.CreateNotification(ctx, me, models.NotifyRequestAccepted)
	fx.CreateNotification(ctx, me, models.NotifyGroupAdded)
	fx.CreateNotification(ctx, other, models.NotifyGroupAdded)

	req := testutil.WithUser(testutil.NewRequest("GET", "/api/notifications"), me)
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var body struct {
		Notifications []struct {
			UserID string `json:"userId"`
			Type   string `json:"type"`
			Read   bool   `json:"read"`
		} `json:"notifications"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(body.Notifications))
	}
	for _, n := range body.Notifications {
		if n.UserID != me.Hex() {
			t.Errorf("listed someone else's notification: %+v", n)
		}
	}
}

func TestServeList_Empty(t *testing.T) {
	h, _, _ := newHandler(t)

	req := testutil.WithUser(testutil.NewRequest("GET", "/api/notifications"), primitive.NewObjectID())
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"notifications":[]`)
}

func TestMarkRead(t *testing.T) {
	h, store, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := primitive.NewObjectID()
	n := fx.CreateNotification(ctx, me, models.NotifyVideoUploaded)

	req := testutil.WithUser(testutil.WithChiURLParam(
		testutil.NewRequest("POST", "/api/notifications/"+n.ID.Hex()+"/read"),
		"id", n.ID.Hex()), me)
	rec := testutil.NewRecorder()
	h.HandleMarkRead(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	got, err := store.GetByID(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.Read {
		t.Error("notification should be read")
	}

	// Marking again still succeeds.
	rec = testutil.NewRecorder()
	h.HandleMarkRead(rec, testutil.WithUser(testutil.WithChiURLParam(
		testutil.NewRequest("POST", "/api/notifications/"+n.ID.Hex()+"/read"),
		"id", n.ID.Hex()), me))
	rec.AssertStatus(t, http.StatusOK)
}

func TestMarkRead_NotOwner(t *testing.T) {
	h, store, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()
	n := fx.CreateNotification(ctx, owner, models.NotifyVideoUploaded)

	req := testutil.WithUser(testutil.WithChiURLParam(
		testutil.NewRequest("POST", "/api/notifications/"+n.ID.Hex()+"/read"),
		"id", n.ID.Hex()), intruder)
	rec := testutil.NewRecorder()
	h.HandleMarkRead(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertErrorCode(t, "not_authorized")

	got, err := store.GetByID(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Read {
		t.Error("foreign mark-read must not flip the flag")
	}
}

func TestMarkRead_NotFound(t *testing.T) {
	h, _, _ := newHandler(t)

	for _, id := range []string{primitive.NewObjectID().Hex(), "garbage"} {
		req := testutil.WithUser(testutil.WithChiURLParam(
			testutil.NewRequest("POST", "/api/notifications/"+id+"/read"),
			"id", id), primitive.NewObjectID())
		rec := testutil.NewRecorder()
		h.HandleMarkRead(rec, req)
		rec.AssertStatus(t, http.StatusNotFound)
		rec.AssertErrorCode(t, "not_found")
	}
}
