package notifications_test

import (
	"testing"

	notificationstore "github.com/rollcallhq/rollcall/internal/app/store/notifications"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"github.com/rollcallhq/rollcall/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMarkRead_OwnerScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	n, err := store.Create(ctx, models.Notification{
		UserID:  owner,
		Type:    models.NotifyWarning,
		Title:   "Предупреждение",
		Message: "test",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A stranger cannot acknowledge someone else's notification.
	matched, err := store.MarkRead(ctx, n.ID, stranger)
	if err != nil {
		t.Fatalf("MarkRead (stranger) failed: %v", err)
	}
	if matched {
		t.Error("expected no match for a non-owner")
	}

	matched, err = store.MarkRead(ctx, n.ID, owner)
	if err != nil {
		t.Fatalf("MarkRead (owner) failed: %v", err)
	}
	if !matched {
		t.Error("expected the owner to match")
	}

	// Marking twice stays a success: the operation is idempotent.
	matched, err = store.MarkRead(ctx, n.ID, owner)
	if err != nil {
		t.Fatalf("second MarkRead failed: %v", err)
	}
	if !matched {
		t.Error("expected an already-read notification to still match")
	}
}

func TestListByUserAndUnreadCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, models.Notification{
			UserID: user, Type: models.NotifyEmployeeAdded, Title: "t", Message: "m",
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	n, err := store.CountUnread(ctx, user)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 unread, got %d", n)
	}

	marked, err := store.MarkAllRead(ctx, user)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if marked != 3 {
		t.Errorf("expected 3 marked, got %d", marked)
	}

	unread, err := store.ListByUser(ctx, user, true)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("expected no unread notifications, got %d", len(unread))
	}
	all, err := store.ListByUser(ctx, user, false)
	if err != nil {
		t.Fatalf("ListByUser (all) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 notifications, got %d", len(all))
	}
}
