package service

import (
	"context"
	"testing"

	"github.com/quayside/stockpilot/internal/inventory/entity"
)

func TestNotificationLifecycle(t *testing.T) {
	_, svcs := setupServices(t)
	ctx := context.Background()

	svcs.Notification.Emit(ctx, "user-1", entity.NotificationSystem, "Hello", "first", "", "")
	svcs.Notification.Emit(ctx, "user-1", entity.NotificationSystem, "Hello", "second", "", "")
	svcs.Notification.Emit(ctx, "user-2", entity.NotificationSystem, "Hello", "other user", "", "")

	count, err := svcs.Notification.UnreadCount(ctx, "user-1")
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}

	items, total, err := svcs.Notification.List(ctx, "user-1", 1, 20)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 notifications, got total=%d len=%d", total, len(items))
	}

	if err := svcs.Notification.MarkRead(ctx, items[0].ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	count, _ = svcs.Notification.UnreadCount(ctx, "user-1")
	if count != 1 {
		t.Fatalf("expected 1 unread after MarkRead, got %d", count)
	}

	if err := svcs.Notification.MarkAllRead(ctx, "user-1"); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	count, _ = svcs.Notification.UnreadCount(ctx, "user-1")
	if count != 0 {
		t.Fatalf("expected 0 unread after MarkAllRead, got %d", count)
	}

	// other user untouched
	count, _ = svcs.Notification.UnreadCount(ctx, "user-2")
	if count != 1 {
		t.Fatalf("expected user-2 unread to stay 1, got %d", count)
	}
}

func TestNotificationEmitWithoutUserIsDropped(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	svcs.Notification.Emit(ctx, "", entity.NotificationSystem, "Hello", "no user", "", "")

	var count int64
	db.Model(&entity.Notification{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no rows for empty user, got %d", count)
	}
}
