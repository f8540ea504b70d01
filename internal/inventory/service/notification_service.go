package service

import (
	"context"

	"github.com/quayside/stockpilot/internal/inventory/entity"
	"github.com/quayside/stockpilot/internal/inventory/repository"
	"github.com/quayside/stockpilot/internal/sse"
	"go.uber.org/zap"
)

// NotificationService records domain events per user and pushes them to
// connected dashboard clients over SSE.
type NotificationService struct {
	repo   *repository.NotificationRepository
	hub    *sse.Hub
	logger *zap.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, hub *sse.Hub, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, hub: hub, logger: logger}
}

// Emit persists a notification and pushes it to the user's open sessions.
// Emission is fire-and-forget: failures are logged and never fail the
// operation that triggered the event.
func (s *NotificationService) Emit(ctx context.Context, userID, ntype, title, message, referenceID, referenceType string) {
	if userID == "" {
		return
	}

	n := &entity.Notification{
		UserID:        userID,
		Type:          ntype,
		Title:         title,
		Message:       message,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to persist notification",
			zap.String("type", ntype),
			zap.String("user_id", userID),
			zap.Error(err))
		return
	}

	if s.hub != nil {
		s.hub.NotifyUser(userID, "notification", n)
	}
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, page, pageSize int) ([]entity.Notification, int64, error) {
	return s.repo.FindByUser(ctx, userID, page, pageSize)
}

// UnreadCount returns how many unread notifications a user has.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead flips one notification to read.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead flips all of a user's unread notifications to read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}
