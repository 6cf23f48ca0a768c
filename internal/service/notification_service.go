package service

import (
	"context"

	"github.com/google/uuid"

	"flocknet/internal/domain"
	"flocknet/internal/repository"
)

// NotificationService records and serves notification events.
type NotificationService interface {
	// RecordFollow appends an unread follow notification from one user to
	// another, timestamped now.
	RecordFollow(ctx context.Context, fromID, toID string) error
	// ListForUser returns the user's notifications newest first and marks
	// them all as read.
	ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	ClearForUser(ctx context.Context, userID string) error
}

type notificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) RecordFollow(ctx context.Context, fromID, toID string) error {
	return s.notifications.Create(ctx, &domain.Notification{
		ID:     uuid.NewString(),
		Type:   domain.NotificationFollow,
		FromID: fromID,
		ToID:   toID,
	})
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	notifications, err := s.notifications.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.notifications.MarkAllRead(ctx, userID); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *notificationService) ClearForUser(ctx context.Context, userID string) error {
	return s.notifications.DeleteByRecipient(ctx, userID)
}
