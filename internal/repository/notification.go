package repository

import (
	"context"

	"flocknet/internal/domain"
)

// NotificationRepository persists notification events.
type NotificationRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, n *domain.Notification) error
	// ListByRecipient returns all notifications addressed to the user,
	// newest first.
	ListByRecipient(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	DeleteByRecipient(ctx context.Context, userID string) error
}
