package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"flocknet/internal/domain"
	"flocknet/internal/repository"
)

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	from_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	to_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	is_read INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_to ON notifications(to_id);
`

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createNotificationsTable); err != nil {
		return fmt.Errorf("create notifications table: %w", err)
	}
	return nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO notifications (id, type, from_id, to_id, is_read, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID,
		string(n.Type),
		n.FromID,
		n.ToID,
		n.Read,
		n.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, userID string) ([]*domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, type, from_id, to_id, is_read, created_at
FROM notifications
WHERE to_id = ?
ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		var typ string
		if err := rows.Scan(&n.ID, &typ, &n.FromID, &n.ToID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = domain.NotificationType(typ)
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE to_id = ?`, userID); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) DeleteByRecipient(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE to_id = ?`, userID); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}
