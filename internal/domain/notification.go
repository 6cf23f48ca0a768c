package domain

import "time"

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	// NotificationFollow is emitted when a user starts following another.
	NotificationFollow NotificationType = "follow"
)

// Notification is a one-way event record addressed to a user.
type Notification struct {
	ID        string
	Type      NotificationType
	FromID    string
	ToID      string
	Read      bool
	CreatedAt time.Time
}

// FollowState is the outcome of a follow toggle.
type FollowState string

const (
	Followed   FollowState = "followed"
	Unfollowed FollowState = "unfollowed"
)
