package domain

import "time"

// NotificationType tags the severity of a notification.
type NotificationType string

const (
	NotifyInfo    NotificationType = "INFO"
	NotifyWarning NotificationType = "WARNING"
	NotifyError   NotificationType = "ERROR"
	NotifySuccess NotificationType = "SUCCESS"
)

// Notification is an append-only event record addressed to a user, or
// broadcast when UserID is nil. Emitted exactly once per committed
// transaction transition, after the commit; delivery failure never
// rolls the transition back.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Type      NotificationType
	UserID    *string
	Read      bool
	Link      string
	CreatedAt time.Time
}
