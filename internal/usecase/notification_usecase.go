package usecase

import (
	"context"

	"github.com/coinvest/coinvest/internal/domain"
)

// NotificationUseCase serves the notification feed. Records are written
// by the transaction use case; this one only reads and flips read flags.
type NotificationUseCase struct {
	notifRepo NotificationRepository
}

// NewNotificationUseCase creates a new NotificationUseCase.
func NewNotificationUseCase(notifRepo NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{
		notifRepo: notifRepo,
	}
}

// ListForUserInput represents input for listing a user's notifications.
type ListForUserInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListForUser returns the user's notifications plus broadcasts, newest
// first.
func (uc *NotificationUseCase) ListForUser(ctx context.Context, input ListForUserInput) ([]*domain.Notification, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.notifRepo.ListByUser(ctx, input.UserID, limit, offset)
}

// List returns all notifications, newest first (admin).
func (uc *NotificationUseCase) List(ctx context.Context, limit, offset int) ([]*domain.Notification, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.notifRepo.List(ctx, limit, offset)
}

// UnreadCount returns the number of unread notifications (admin).
func (uc *NotificationUseCase) UnreadCount(ctx context.Context) (int64, error) {
	return uc.notifRepo.CountUnread(ctx)
}

// MarkAllRead flips every unread notification to read (admin).
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context) error {
	return uc.notifRepo.MarkAllRead(ctx)
}
