package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinvest/coinvest/internal/domain"
)

const notificationColumns = `id, title, message, type, user_id, read, link, created_at`

// NotificationRepository implements usecase.NotificationRepository.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a new notification
func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		notification.ID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.UserID,
		notification.Read,
		notification.Link,
		notification.CreatedAt,
	)

	return err
}

// ListByUser retrieves the user's notifications plus broadcasts, newest
// first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.listNotifications(ctx, query, userID, limit, offset)
}

// List retrieves all notifications, newest first
func (r *NotificationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return r.listNotifications(ctx, query, limit, offset)
}

// CountUnread counts unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE read = false`

	var count int64
	err := r.pool.QueryRow(ctx, query).Scan(&count)

	return count, err
}

// MarkAllRead marks every notification read
func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	query := `UPDATE notifications SET read = true WHERE read = false`

	_, err := r.pool.Exec(ctx, query)

	return err
}

func (r *NotificationRepository) listNotifications(ctx context.Context, query string, args ...any) ([]*domain.Notification, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		notification, err := r.scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}

func (r *NotificationRepository) scanNotification(row pgx.Row) (*domain.Notification, error) {
	var notification domain.Notification

	err := row.Scan(
		&notification.ID,
		&notification.Title,
		&notification.Message,
		&notification.Type,
		&notification.UserID,
		&notification.Read,
		&notification.Link,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &notification, nil
}
