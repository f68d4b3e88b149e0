package handler

import (
	"context"
	"net/http"

	"github.com/coinvest/coinvest/internal/adapter/http/dto"
	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

// NotificationService defines the behavior needed by NotificationHandler.
type NotificationService interface {
	ListForUser(ctx context.Context, input usecase.ListForUserInput) ([]*domain.Notification, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkAllRead(ctx context.Context) error
}

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	notifUC NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifUC NotificationService) *NotificationHandler {
	return &NotificationHandler{notifUC: notifUC}
}

// ListMine lists the authenticated user's notifications plus broadcasts.
func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	notifs, err := h.notifUC.ListForUser(r.Context(), usecase.ListForUserInput{
		UserID: actor.ID,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NotificationsFromDomain(notifs))
}

// List lists all notifications (admin).
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifs, err := h.notifUC.List(r.Context(),
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NotificationsFromDomain(notifs))
}

// UnreadCount returns the number of unread notifications (admin).
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifUC.UnreadCount(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UnreadCountResponse{Count: int(count)})
}

// MarkAllRead marks every notification read (admin).
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifUC.MarkAllRead(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "notifications marked as read"})
}
