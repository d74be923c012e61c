package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// Event describes an action that may notify its target's owner. ActorID 0
// marks a system-generated event.
type Event struct {
	Type        models.NotificationType
	ActorID     uint
	RecipientID uint
	TargetID    string
	TargetType  string
	Message     string
}

// Notifier schedules an Event for delivery. It never fails the caller.
type Notifier interface {
	Dispatch(ev Event)
}

// NotificationPage is one page of a recipient's notifications
type NotificationPage struct {
	Notifications []models.EnrichedNotification
	UnreadCount   int64
	Meta          models.PageMeta
}

// NotificationService writes notifications and serves the recipient's read side
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	now           func() time.Time
}

// NewNotificationService creates a NotificationService
func NewNotificationService(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationService {
	return &NotificationService{
		notifications: notifRepo,
		users:         userRepo,
		now:           time.Now,
	}
}

// Notify persists exactly one unread notification for ev, or none when the
// actor is the recipient. Repeated identical events are not deduplicated.
func (s *NotificationService) Notify(ctx context.Context, ev Event) (bool, error) {
	if ev.ActorID == ev.RecipientID {
		return false, nil
	}
	if ev.RecipientID == 0 || ev.Type == "" {
		return false, fmt.Errorf("notify: recipient and type are required: %w", models.ErrValidation)
	}

	n := &models.Notification{
		Type:        ev.Type,
		RecipientID: ev.RecipientID,
		TargetID:    ev.TargetID,
		TargetType:  ev.TargetType,
		Message:     ev.Message,
		IsRead:      false,
	}
	if ev.ActorID != 0 {
		sender := ev.ActorID
		n.SenderID = &sender
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return false, err
	}
	return true, nil
}

// List returns one page of the recipient's notifications, newest first
func (s *NotificationService) List(ctx context.Context, recipientID uint, page models.Page) (*NotificationPage, error) {
	items, total, err := s.notifications.GetByRecipientID(ctx, recipientID, page)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.GetUnreadCount(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	enriched, err := s.enrich(ctx, items)
	if err != nil {
		return nil, err
	}
	return &NotificationPage{
		Notifications: enriched,
		UnreadCount:   unread,
		Meta:          page.Meta(total),
	}, nil
}

// Grouped returns the recipient's notifications bucketed by age
func (s *NotificationService) Grouped(ctx context.Context, recipientID uint) (map[string][]models.EnrichedNotification, int64, error) {
	g, err := s.notifications.GetGrouped(ctx, recipientID, s.now())
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.notifications.GetUnreadCount(ctx, recipientID)
	if err != nil {
		return nil, 0, err
	}

	all := make([]models.Notification, 0, len(g.Today)+len(g.Yesterday)+len(g.ThisWeek)+len(g.Older))
	all = append(all, g.Today...)
	all = append(all, g.Yesterday...)
	all = append(all, g.ThisWeek...)
	all = append(all, g.Older...)
	enriched, err := s.enrich(ctx, all)
	if err != nil {
		return nil, 0, err
	}

	out := make(map[string][]models.EnrichedNotification, 4)
	offset := 0
	for _, b := range []struct {
		key string
		n   int
	}{{"today", len(g.Today)}, {"yesterday", len(g.Yesterday)}, {"thisWeek", len(g.ThisWeek)}, {"older", len(g.Older)}} {
		out[b.key] = enriched[offset : offset+b.n]
		offset += b.n
	}
	return out, unread, nil
}

// UnreadCount counts the recipient's unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.notifications.GetUnreadCount(ctx, recipientID)
}

// MarkRead marks one notification read. Only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, requesterID uint) error {
	n, err := s.notifications.GetNotificationByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.RecipientID != requesterID {
		return fmt.Errorf("mark notification %d read: %w", notificationID, models.ErrForbidden)
	}
	if n.IsRead {
		return nil
	}
	return s.notifications.MarkAsRead(ctx, notificationID)
}

// MarkAllRead marks every unread notification of the recipient read
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.notifications.MarkAllAsRead(ctx, recipientID)
}

func (s *NotificationService) enrich(ctx context.Context, items []models.Notification) ([]models.EnrichedNotification, error) {
	ids := make([]uint, 0, len(items))
	for _, n := range items {
		if n.SenderID != nil {
			ids = append(ids, *n.SenderID)
		}
	}
	senders, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.EnrichedNotification, len(items))
	for i, n := range items {
		out[i] = models.EnrichedNotification{Notification: n}
		if n.SenderID == nil {
			continue
		}
		if u, ok := senders[*n.SenderID]; ok {
			compact := u.ToCompact()
			out[i].Sender = &compact
		}
	}
	return out, nil
}
