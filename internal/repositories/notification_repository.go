package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetNotificationByID(ctx context.Context, id uint) (*models.Notification, error)
	GetByRecipientID(ctx context.Context, recipientID uint, page models.Page) ([]models.Notification, int64, error)
	GetGrouped(ctx context.Context, recipientID uint, now time.Time) (models.GroupedNotifications, error)
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAsRead(ctx context.Context, notificationID uint) error
	MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error)
}

// PostgresNotificationRepository implements NotificationRepository for PostgreSQL
type PostgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return translate("create notification", r.db.WithContext(ctx).Create(notification).Error)
}

func (r *PostgresNotificationRepository) GetNotificationByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translate("get notification", err)
	}
	return &n, nil
}

func (r *PostgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint, page models.Page) ([]models.Notification, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, translate("count notifications", err)
	}

	var notifications []models.Notification
	err := db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, translate("list notifications", err)
	}
	return notifications, total, nil
}

// GetGrouped buckets notifications into today, yesterday, the rest of the
// last week, and older (capped at 50), all relative to now.
func (r *PostgresNotificationRepository) GetGrouped(ctx context.Context, recipientID uint, now time.Time) (models.GroupedNotifications, error) {
	var g models.GroupedNotifications
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	db := r.db.WithContext(ctx)
	buckets := []struct {
		dest  *[]models.Notification
		where string
		args  []interface{}
		limit int
	}{
		{&g.Today, "created_at >= ?", []interface{}{todayStart}, -1},
		{&g.Yesterday, "created_at >= ? AND created_at < ?", []interface{}{yesterdayStart, todayStart}, -1},
		{&g.ThisWeek, "created_at >= ? AND created_at < ?", []interface{}{weekStart, yesterdayStart}, -1},
		{&g.Older, "created_at < ?", []interface{}{weekStart}, 50},
	}
	for _, b := range buckets {
		err := db.Where("recipient_id = ?", recipientID).
			Where(b.where, b.args...).
			Order("created_at DESC, id DESC").
			Limit(b.limit).
			Find(b.dest).Error
		if err != nil {
			return g, translate("get grouped notifications", err)
		}
	}
	return g, nil
}

func (r *PostgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, translate("count unread notifications", err)
	}
	return count, nil
}

func (r *PostgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID uint) error {
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("is_read", true).Error
	return translate("mark notification read", err)
}

// MarkAllAsRead flips every unread notification of the recipient in one statement
func (r *PostgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, translate("mark all notifications read", res.Error)
	}
	return res.RowsAffected, nil
}
