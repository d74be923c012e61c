package models

import "time"

// NotificationType enumerates the actions that fan out a notification
type NotificationType string

const (
	NotificationLike    NotificationType = "LIKE"
	NotificationComment NotificationType = "COMMENT"
	NotificationMention NotificationType = "MENTION"
	NotificationFollow  NotificationType = "FOLLOW"
	NotificationMessage NotificationType = "MESSAGE"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Type        NotificationType `json:"type" gorm:"size:20;not null"`
	SenderID    *uint            `json:"sender_id" gorm:"index"`
	RecipientID uint             `json:"recipient_id" gorm:"not null;index:idx_notifications_recipient,priority:1"`
	TargetID    string           `json:"target_id"`
	TargetType  string           `json:"target_type" gorm:"size:20"` // post, comment, user, message
	Message     string           `json:"message"`
	IsRead      bool             `json:"is_read" gorm:"not null;default:false"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index:idx_notifications_recipient,priority:2"`
}

// EnrichedNotification includes sender info
type EnrichedNotification struct {
	Notification
	Sender *UserCompact `json:"sender"`
}

// GroupedNotifications buckets notifications by age relative to now
type GroupedNotifications struct {
	Today     []Notification
	Yesterday []Notification
	ThisWeek  []Notification
	Older     []Notification
}
