package models

import "time"

// StoryLifetime is the fixed visibility window of a story.
const StoryLifetime = 24 * time.Hour

// Story media types
const (
	StoryMediaImage = "IMAGE"
	StoryMediaVideo = "VIDEO"
)

// Story is ephemeral content visible until ExpiresAt (PostgreSQL)
type Story struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	MediaURL   string    `json:"media_url" gorm:"not null"`
	MediaType  string    `json:"media_type" gorm:"size:10;not null;default:IMAGE"`
	Caption    string    `json:"caption" gorm:"size:500"`
	ViewsCount int64     `json:"views_count" gorm:"not null;default:0"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// StoryView is a unique (story, viewer) record
type StoryView struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	StoryID  uint      `json:"story_id" gorm:"not null;uniqueIndex:idx_story_viewer"`
	ViewerID uint      `json:"viewer_id" gorm:"not null;uniqueIndex:idx_story_viewer;index"`
	ViewedAt time.Time `json:"viewed_at"`
}

// CreateStoryRequest defines the request body for creating a story
type CreateStoryRequest struct {
	MediaURL  string `json:"media_url" validate:"required,url"`
	MediaType string `json:"media_type" validate:"omitempty,oneof=IMAGE VIDEO"`
	Caption   string `json:"caption" validate:"max=500"`
}

// StoryReplyRequest is a direct reply to a story, delivered as a message
type StoryReplyRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// StoryItem is a story annotated for one viewer
type StoryItem struct {
	Story
	IsViewed bool `json:"is_viewed"`
}

// StoryGroup is one owner's visible stories in recency order
type StoryGroup struct {
	UserID    uint        `json:"user_id"`
	User      UserCompact `json:"user"`
	Stories   []StoryItem `json:"stories"`
	HasUnseen bool        `json:"has_unseen"`
}

// StoryViewer is one entry of a story's viewer list
type StoryViewer struct {
	UserCompact
	ViewedAt time.Time `json:"viewed_at"`
}
