package models

import "time"

// Post represents a social media post (PostgreSQL)
type Post struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;index:idx_posts_user_created,priority:1"`
	Content         string    `json:"content" gorm:"type:text"`
	MediaURLs       []string  `json:"media_urls" gorm:"serializer:json;type:text"`
	IsPublic        bool      `json:"is_public" gorm:"not null"`
	CommentsEnabled bool      `json:"comments_enabled" gorm:"not null"`
	LikesCount      int64     `json:"likes_count" gorm:"not null;default:0"`
	CommentsCount   int64     `json:"comments_count" gorm:"not null;default:0"`
	ViewsCount      int64     `json:"views_count" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"index:idx_posts_user_created,priority:2"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content         string   `json:"content" validate:"max=2200"`
	MediaURLs       []string `json:"media_urls,omitempty" validate:"omitempty,max=10,dive,url"`
	IsPublic        *bool    `json:"is_public"`
	CommentsEnabled *bool    `json:"comments_enabled"`
}

// EnrichedPost is a post with author info and viewer-relative flags
type EnrichedPost struct {
	Post
	Author  UserCompact `json:"author"`
	IsLiked bool        `json:"is_liked"`
	IsSaved bool        `json:"is_saved"`
}

// Like is a unique (post, user) edge
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_like_post_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_like_post_user;index"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedPost represents a bookmarked/saved post by a user
type SavedPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_post_save"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_user_post_save;index"`
	CreatedAt time.Time `json:"created_at"`
}

// PostPage is one page of enriched posts
type PostPage struct {
	Posts []EnrichedPost
	Meta  PageMeta
}
