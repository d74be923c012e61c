package models

import "time"

// Comment represents a comment on a post; ParentID set means it is a reply
type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PostID     uint      `json:"post_id" gorm:"not null;index"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	ParentID   *uint     `json:"parent_id" gorm:"index"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	LikesCount int64     `json:"likes_count" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CommentLike is a unique (comment, user) edge
type CommentLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID uint      `json:"comment_id" gorm:"not null;uniqueIndex:idx_comment_user_like"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_comment_user_like"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ParentID *uint  `json:"parent_id"`
}

// CommentWithReplies is a top-level comment with a preview of its replies
type CommentWithReplies struct {
	EnrichedComment
	Replies      []EnrichedComment `json:"replies"`
	RepliesCount int64             `json:"replies_count"`
}

// EnrichedComment is a comment with its author and the viewer's like state
type EnrichedComment struct {
	Comment
	Author  UserCompact `json:"author"`
	IsLiked bool        `json:"is_liked"`
}
