package models

import "time"

// Hashtag is a tag name with the number of posts using it
type Hashtag struct {
	Name       string    `json:"name" gorm:"primaryKey;size:100"`
	PostsCount int64     `json:"posts_count" gorm:"not null;default:0;index"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostHashtag links a post to a hashtag
type PostHashtag struct {
	PostID      uint   `json:"post_id" gorm:"primaryKey"`
	HashtagName string `json:"hashtag_name" gorm:"primaryKey;size:100"`
}

// PostMention links a post to a mentioned user
type PostMention struct {
	PostID uint `json:"post_id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"primaryKey;index"`
}
