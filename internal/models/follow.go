package models

import "time"

// Follow is a directed follower -> following edge (PostgreSQL)
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"not null;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"not null;uniqueIndex:idx_follower_following;index"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowUser is a listed follower/following with the viewer's relation to them
type FollowUser struct {
	UserCompact
	Bio         string `json:"bio"`
	IsFollowing bool   `json:"is_following"`
}
