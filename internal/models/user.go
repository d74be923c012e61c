package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User represents a user account (PostgreSQL)
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password     string    `json:"-"`
	FirstName    string    `json:"first_name" gorm:"size:100"`
	LastName     string    `json:"last_name" gorm:"size:100"`
	Bio          string    `json:"bio" gorm:"size:500"`
	Avatar       string    `json:"avatar"`
	CoverPhoto   string    `json:"cover_photo"`
	Website      string    `json:"website"`
	Location     string    `json:"location" gorm:"size:100"`
	IsVerified   bool      `json:"is_verified" gorm:"default:false"`
	IsPrivate    bool      `json:"is_private" gorm:"default:false"`
	FirebaseUID  *string   `json:"-" gorm:"uniqueIndex"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserCompact is the public author/actor shape embedded in other responses
type UserCompact struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Avatar     string `json:"avatar"`
	IsVerified bool   `json:"is_verified"`
}

// ToCompact converts a User to UserCompact
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Avatar:     u.Avatar,
		IsVerified: u.IsVerified,
	}
}

// DisplayName returns "First Last", falling back to the username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// UserStats holds relationship and content counts derived by query
type UserStats struct {
	Posts     int64 `json:"posts"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// UserProfile is a user with stats and viewer-relative state
type UserProfile struct {
	User
	Stats       UserStats `json:"stats"`
	IsFollowing bool      `json:"is_following"`
	IsOwn       bool      `json:"is_own"`
}

// RegisterRequest is the payload for email/password signup
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Username  string `json:"username" validate:"omitempty,username"`
}

// LoginRequest is the payload for email/password login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// FirebaseLoginRequest carries a Firebase ID token
type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// UpdateProfileRequest holds optional profile fields; nil means unchanged
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100"`
	Bio        *string `json:"bio" validate:"omitempty,max=500"`
	Avatar     *string `json:"avatar" validate:"omitempty,url"`
	CoverPhoto *string `json:"cover_photo" validate:"omitempty,url"`
	Website    *string `json:"website" validate:"omitempty,url"`
	Location   *string `json:"location" validate:"omitempty,max=100"`
	IsPrivate  *bool   `json:"is_private"`
}

// TokenPair is returned by every successful authentication
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// JwtCustomClaims are the claims carried by access and refresh tokens
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
