package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message between two users (MongoDB)
type Message struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID   uint               `json:"sender_id" bson:"sender_id"`
	ReceiverID uint               `json:"receiver_id" bson:"receiver_id"`
	Content    string             `json:"content" bson:"content"`
	MediaURL   string             `json:"media_url,omitempty" bson:"media_url,omitempty"`
	StoryID    *uint              `json:"story_id,omitempty" bson:"story_id,omitempty"`
	IsRead     bool               `json:"is_read" bson:"is_read"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"max=2000"`
	MediaURL   string `json:"media_url" validate:"omitempty,url"`
}

// Conversation summarises the thread between the viewer and one partner
type Conversation struct {
	PartnerID   uint        `json:"partner_id" bson:"_id"`
	Partner     UserCompact `json:"partner" bson:"-"`
	LastMessage Message     `json:"last_message" bson:"last_message"`
	UnreadCount int64       `json:"unread_count" bson:"unread_count"`
}
