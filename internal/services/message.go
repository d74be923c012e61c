package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/sanitize"
)

// MessageService handles direct messages
type MessageService struct {
	messages repositories.MessageRepository
	users    repositories.UserRepository
	notifier Notifier
	now      func() time.Time
}

// NewMessageService creates a MessageService
func NewMessageService(msgRepo repositories.MessageRepository, userRepo repositories.UserRepository, notifier Notifier) *MessageService {
	return &MessageService{
		messages: msgRepo,
		users:    userRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Send delivers a message to another existing user and notifies them
func (s *MessageService) Send(ctx context.Context, sender *models.User, req *models.SendMessageRequest) (*models.Message, error) {
	return s.send(ctx, sender, req.ReceiverID, req.Content, req.MediaURL, nil)
}

func (s *MessageService) send(ctx context.Context, sender *models.User, receiverID uint, content, mediaURL string, storyID *uint) (*models.Message, error) {
	if receiverID == sender.ID {
		return nil, fmt.Errorf("cannot message yourself: %w", models.ErrValidation)
	}
	content = sanitize.Text(content)
	if content == "" && mediaURL == "" {
		return nil, fmt.Errorf("message needs content or media: %w", models.ErrValidation)
	}
	if _, err := s.users.GetUserByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:   sender.ID,
		ReceiverID: receiverID,
		Content:    content,
		MediaURL:   mediaURL,
		StoryID:    storyID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	text := sender.DisplayName() + " sent you a message"
	if storyID != nil {
		text = sender.DisplayName() + " replied to your story"
	}
	s.notifier.Dispatch(Event{
		Type:        models.NotificationMessage,
		ActorID:     sender.ID,
		RecipientID: receiverID,
		TargetID:    msg.ID.Hex(),
		TargetType:  "message",
		Message:     text,
	})
	return msg, nil
}

// Conversations lists the user's threads with partner info, newest first
func (s *MessageService) Conversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	convs, err := s.messages.GetConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(convs))
	for i, c := range convs {
		ids[i] = c.PartnerID
	}
	partners, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range convs {
		if u, ok := partners[convs[i].PartnerID]; ok {
			convs[i].Partner = u.ToCompact()
		}
	}
	if convs == nil {
		convs = []models.Conversation{}
	}
	return convs, nil
}

// Thread returns one page of the conversation with partnerID in chronological
// order, and marks the partner's messages to the user as read.
func (s *MessageService) Thread(ctx context.Context, userID, partnerID uint, page models.Page) ([]models.Message, models.PageMeta, error) {
	if _, err := s.users.GetUserByID(ctx, partnerID); err != nil {
		return nil, models.PageMeta{}, err
	}
	msgs, total, err := s.messages.GetThread(ctx, userID, partnerID, page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	if _, err := s.messages.MarkThreadRead(ctx, userID, partnerID); err != nil {
		return nil, models.PageMeta{}, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, page.Meta(total), nil
}

// UnreadCount counts unread messages addressed to the user
func (s *MessageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.messages.GetUnreadCount(ctx, userID)
}
