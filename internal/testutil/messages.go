package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageStore is an in-process message repository with the ordering
// and read-state semantics of the Mongo-backed one
type MessageStore struct {
	mu   sync.Mutex
	msgs []*models.Message
}

// NewMessageStore returns an empty MessageStore
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

func (r *MessageStore) CreateMessage(_ context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	cp := *msg
	r.msgs = append(r.msgs, &cp)
	return nil
}

func (r *MessageStore) GetConversations(_ context.Context, userID uint) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byPartner := map[uint]*models.Conversation{}
	for _, m := range r.msgs {
		var partner uint
		switch userID {
		case m.SenderID:
			partner = m.ReceiverID
		case m.ReceiverID:
			partner = m.SenderID
		default:
			continue
		}
		c, ok := byPartner[partner]
		if !ok {
			c = &models.Conversation{PartnerID: partner}
			byPartner[partner] = c
		}
		if !m.CreatedAt.Before(c.LastMessage.CreatedAt) {
			c.LastMessage = *m
		}
		if m.ReceiverID == userID && !m.IsRead {
			c.UnreadCount++
		}
	}
	out := make([]models.Conversation, 0, len(byPartner))
	for _, c := range byPartner {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt) })
	return out, nil
}

func (r *MessageStore) GetThread(_ context.Context, userID, partnerID uint, page models.Page) ([]models.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var thread []models.Message
	for i := len(r.msgs) - 1; i >= 0; i-- {
		m := r.msgs[i]
		if (m.SenderID == userID && m.ReceiverID == partnerID) || (m.SenderID == partnerID && m.ReceiverID == userID) {
			thread = append(thread, *m)
		}
	}
	total := int64(len(thread))
	start := page.Offset()
	if start > len(thread) {
		start = len(thread)
	}
	end := start + page.Limit
	if end > len(thread) {
		end = len(thread)
	}
	return thread[start:end], total, nil
}

func (r *MessageStore) MarkThreadRead(_ context.Context, receiverID, senderID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.ReceiverID == receiverID && m.SenderID == senderID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *MessageStore) GetUnreadCount(_ context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.ReceiverID == userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}
