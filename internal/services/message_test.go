package services

import (
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, err := env.messages.Send(env.ctx, alice, &models.SendMessageRequest{ReceiverID: alice.ID, Content: "hi"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = env.messages.Send(env.ctx, alice, &models.SendMessageRequest{ReceiverID: bob.ID, Content: "  <i></i> "})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = env.messages.Send(env.ctx, alice, &models.SendMessageRequest{ReceiverID: 9999, Content: "hi"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestThreadOrderAndReadState(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	env.messages.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	send := func(from, to *models.User, text string) {
		_, err := env.messages.Send(env.ctx, from, &models.SendMessageRequest{ReceiverID: to.ID, Content: text})
		require.NoError(t, err)
	}
	send(alice, bob, "one")
	send(bob, alice, "two")
	send(alice, bob, "three")
	send(carol, bob, "hey bob")

	unread, err := env.messages.UnreadCount(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)
	assert.Len(t, env.notificationsFor(t, bob), 3)

	convs, err := env.messages.Conversations(env.ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, carol.ID, convs[0].PartnerID)
	assert.Equal(t, "carol", convs[0].Partner.Username)
	assert.Equal(t, alice.ID, convs[1].PartnerID)
	assert.Equal(t, int64(2), convs[1].UnreadCount)

	thread, meta, err := env.messages.Thread(env.ctx, bob.ID, alice.ID, models.NewPage(1, 30, 30, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(3), meta.TotalItems)
	require.Len(t, thread, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{thread[0].Content, thread[1].Content, thread[2].Content})

	unread, err = env.messages.UnreadCount(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread, "only carol's message is left unread")

	_, _, err = env.messages.Thread(env.ctx, bob.ID, 9999, models.NewPage(1, 30, 30, 100))
	assert.ErrorIs(t, err, models.ErrNotFound)
}
