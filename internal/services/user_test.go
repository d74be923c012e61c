package services

import (
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRules(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, err := env.userSvc.Follow(env.ctx, alice, "alice")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = env.userSvc.Follow(env.ctx, alice, "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)

	target, err := env.userSvc.Follow(env.ctx, alice, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, target.ID)

	_, err = env.userSvc.Follow(env.ctx, alice, "bob")
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, int64(1), env.countRows(t, &models.Follow{}, "follower_id = ?", alice.ID))

	notes := env.notificationsFor(t, bob)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationFollow, notes[0].Type)
	require.NotNil(t, notes[0].SenderID)
	assert.Equal(t, alice.ID, *notes[0].SenderID)

	require.NoError(t, env.userSvc.Unfollow(env.ctx, alice.ID, "bob"))
	assert.ErrorIs(t, env.userSvc.Unfollow(env.ctx, alice.ID, "bob"), models.ErrNotFound)
}

func TestProfileStatsAndFollowState(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	env.follow(t, alice, bob)
	env.follow(t, carol, bob)
	env.follow(t, bob, carol)
	env.createPost(t, bob, "one", true, time.Now())
	env.createPost(t, bob, "two", false, time.Now())

	profile, err := env.userSvc.GetProfile(env.ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Posts: 2, Followers: 2, Following: 1}, profile.Stats)
	assert.True(t, profile.IsFollowing)
	assert.False(t, profile.IsOwn)

	profile, err = env.userSvc.GetProfile(env.ctx, carol.ID, "alice")
	require.NoError(t, err)
	assert.False(t, profile.IsFollowing)

	me, err := env.userSvc.GetMe(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, me.IsOwn)
	assert.Equal(t, int64(2), me.Stats.Followers)

	followers, meta, err := env.userSvc.GetFollowers(env.ctx, alice.ID, "bob", models.NewPage(1, 20, 20, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.TotalItems)
	require.Len(t, followers, 2)
}

func TestSuggestionsExcludeFollowedAndSelf(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	dave := env.createUser(t, "dave")
	env.follow(t, alice, bob)

	got, err := env.userSvc.GetSuggestions(env.ctx, alice.ID, 10)
	require.NoError(t, err)
	ids := make([]uint, len(got))
	for i, u := range got {
		ids[i] = u.ID
		assert.False(t, u.IsFollowing)
	}
	assert.ElementsMatch(t, []uint{carol.ID, dave.ID}, ids)
}

func TestUpdateProfileAppliesOnlySetFields(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	bio := "<b>hello</b> world"
	private := true
	updated, err := env.userSvc.UpdateProfile(env.ctx, alice.ID, &models.UpdateProfileRequest{Bio: &bio, IsPrivate: &private})
	require.NoError(t, err)
	assert.Equal(t, "hello world", updated.Bio)
	assert.True(t, updated.IsPrivate)
	assert.Equal(t, "alice", updated.FirstName)
}
