package services

import (
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentsCount(t *testing.T, env *testEnv, postID uint) int64 {
	t.Helper()
	p, err := env.postRepo.GetPostByID(env.ctx, postID)
	require.NoError(t, err)
	return p.CommentsCount
}

func TestCommentsMaintainCounterAndFlattenReplies(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	fan := env.createUser(t, "fan")
	post := env.createPost(t, author, "discuss", true, time.Now())

	top, err := env.comments.CreateComment(env.ctx, fan, post.ID, &models.CreateCommentRequest{Content: "first"})
	require.NoError(t, err)
	reply, err := env.comments.CreateComment(env.ctx, author, post.ID, &models.CreateCommentRequest{Content: "thanks", ParentID: &top.ID})
	require.NoError(t, err)
	nested, err := env.comments.CreateComment(env.ctx, fan, post.ID, &models.CreateCommentRequest{Content: "welcome", ParentID: &reply.ID})
	require.NoError(t, err)

	require.NotNil(t, nested.ParentID)
	assert.Equal(t, top.ID, *nested.ParentID, "replies to replies attach to the top-level comment")
	assert.Equal(t, int64(3), commentsCount(t, env, post.ID))

	list, meta, err := env.comments.ListComments(env.ctx, fan.ID, post.ID, models.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.TotalItems)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].RepliesCount)
	require.Len(t, list[0].Replies, 2)
	assert.Equal(t, reply.ID, list[0].Replies[0].ID)
	assert.Equal(t, "author", list[0].Replies[0].Author.Username)

	// the post author is notified once per comment, never for their own
	notes := env.notificationsFor(t, author)
	assert.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, models.NotificationComment, n.Type)
	}
	// the author's reply reaches the fan as a comment-level notification
	fanNotes := env.notificationsFor(t, fan)
	require.Len(t, fanNotes, 1)
	assert.Equal(t, "comment", fanNotes[0].TargetType)
	assert.Equal(t, idString(top.ID), fanNotes[0].TargetID)

	require.NoError(t, env.comments.DeleteComment(env.ctx, fan.ID, top.ID))
	assert.Zero(t, commentsCount(t, env, post.ID))
}

func TestCommentRules(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	fan := env.createUser(t, "fan")

	closed := false
	locked, err := env.posts.CreatePost(env.ctx, author, &models.CreatePostRequest{Content: "no comments", CommentsEnabled: &closed})
	require.NoError(t, err)
	_, err = env.comments.CreateComment(env.ctx, fan, locked.ID, &models.CreateCommentRequest{Content: "hi"})
	assert.ErrorIs(t, err, models.ErrForbidden)

	open := env.createPost(t, author, "open", true, time.Now())
	other := env.createPost(t, author, "other", true, time.Now())
	foreign, err := env.comments.CreateComment(env.ctx, fan, other.ID, &models.CreateCommentRequest{Content: "elsewhere"})
	require.NoError(t, err)

	_, err = env.comments.CreateComment(env.ctx, fan, open.ID, &models.CreateCommentRequest{Content: "hi", ParentID: &foreign.ID})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = env.comments.CreateComment(env.ctx, fan, open.ID+100, &models.CreateCommentRequest{Content: "hi"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, env.comments.DeleteComment(env.ctx, author.ID, foreign.ID), models.ErrForbidden)
	assert.Equal(t, int64(1), commentsCount(t, env, other.ID))
}

func TestCommentLikes(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	fan := env.createUser(t, "fan")
	post := env.createPost(t, author, "post", true, time.Now())
	c, err := env.comments.CreateComment(env.ctx, author, post.ID, &models.CreateCommentRequest{Content: "mine"})
	require.NoError(t, err)

	n, err := env.comments.LikeComment(env.ctx, fan, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = env.comments.LikeComment(env.ctx, fan, c.ID)
	assert.ErrorIs(t, err, models.ErrConflict)

	list, _, err := env.comments.ListComments(env.ctx, fan.ID, post.ID, models.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsLiked)

	notes := env.notificationsFor(t, author)
	require.Len(t, notes, 1)
	assert.Equal(t, "comment", notes[0].TargetType)

	n, err = env.comments.UnlikeComment(env.ctx, fan.ID, c.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = env.comments.UnlikeComment(env.ctx, fan.ID, c.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCommentsOnPrivatePostsStayHidden(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	post := env.createPost(t, owner, "private", false, time.Now())

	top, err := env.comments.CreateComment(env.ctx, owner, post.ID, &models.CreateCommentRequest{Content: "private comment"})
	require.NoError(t, err)
	_, err = env.comments.CreateComment(env.ctx, owner, post.ID, &models.CreateCommentRequest{Content: "private reply", ParentID: &top.ID})
	require.NoError(t, err)

	page := models.Page{Number: 1, Limit: 10}
	_, _, err = env.comments.ListComments(env.ctx, other.ID, post.ID, page)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, _, err = env.comments.ListReplies(env.ctx, other.ID, top.ID, page)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = env.comments.CreateComment(env.ctx, other, post.ID, &models.CreateCommentRequest{Content: "let me in"})
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = env.comments.LikeComment(env.ctx, other, top.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = env.comments.UnlikeComment(env.ctx, other.ID, top.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, env.comments.DeleteComment(env.ctx, other.ID, top.ID), models.ErrNotFound)

	assert.Empty(t, env.notificationsFor(t, owner))
	assert.Zero(t, env.countRows(t, &models.CommentLike{}, "comment_id = ?", top.ID))

	replies, _, err := env.comments.ListReplies(env.ctx, owner.ID, top.ID, page)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "private reply", replies[0].Content)
}
