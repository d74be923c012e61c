package services

import (
	"sync"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentLikesAndUnlikesKeepCounterConsistent(t *testing.T) {
	env := newConcurrentTestEnv(t)
	author := env.createUser(t, "author")
	post := env.createPost(t, author, "hello", true, time.Now())

	const likers, unlikers = 20, 7
	fans := make([]*models.User, likers)
	for i := range fans {
		fans[i] = env.createUser(t, username(i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, likers)
	for _, u := range fans {
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			_, err := env.posts.LikePost(env.ctx, u, post.ID)
			errs <- err
		}(u)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	errs = make(chan error, unlikers)
	for _, u := range fans[:unlikers] {
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			_, err := env.posts.UnlikePost(env.ctx, u.ID, post.ID)
			errs <- err
		}(u)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := env.postRepo.GetPostByID(env.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(likers-unlikers), stored.LikesCount)
	assert.Equal(t, int64(likers-unlikers), env.countRows(t, &models.Like{}, "post_id = ?", post.ID))
}

func TestDoubleLikeIsConflictAndLeavesCounter(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	fan := env.createUser(t, "fan")
	post := env.createPost(t, author, "hello", true, time.Now())

	liked, err := env.posts.LikePost(env.ctx, fan, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), liked.LikesCount)

	_, err = env.posts.LikePost(env.ctx, fan, post.ID)
	assert.ErrorIs(t, err, models.ErrConflict)

	stored, err := env.postRepo.GetPostByID(env.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.LikesCount)

	// one LIKE notification for the first like only
	notes := env.notificationsFor(t, author)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationLike, notes[0].Type)
	assert.Equal(t, idString(post.ID), notes[0].TargetID)
}

func TestUnlikeWithoutLikeIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	post := env.createPost(t, author, "hello", true, time.Now())

	_, err := env.posts.UnlikePost(env.ctx, author.ID, post.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = env.posts.LikePost(env.ctx, author, post.ID+99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	post := env.createPost(t, author, "hello", true, time.Now())

	_, err := env.posts.LikePost(env.ctx, author, post.ID)
	require.NoError(t, err)
	assert.Empty(t, env.notificationsFor(t, author))
}

func TestCreatePostRecordsHashtagsAndNotifiesMentions(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	bob := env.createUser(t, "bob")

	post, err := env.posts.CreatePost(env.ctx, author, &models.CreatePostRequest{
		Content: "Shipping day #Go #go #release with @Bob and @author and @nobody",
	})
	require.NoError(t, err)
	assert.True(t, post.IsPublic)
	assert.True(t, post.CommentsEnabled)
	assert.Equal(t, "author", post.Author.Username)

	var tags []models.Hashtag
	require.NoError(t, env.db.Order("name").Find(&tags).Error)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Name)
	assert.Equal(t, int64(1), tags[0].PostsCount)
	assert.Equal(t, "release", tags[1].Name)

	notes := env.notificationsFor(t, bob)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationMention, notes[0].Type)
	assert.Empty(t, env.notificationsFor(t, author), "self mentions are silent")

	tagged, err := env.feed.GetHashtagPosts(env.ctx, bob.ID, "go", models.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{post.ID}, postIDs(tagged.Posts))
}

func TestCreatePostRequiresContentOrMedia(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")

	_, err := env.posts.CreatePost(env.ctx, author, &models.CreatePostRequest{Content: "   "})
	assert.ErrorIs(t, err, models.ErrValidation)

	post, err := env.posts.CreatePost(env.ctx, author, &models.CreatePostRequest{
		MediaURLs: []string{"https://cdn.example.com/a.jpg"},
	})
	require.NoError(t, err)
	stored, err := env.postRepo.GetPostByID(env.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, stored.MediaURLs)
}

func TestCreatePostStripsMarkup(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")

	post, err := env.posts.CreatePost(env.ctx, author, &models.CreatePostRequest{
		Content: `it's <script>alert(1)</script><b>bold</b>`,
	})
	require.NoError(t, err)
	assert.Equal(t, "it's bold", post.Content)
}

func TestPrivatePostIsVisibleToOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	env.follow(t, other, owner)

	hidden := false
	post, err := env.posts.CreatePost(env.ctx, owner, &models.CreatePostRequest{Content: "secret", IsPublic: &hidden})
	require.NoError(t, err)
	assert.False(t, post.IsPublic)

	_, err = env.posts.GetPost(env.ctx, other.ID, post.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = env.posts.LikePost(env.ctx, other, post.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := env.posts.GetPost(env.ctx, owner.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewsCount)

	got, err = env.posts.GetPost(env.ctx, owner.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewsCount, "every fetch counts a view")
}

func TestDeletePostIsOwnerOnlyAndCascades(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	fan := env.createUser(t, "fan")

	post, err := env.posts.CreatePost(env.ctx, owner, &models.CreatePostRequest{Content: "bye #temp"})
	require.NoError(t, err)
	_, err = env.posts.LikePost(env.ctx, fan, post.ID)
	require.NoError(t, err)
	require.NoError(t, env.posts.SavePost(env.ctx, fan.ID, post.ID))
	_, err = env.comments.CreateComment(env.ctx, fan, post.ID, &models.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)

	assert.ErrorIs(t, env.posts.DeletePost(env.ctx, fan.ID, post.ID), models.ErrForbidden)
	require.NoError(t, env.posts.DeletePost(env.ctx, owner.ID, post.ID))

	_, err = env.postRepo.GetPostByID(env.ctx, post.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, env.countRows(t, &models.Like{}, "post_id = ?", post.ID))
	assert.Zero(t, env.countRows(t, &models.SavedPost{}, "post_id = ?", post.ID))
	assert.Zero(t, env.countRows(t, &models.Comment{}, "post_id = ?", post.ID))

	var tag models.Hashtag
	require.NoError(t, env.db.First(&tag, "name = ?", "temp").Error)
	assert.Zero(t, tag.PostsCount)

	assert.ErrorIs(t, env.posts.DeletePost(env.ctx, owner.ID, post.ID), models.ErrNotFound)
}

func TestSaveAndUnsave(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	fan := env.createUser(t, "fan")
	post := env.createPost(t, owner, "keep me", true, time.Now())

	require.NoError(t, env.posts.SavePost(env.ctx, fan.ID, post.ID))
	assert.ErrorIs(t, env.posts.SavePost(env.ctx, fan.ID, post.ID), models.ErrConflict)

	saved, err := env.feed.GetSavedPosts(env.ctx, fan.ID, models.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, saved.Posts, 1)
	assert.True(t, saved.Posts[0].IsSaved)

	require.NoError(t, env.posts.UnsavePost(env.ctx, fan.ID, post.ID))
	assert.ErrorIs(t, env.posts.UnsavePost(env.ctx, fan.ID, post.ID), models.ErrNotFound)
}
