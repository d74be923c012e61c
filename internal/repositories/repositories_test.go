package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"gorm not found", gorm.ErrRecordNotFound, models.ErrNotFound},
		{"mongo not found", mongo.ErrNoDocuments, models.ErrNotFound},
		{"duplicate key", gorm.ErrDuplicatedKey, models.ErrConflict},
		{"deadline", context.DeadlineExceeded, models.ErrUnavailable},
		{"wrapped not found", fmt.Errorf("tx: %w", gorm.ErrRecordNotFound), models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate("op", tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.Contains(t, got.Error(), "op: ")
		})
	}

	assert.NoError(t, translate("op", nil))

	plain := errors.New("boom")
	got := translate("op", plain)
	assert.ErrorIs(t, got, plain)
	for _, sentinel := range []error{models.ErrNotFound, models.ErrConflict, models.ErrUnavailable} {
		assert.NotErrorIs(t, got, sentinel)
	}
}

type repoFixture struct {
	users   *PostgresUserRepository
	posts   *PostgresPostRepository
	likes   *PostgresLikeRepository
	follows *PostgresFollowRepository
	stories *PostgresStoryRepository

	alice, bob *models.User
	post       *models.Post
	story      *models.Story
}

func newRepoFixture(t *testing.T) *repoFixture {
	t.Helper()
	db := testutil.NewDB(t)
	ctx := context.Background()
	f := &repoFixture{
		users:   NewPostgresUserRepository(db),
		posts:   NewPostgresPostRepository(db),
		likes:   NewPostgresLikeRepository(db),
		follows: NewPostgresFollowRepository(db),
		stories: NewPostgresStoryRepository(db),
		alice:   &models.User{Username: "alice", Email: "alice@example.com"},
		bob:     &models.User{Username: "bob", Email: "bob@example.com"},
	}
	require.NoError(t, f.users.CreateUser(ctx, f.alice))
	require.NoError(t, f.users.CreateUser(ctx, f.bob))

	f.post = &models.Post{UserID: f.alice.ID, Content: "hello", IsPublic: true, CommentsEnabled: true}
	require.NoError(t, f.posts.CreatePost(ctx, f.post, nil, nil))

	now := time.Now().UTC()
	f.story = &models.Story{UserID: f.alice.ID, MediaURL: "https://cdn.example.com/a.jpg", MediaType: "IMAGE", CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour)}
	require.NoError(t, f.stories.CreateStory(ctx, f.story))
	return f
}

func TestRepositoryErrorTranslation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(f *repoFixture) error
		want error
	}{
		{"missing user", func(f *repoFixture) error {
			_, err := f.users.GetUserByID(ctx, 999)
			return err
		}, models.ErrNotFound},
		{"missing username", func(f *repoFixture) error {
			_, err := f.users.GetUserByUsername(ctx, "nobody")
			return err
		}, models.ErrNotFound},
		{"duplicate username", func(f *repoFixture) error {
			return f.users.CreateUser(ctx, &models.User{Username: "alice", Email: "other@example.com"})
		}, models.ErrConflict},
		{"duplicate email", func(f *repoFixture) error {
			return f.users.CreateUser(ctx, &models.User{Username: "carol", Email: "bob@example.com"})
		}, models.ErrConflict},
		{"missing post", func(f *repoFixture) error {
			_, err := f.posts.GetPostByID(ctx, 999)
			return err
		}, models.ErrNotFound},
		{"delete post of another user", func(f *repoFixture) error {
			return f.posts.DeletePost(ctx, f.post.ID, f.bob.ID)
		}, models.ErrForbidden},
		{"like missing post", func(f *repoFixture) error {
			_, err := f.likes.LikePost(ctx, 999, f.bob.ID)
			return err
		}, models.ErrNotFound},
		{"like twice", func(f *repoFixture) error {
			if _, err := f.likes.LikePost(ctx, f.post.ID, f.bob.ID); err != nil {
				return err
			}
			_, err := f.likes.LikePost(ctx, f.post.ID, f.bob.ID)
			return err
		}, models.ErrConflict},
		{"unlike without like", func(f *repoFixture) error {
			_, err := f.likes.UnlikePost(ctx, f.post.ID, f.bob.ID)
			return err
		}, models.ErrNotFound},
		{"unfollow without follow", func(f *repoFixture) error {
			return f.follows.Unfollow(ctx, f.bob.ID, f.alice.ID)
		}, models.ErrNotFound},
		{"view missing story", func(f *repoFixture) error {
			_, err := f.stories.RecordView(ctx, 999, f.bob.ID, time.Now())
			return err
		}, models.ErrNotFound},
		{"delete story of another user", func(f *repoFixture) error {
			return f.stories.DeleteStory(ctx, f.story.ID, f.bob.ID)
		}, models.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(newRepoFixture(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLikeCounterFollowsEdges(t *testing.T) {
	ctx := context.Background()
	f := newRepoFixture(t)

	post, err := f.likes.LikePost(ctx, f.post.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.LikesCount)

	_, err = f.likes.LikePost(ctx, f.post.ID, f.bob.ID)
	require.ErrorIs(t, err, models.ErrConflict)

	post, err = f.posts.GetPostByID(ctx, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.LikesCount, "a rejected duplicate must not move the counter")

	post, err = f.likes.UnlikePost(ctx, f.post.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), post.LikesCount)
}

func TestFollowIsIdempotentAtTheEdge(t *testing.T) {
	ctx := context.Background()
	f := newRepoFixture(t)

	created, err := f.follows.Follow(ctx, f.bob.ID, f.alice.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.follows.Follow(ctx, f.bob.ID, f.alice.ID)
	require.NoError(t, err)
	assert.False(t, created)

	ids, err := f.follows.GetFollowingIDs(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.alice.ID}, ids)

	require.NoError(t, f.follows.Unfollow(ctx, f.bob.ID, f.alice.ID))
	ids, err = f.follows.GetFollowingIDs(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStoryViewsAndActiveStories(t *testing.T) {
	ctx := context.Background()
	f := newRepoFixture(t)
	now := time.Now().UTC()

	recorded, err := f.stories.RecordView(ctx, f.story.ID, f.bob.ID, now)
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = f.stories.RecordView(ctx, f.story.ID, f.bob.ID, now)
	require.NoError(t, err)
	assert.False(t, recorded)

	story, err := f.stories.GetStoryByID(ctx, f.story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), story.ViewsCount)

	expired := &models.Story{UserID: f.alice.ID, MediaURL: "https://cdn.example.com/b.jpg", MediaType: "IMAGE", CreatedAt: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-24 * time.Hour)}
	require.NoError(t, f.stories.CreateStory(ctx, expired))

	active, err := f.stories.GetActiveStoriesByAuthors(ctx, []uint{f.alice.ID, f.bob.ID}, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, f.story.ID, active[0].ID)

	active, err = f.stories.GetActiveStoriesByAuthors(ctx, nil, now)
	require.NoError(t, err)
	assert.Empty(t, active)
}
