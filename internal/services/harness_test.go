package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv wires every service over one in-memory database. Notifications are
// written inline so assertions can read them back immediately.
type testEnv struct {
	db  *gorm.DB
	ctx context.Context

	users       *repositories.PostgresUserRepository
	follows     *repositories.PostgresFollowRepository
	postRepo    *repositories.PostgresPostRepository
	storyRepo   *repositories.PostgresStoryRepository
	messageRepo *testutil.MessageStore

	notifications *NotificationService
	userSvc       *UserService
	feed          *FeedService
	posts         *PostService
	comments      *CommentService
	messages      *MessageService
	stories       *StoryService
	search        *SearchService
	auth          *AuthService
	tokens        *TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvOn(t, testutil.NewDB(t))
}

// newConcurrentTestEnv is backed by a database several goroutines can write
// to at once
func newConcurrentTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvOn(t, testutil.NewConcurrentDB(t, 8))
}

func newTestEnvOn(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()

	env := &testEnv{
		db:          db,
		ctx:         context.Background(),
		users:       repositories.NewPostgresUserRepository(db),
		follows:     repositories.NewPostgresFollowRepository(db),
		postRepo:    repositories.NewPostgresPostRepository(db),
		storyRepo:   repositories.NewPostgresStoryRepository(db),
		messageRepo: testutil.NewMessageStore(),
	}
	likes := repositories.NewPostgresLikeRepository(db)
	saved := repositories.NewPostgresSavedPostRepository(db)

	env.notifications = NewNotificationService(repositories.NewPostgresNotificationRepository(db), env.users)
	notifier := NewInlineNotifier(env.notifications, zerolog.Nop())

	env.userSvc = NewUserService(env.users, env.follows, notifier)
	env.feed = NewFeedService(env.postRepo, likes, saved, env.users)
	env.posts = NewPostService(env.postRepo, likes, saved, env.users, env.feed, notifier)
	env.comments = NewCommentService(
		repositories.NewPostgresCommentRepository(db),
		repositories.NewPostgresCommentLikeRepository(db),
		env.postRepo, env.users, notifier,
	)
	env.messages = NewMessageService(env.messageRepo, env.users, notifier)
	env.stories = NewStoryService(env.storyRepo, env.users, env.follows, env.messages)
	env.search = NewSearchService(env.users, env.postRepo, repositories.NewPostgresHashtagRepository(db), env.feed)
	env.tokens = NewTokenManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	env.auth = NewAuthService(env.users, env.tokens, nil)
	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: username,
	}
	require.NoError(t, e.users.CreateUser(e.ctx, u))
	return u
}

func (e *testEnv) follow(t *testing.T, follower, following *models.User) {
	t.Helper()
	created, err := e.follows.Follow(e.ctx, follower.ID, following.ID)
	require.NoError(t, err)
	require.True(t, created)
}

// createPost inserts a post directly with a fixed creation time
func (e *testEnv) createPost(t *testing.T, author *models.User, content string, public bool, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:          author.ID,
		Content:         content,
		IsPublic:        public,
		CommentsEnabled: true,
		CreatedAt:       at.UTC(),
		UpdatedAt:       at.UTC(),
	}
	require.NoError(t, e.postRepo.CreatePost(e.ctx, p, nil, nil))
	return p
}

func (e *testEnv) countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func (e *testEnv) notificationsFor(t *testing.T, recipient *models.User) []models.Notification {
	t.Helper()
	var out []models.Notification
	require.NoError(t, e.db.Where("recipient_id = ?", recipient.ID).Order("id").Find(&out).Error)
	return out
}

func postIDs(posts []models.EnrichedPost) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func username(i int) string {
	return fmt.Sprintf("user_%02d", i)
}
