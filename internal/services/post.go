package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/sanitize"
)

const maxHashtagLength = 100

// PostService handles post writes and engagement edges
type PostService struct {
	posts    repositories.PostRepository
	likes    repositories.LikeRepository
	saved    repositories.SavedPostRepository
	users    repositories.UserRepository
	feed     *FeedService
	notifier Notifier
}

// NewPostService creates a PostService
func NewPostService(
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	savedRepo repositories.SavedPostRepository,
	userRepo repositories.UserRepository,
	feed *FeedService,
	notifier Notifier,
) *PostService {
	return &PostService{
		posts:    postRepo,
		likes:    likeRepo,
		saved:    savedRepo,
		users:    userRepo,
		feed:     feed,
		notifier: notifier,
	}
}

// CreatePost stores a post with its hashtags and mentions, then notifies each
// mentioned user once the post is committed.
func (s *PostService) CreatePost(ctx context.Context, author *models.User, req *models.CreatePostRequest) (*models.EnrichedPost, error) {
	content := sanitize.Text(req.Content)
	if content == "" && len(req.MediaURLs) == 0 {
		return nil, fmt.Errorf("post needs content or media: %w", models.ErrValidation)
	}

	post := &models.Post{
		UserID:          author.ID,
		Content:         content,
		MediaURLs:       req.MediaURLs,
		IsPublic:        true,
		CommentsEnabled: true,
	}
	if req.IsPublic != nil {
		post.IsPublic = *req.IsPublic
	}
	if req.CommentsEnabled != nil {
		post.CommentsEnabled = *req.CommentsEnabled
	}

	tags := make([]string, 0)
	for _, t := range ExtractHashtags(content) {
		if len(t) <= maxHashtagLength {
			tags = append(tags, t)
		}
	}

	var mentioned []models.User
	if names := ExtractMentions(content); len(names) > 0 {
		users, err := s.users.GetUsersByUsernames(ctx, names)
		if err != nil {
			return nil, err
		}
		mentioned = users
	}
	mentionIDs := make([]uint, 0, len(mentioned))
	for _, u := range mentioned {
		if u.ID != author.ID {
			mentionIDs = append(mentionIDs, u.ID)
		}
	}

	if err := s.posts.CreatePost(ctx, post, tags, mentionIDs); err != nil {
		return nil, err
	}

	for _, uid := range mentionIDs {
		s.notifier.Dispatch(Event{
			Type:        models.NotificationMention,
			ActorID:     author.ID,
			RecipientID: uid,
			TargetID:    idString(post.ID),
			TargetType:  "post",
			Message:     author.DisplayName() + " mentioned you in a post",
		})
	}

	return &models.EnrichedPost{Post: *post, Author: author.ToCompact()}, nil
}

// GetPost returns a post and counts the view. Every fetch counts; views are
// not deduplicated per viewer. Private posts are visible to their owner only.
func (s *PostService) GetPost(ctx context.Context, viewerID, postID uint) (*models.EnrichedPost, error) {
	post, err := s.visiblePost(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	if err := s.posts.IncrementViews(ctx, postID); err != nil {
		return nil, err
	}
	post.ViewsCount++

	enriched, err := s.feed.Enrich(ctx, viewerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// DeletePost removes a post; only its author may do so
func (s *PostService) DeletePost(ctx context.Context, requesterID, postID uint) error {
	return s.posts.DeletePost(ctx, postID, requesterID)
}

// LikePost adds the viewer's like and notifies the author. A second like by
// the same account is ErrConflict and leaves the counter unchanged.
func (s *PostService) LikePost(ctx context.Context, actor *models.User, postID uint) (*models.Post, error) {
	if _, err := s.visiblePost(ctx, actor.ID, postID); err != nil {
		return nil, err
	}
	post, err := s.likes.LikePost(ctx, postID, actor.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.Dispatch(Event{
		Type:        models.NotificationLike,
		ActorID:     actor.ID,
		RecipientID: post.UserID,
		TargetID:    idString(post.ID),
		TargetType:  "post",
		Message:     actor.DisplayName() + " liked your post",
	})
	return post, nil
}

// UnlikePost removes the viewer's like; ErrNotFound if there was none
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	return s.likes.UnlikePost(ctx, postID, userID)
}

// GetLikers lists who liked a post
func (s *PostService) GetLikers(ctx context.Context, viewerID, postID uint, page models.Page) ([]models.UserCompact, models.PageMeta, error) {
	if _, err := s.visiblePost(ctx, viewerID, postID); err != nil {
		return nil, models.PageMeta{}, err
	}
	users, total, err := s.likes.GetLikers(ctx, postID, page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out, page.Meta(total), nil
}

// SavePost bookmarks a visible post
func (s *PostService) SavePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.visiblePost(ctx, userID, postID); err != nil {
		return err
	}
	return s.saved.SavePost(ctx, userID, postID)
}

// UnsavePost removes a bookmark
func (s *PostService) UnsavePost(ctx context.Context, userID, postID uint) error {
	return s.saved.UnsavePost(ctx, userID, postID)
}

func (s *PostService) visiblePost(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsPublic && post.UserID != viewerID {
		return nil, fmt.Errorf("post %d: %w", postID, models.ErrNotFound)
	}
	return post, nil
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
