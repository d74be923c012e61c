package services

import (
	"context"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// FeedService assembles post timelines and annotates them for a viewer. It
// owns no state.
type FeedService struct {
	posts repositories.PostRepository
	likes repositories.LikeRepository
	saved repositories.SavedPostRepository
	users repositories.UserRepository
}

// NewFeedService creates a FeedService
func NewFeedService(
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	savedRepo repositories.SavedPostRepository,
	userRepo repositories.UserRepository,
) *FeedService {
	return &FeedService{
		posts: postRepo,
		likes: likeRepo,
		saved: savedRepo,
		users: userRepo,
	}
}

// GetFeed returns one page of posts visible to the viewer: their own posts
// plus public posts of accounts they follow, newest first. The total is read
// separately from the page and may reflect a slightly different snapshot.
func (s *FeedService) GetFeed(ctx context.Context, viewerID uint, page models.Page) (*models.PostPage, error) {
	posts, err := s.posts.GetVisiblePosts(ctx, viewerID, page)
	if err != nil {
		return nil, err
	}
	total, err := s.posts.CountVisiblePosts(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	enriched, err := s.Enrich(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return &models.PostPage{Posts: enriched, Meta: page.Meta(total)}, nil
}

// GetUserPosts lists a profile's posts. Owners see their private posts too.
func (s *FeedService) GetUserPosts(ctx context.Context, viewerID uint, username string, page models.Page) (*models.PostPage, error) {
	owner, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	posts, total, err := s.posts.GetPostsByUser(ctx, owner.ID, owner.ID == viewerID, page)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, viewerID, posts, total, page)
}

// GetHashtagPosts lists public posts carrying a tag
func (s *FeedService) GetHashtagPosts(ctx context.Context, viewerID uint, tag string, page models.Page) (*models.PostPage, error) {
	posts, total, err := s.posts.GetPostsByHashtag(ctx, strings.ToLower(strings.TrimPrefix(tag, "#")), page)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, viewerID, posts, total, page)
}

// GetSavedPosts lists the viewer's bookmarks
func (s *FeedService) GetSavedPosts(ctx context.Context, viewerID uint, page models.Page) (*models.PostPage, error) {
	posts, total, err := s.saved.GetSavedPosts(ctx, viewerID, page)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, viewerID, posts, total, page)
}

func (s *FeedService) page(ctx context.Context, viewerID uint, posts []models.Post, total int64, page models.Page) (*models.PostPage, error) {
	enriched, err := s.Enrich(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return &models.PostPage{Posts: enriched, Meta: page.Meta(total)}, nil
}

// Enrich attaches authors and the viewer's like/save state using one batch
// query per concern. Counters are whatever the rows held when read.
func (s *FeedService) Enrich(ctx context.Context, viewerID uint, posts []models.Post) ([]models.EnrichedPost, error) {
	out := make([]models.EnrichedPost, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	postIDs := make([]uint, len(posts))
	authorIDs := make([]uint, 0, len(posts))
	seen := make(map[uint]bool, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		if !seen[p.UserID] {
			seen[p.UserID] = true
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	authors, err := s.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	liked, err := s.likes.GetLikedPostIDs(ctx, viewerID, postIDs)
	if err != nil {
		return nil, err
	}
	saved, err := s.saved.GetSavedPostIDs(ctx, viewerID, postIDs)
	if err != nil {
		return nil, err
	}

	for i, p := range posts {
		out[i] = models.EnrichedPost{
			Post:    p,
			IsLiked: liked[p.ID],
			IsSaved: saved[p.ID],
		}
		if u, ok := authors[p.UserID]; ok {
			out[i].Author = u.ToCompact()
		}
	}
	return out, nil
}
