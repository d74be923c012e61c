package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

const searchLimit = 20

// SearchService runs substring searches across users, posts and hashtags
type SearchService struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	hashtags repositories.HashtagRepository
	feed     *FeedService
}

// NewSearchService creates a SearchService
func NewSearchService(userRepo repositories.UserRepository, postRepo repositories.PostRepository, hashtagRepo repositories.HashtagRepository, feed *FeedService) *SearchService {
	return &SearchService{users: userRepo, posts: postRepo, hashtags: hashtagRepo, feed: feed}
}

func normalizeQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", fmt.Errorf("search query is required: %w", models.ErrValidation)
	}
	return q, nil
}

// Users matches username, first or last name, excluding the searcher
func (s *SearchService) Users(ctx context.Context, viewerID uint, q string) ([]models.UserCompact, error) {
	q, err := normalizeQuery(q)
	if err != nil {
		return nil, err
	}
	users, err := s.users.SearchUsers(ctx, q, viewerID, searchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out, nil
}

// Posts matches public post content
func (s *SearchService) Posts(ctx context.Context, viewerID uint, q string) ([]models.EnrichedPost, error) {
	q, err := normalizeQuery(q)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.SearchPosts(ctx, q, searchLimit)
	if err != nil {
		return nil, err
	}
	return s.feed.Enrich(ctx, viewerID, posts)
}

// Hashtags matches tag prefixes
func (s *SearchService) Hashtags(ctx context.Context, q string) ([]models.Hashtag, error) {
	q, err := normalizeQuery(q)
	if err != nil {
		return nil, err
	}
	return s.hashtags.SearchHashtags(ctx, q, searchLimit)
}

// Trending returns the most used hashtags
func (s *SearchService) Trending(ctx context.Context, limit int) ([]models.Hashtag, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.hashtags.GetTrending(ctx, limit)
}
