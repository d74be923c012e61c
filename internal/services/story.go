package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/sanitize"
)

// StoryService manages ephemeral stories. Expiry is enforced only by
// filtering at read time; expired rows are never swept here.
type StoryService struct {
	stories  repositories.StoryRepository
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	messages *MessageService
	now      func() time.Time
}

// NewStoryService creates a StoryService
func NewStoryService(
	storyRepo repositories.StoryRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	messages *MessageService,
) *StoryService {
	return &StoryService{
		stories:  storyRepo,
		users:    userRepo,
		follows:  followRepo,
		messages: messages,
		now:      time.Now,
	}
}

// WithClock overrides the time source
func (s *StoryService) WithClock(now func() time.Time) *StoryService {
	s.now = now
	return s
}

// CreateStory publishes a story that expires StoryLifetime after creation
func (s *StoryService) CreateStory(ctx context.Context, ownerID uint, req *models.CreateStoryRequest) (*models.Story, error) {
	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = models.StoryMediaImage
	}
	now := s.now().UTC()
	story := &models.Story{
		UserID:    ownerID,
		MediaURL:  req.MediaURL,
		MediaType: mediaType,
		Caption:   sanitize.Text(req.Caption),
		CreatedAt: now,
		ExpiresAt: now.Add(models.StoryLifetime),
	}
	if err := s.stories.CreateStory(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// GetStoryFeed returns unexpired stories from the viewer and their followees,
// grouped by owner in order of each owner's most recent story.
func (s *StoryService) GetStoryFeed(ctx context.Context, viewerID uint) ([]models.StoryGroup, error) {
	followees, err := s.follows.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	stories, err := s.stories.GetActiveStoriesByAuthors(ctx, append(followees, viewerID), s.now().UTC())
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, viewerID, GroupByOwner(stories))
}

// GetUserStories returns one user's unexpired stories. Only the owner and
// their followers may see them.
func (s *StoryService) GetUserStories(ctx context.Context, viewerID uint, username string) (*models.StoryGroup, error) {
	owner, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if owner.ID != viewerID {
		following, err := s.follows.IsFollowing(ctx, viewerID, owner.ID)
		if err != nil {
			return nil, err
		}
		if !following {
			return nil, fmt.Errorf("stories of %s: %w", username, models.ErrForbidden)
		}
	}

	stories, err := s.stories.GetActiveStoriesByUser(ctx, owner.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	groups, err := s.annotate(ctx, viewerID, GroupByOwner(stories))
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return &models.StoryGroup{UserID: owner.ID, User: owner.ToCompact(), Stories: []models.StoryItem{}}, nil
	}
	return &groups[0], nil
}

// ViewStory records that viewerID saw the story. The first view by each
// viewer, the owner included, counts once; repeats succeed without counting.
func (s *StoryService) ViewStory(ctx context.Context, viewerID, storyID uint) (bool, error) {
	if _, err := s.activeStory(ctx, storyID); err != nil {
		return false, err
	}
	return s.stories.RecordView(ctx, storyID, viewerID, s.now().UTC())
}

// GetViewers lists a story's viewers; owner only
func (s *StoryService) GetViewers(ctx context.Context, requesterID, storyID uint) ([]models.StoryViewer, error) {
	story, err := s.stories.GetStoryByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.UserID != requesterID {
		return nil, fmt.Errorf("viewers of story %d: %w", storyID, models.ErrForbidden)
	}
	return s.stories.GetViewers(ctx, storyID)
}

// ReplyToStory sends the owner a direct message referencing the story
func (s *StoryService) ReplyToStory(ctx context.Context, sender *models.User, storyID uint, req *models.StoryReplyRequest) (*models.Message, error) {
	story, err := s.activeStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	id := story.ID
	return s.messages.send(ctx, sender, story.UserID, req.Content, "", &id)
}

// DeleteStory removes a story; only its owner may do so
func (s *StoryService) DeleteStory(ctx context.Context, requesterID, storyID uint) error {
	return s.stories.DeleteStory(ctx, storyID, requesterID)
}

func (s *StoryService) activeStory(ctx context.Context, storyID uint) (*models.Story, error) {
	story, err := s.stories.GetStoryByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !story.ExpiresAt.After(s.now()) {
		return nil, fmt.Errorf("story %d expired: %w", storyID, models.ErrNotFound)
	}
	return story, nil
}

func (s *StoryService) annotate(ctx context.Context, viewerID uint, groups []models.StoryGroup) ([]models.StoryGroup, error) {
	var storyIDs []uint
	ownerIDs := make([]uint, len(groups))
	for i, g := range groups {
		ownerIDs[i] = g.UserID
		for _, st := range g.Stories {
			storyIDs = append(storyIDs, st.ID)
		}
	}
	viewed, err := s.stories.GetViewedStoryIDs(ctx, viewerID, storyIDs)
	if err != nil {
		return nil, err
	}
	owners, err := s.users.GetUsersByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	for i := range groups {
		g := &groups[i]
		if u, ok := owners[g.UserID]; ok {
			g.User = u.ToCompact()
		}
		for j := range g.Stories {
			seen := viewed[g.Stories[j].ID] || g.UserID == viewerID
			g.Stories[j].IsViewed = seen
			if !seen {
				g.HasUnseen = true
			}
		}
	}
	return groups, nil
}

// GroupByOwner groups recency-ordered stories by owner. Groups appear in the
// order each owner is first seen and keep the input order within a group.
func GroupByOwner(stories []models.Story) []models.StoryGroup {
	groups := make([]models.StoryGroup, 0)
	index := make(map[uint]int)
	for _, st := range stories {
		i, ok := index[st.UserID]
		if !ok {
			i = len(groups)
			index[st.UserID] = i
			groups = append(groups, models.StoryGroup{UserID: st.UserID})
		}
		groups[i].Stories = append(groups[i].Stories, models.StoryItem{Story: st})
	}
	return groups
}
