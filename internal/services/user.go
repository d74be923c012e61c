package services

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/sanitize"
)

// UserService serves profiles and the follow graph
type UserService struct {
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	notifier Notifier
}

// NewUserService creates a UserService
func NewUserService(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, notifier Notifier) *UserService {
	return &UserService{users: userRepo, follows: followRepo, notifier: notifier}
}

// GetUser loads an account by ID
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// GetMe returns the caller's own profile with stats
func (s *UserService) GetMe(ctx context.Context, id uint) (*models.UserProfile, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.users.GetStats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{User: *user, Stats: stats, IsOwn: true}, nil
}

// GetProfile returns a profile by handle with stats and the viewer's follow state
func (s *UserService) GetProfile(ctx context.Context, viewerID uint, username string) (*models.UserProfile, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	stats, err := s.users.GetStats(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	profile := &models.UserProfile{User: *user, Stats: stats, IsOwn: user.ID == viewerID}
	if !profile.IsOwn {
		profile.IsFollowing, err = s.follows.IsFollowing(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// UpdateProfile applies the non-nil fields of req
func (s *UserService) UpdateProfile(ctx context.Context, id uint, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&user.FirstName, sanitize.TextPtr(req.FirstName))
	set(&user.LastName, sanitize.TextPtr(req.LastName))
	set(&user.Bio, sanitize.TextPtr(req.Bio))
	set(&user.Location, sanitize.TextPtr(req.Location))
	set(&user.Avatar, req.Avatar)
	set(&user.CoverPhoto, req.CoverPhoto)
	set(&user.Website, req.Website)
	if req.IsPrivate != nil {
		user.IsPrivate = *req.IsPrivate
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Follow creates follower -> target. Self-follows are invalid and a repeated
// follow is ErrConflict. The target is notified once the edge exists.
func (s *UserService) Follow(ctx context.Context, follower *models.User, username string) (*models.User, error) {
	target, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == follower.ID {
		return nil, fmt.Errorf("cannot follow yourself: %w", models.ErrValidation)
	}
	created, err := s.follows.Follow(ctx, follower.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, fmt.Errorf("already following %s: %w", username, models.ErrConflict)
	}
	s.notifier.Dispatch(Event{
		Type:        models.NotificationFollow,
		ActorID:     follower.ID,
		RecipientID: target.ID,
		TargetID:    idString(follower.ID),
		TargetType:  "user",
		Message:     follower.DisplayName() + " started following you",
	})
	return target, nil
}

// Unfollow removes follower -> target; ErrNotFound if not following
func (s *UserService) Unfollow(ctx context.Context, followerID uint, username string) error {
	target, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.follows.Unfollow(ctx, followerID, target.ID)
}

// GetFollowers lists who follows username
func (s *UserService) GetFollowers(ctx context.Context, viewerID uint, username string, page models.Page) ([]models.FollowUser, models.PageMeta, error) {
	return s.listFollows(ctx, viewerID, username, page, s.follows.GetFollowers)
}

// GetFollowing lists whom username follows
func (s *UserService) GetFollowing(ctx context.Context, viewerID uint, username string, page models.Page) ([]models.FollowUser, models.PageMeta, error) {
	return s.listFollows(ctx, viewerID, username, page, s.follows.GetFollowing)
}

type followLister func(ctx context.Context, userID uint, page models.Page) ([]models.User, int64, error)

func (s *UserService) listFollows(ctx context.Context, viewerID uint, username string, page models.Page, list followLister) ([]models.FollowUser, models.PageMeta, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	users, total, err := list(ctx, user.ID, page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	out, err := s.withFollowState(ctx, viewerID, users)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	return out, page.Meta(total), nil
}

// GetSuggestions lists accounts the viewer might follow
func (s *UserService) GetSuggestions(ctx context.Context, viewerID uint, limit int) ([]models.FollowUser, error) {
	users, err := s.users.GetSuggestions(ctx, viewerID, limit)
	if err != nil {
		return nil, err
	}
	return s.withFollowState(ctx, viewerID, users)
}

func (s *UserService) withFollowState(ctx context.Context, viewerID uint, users []models.User) ([]models.FollowUser, error) {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	following, err := s.follows.GetFollowingSet(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.FollowUser, len(users))
	for i := range users {
		out[i] = models.FollowUser{
			UserCompact: users[i].ToCompact(),
			Bio:         users[i].Bio,
			IsFollowing: following[users[i].ID],
		}
	}
	return out, nil
}
