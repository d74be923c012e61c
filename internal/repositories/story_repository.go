package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryRepository defines the interface for story operations
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStoryByID(ctx context.Context, id uint) (*models.Story, error)
	GetActiveStoriesByAuthors(ctx context.Context, authorIDs []uint, now time.Time) ([]models.Story, error)
	GetActiveStoriesByUser(ctx context.Context, userID uint, now time.Time) ([]models.Story, error)
	RecordView(ctx context.Context, storyID, viewerID uint, at time.Time) (bool, error)
	GetViewedStoryIDs(ctx context.Context, viewerID uint, storyIDs []uint) (map[uint]bool, error)
	GetViewers(ctx context.Context, storyID uint) ([]models.StoryViewer, error)
	DeleteStory(ctx context.Context, id, requesterID uint) error
}

// PostgresStoryRepository implements StoryRepository for PostgreSQL
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

// CreateStory inserts a story. Timestamps are set by the caller.
func (r *PostgresStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	return translate("create story", r.db.WithContext(ctx).Create(story).Error)
}

// GetStoryByID retrieves a story regardless of expiry
func (r *PostgresStoryRepository) GetStoryByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.WithContext(ctx).First(&story, id).Error; err != nil {
		return nil, translate("get story", err)
	}
	return &story, nil
}

// GetActiveStoriesByAuthors returns the unexpired stories of authorIDs,
// newest first
func (r *PostgresStoryRepository) GetActiveStoriesByAuthors(ctx context.Context, authorIDs []uint, now time.Time) ([]models.Story, error) {
	stories := make([]models.Story, 0)
	if len(authorIDs) == 0 {
		return stories, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND expires_at > ?", authorIDs, now).
		Order("created_at DESC, id DESC").
		Find(&stories).Error
	if err != nil {
		return nil, translate("get visible stories", err)
	}
	return stories, nil
}

// GetActiveStoriesByUser returns one user's unexpired stories, newest first
func (r *PostgresStoryRepository) GetActiveStoriesByUser(ctx context.Context, userID uint, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at DESC, id DESC").
		Find(&stories).Error
	if err != nil {
		return nil, translate("get user stories", err)
	}
	return stories, nil
}

// RecordView inserts the (story, viewer) record if absent and, only when it
// was inserted, increments views_count in the same transaction. A concurrent
// duplicate loses on the unique index and reports created=false.
func (r *PostgresStoryRepository) RecordView(ctx context.Context, storyID, viewerID uint, at time.Time) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var story models.Story
		if err := tx.Select("id").First(&story, storyID).Error; err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.StoryView{StoryID: storyID, ViewerID: viewerID, ViewedAt: at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Model(&models.Story{}).Where("id = ?", storyID).
			UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
	})
	if err != nil {
		return false, translate("record story view", err)
	}
	return created, nil
}

// GetViewedStoryIDs returns which of storyIDs the viewer has seen
func (r *PostgresStoryRepository) GetViewedStoryIDs(ctx context.Context, viewerID uint, storyIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(storyIDs))
	if len(storyIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.StoryView{}).
		Where("viewer_id = ? AND story_id IN ?", viewerID, storyIDs).
		Pluck("story_id", &ids).Error
	if err != nil {
		return nil, translate("get viewed stories", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// GetViewers lists who viewed a story, most recent first
func (r *PostgresStoryRepository) GetViewers(ctx context.Context, storyID uint) ([]models.StoryViewer, error) {
	var rows []struct {
		models.User
		ViewedAt time.Time
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("users.*, story_views.viewed_at").
		Joins("JOIN story_views ON story_views.viewer_id = users.id").
		Where("story_views.story_id = ?", storyID).
		Order("story_views.viewed_at DESC, story_views.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("get story viewers", err)
	}
	viewers := make([]models.StoryViewer, len(rows))
	for i, row := range rows {
		viewers[i] = models.StoryViewer{UserCompact: row.User.ToCompact(), ViewedAt: row.ViewedAt}
	}
	return viewers, nil
}

// DeleteStory removes a story owned by requesterID and its view records
func (r *PostgresStoryRepository) DeleteStory(ctx context.Context, id, requesterID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var story models.Story
		if err := tx.First(&story, id).Error; err != nil {
			return err
		}
		if story.UserID != requesterID {
			return models.ErrForbidden
		}
		if err := tx.Where("story_id = ?", id).Delete(&models.StoryView{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Story{}, id).Error
	})
	return translate("delete story", err)
}
