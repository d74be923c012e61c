package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

// HashtagRepository defines hashtag lookups used by search
type HashtagRepository interface {
	SearchHashtags(ctx context.Context, prefix string, limit int) ([]models.Hashtag, error)
	GetTrending(ctx context.Context, limit int) ([]models.Hashtag, error)
}

// PostgresHashtagRepository implements HashtagRepository for PostgreSQL
type PostgresHashtagRepository struct {
	db *gorm.DB
}

// NewPostgresHashtagRepository creates a new PostgresHashtagRepository
func NewPostgresHashtagRepository(db *gorm.DB) *PostgresHashtagRepository {
	return &PostgresHashtagRepository{db: db}
}

// SearchHashtags finds tags starting with prefix, most used first
func (r *PostgresHashtagRepository) SearchHashtags(ctx context.Context, prefix string, limit int) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	err := r.db.WithContext(ctx).
		Where("name LIKE ?", strings.ToLower(strings.TrimPrefix(prefix, "#"))+"%").
		Order("posts_count DESC, name ASC").
		Limit(limit).
		Find(&tags).Error
	if err != nil {
		return nil, translate("search hashtags", err)
	}
	return tags, nil
}

// GetTrending returns the most used tags
func (r *PostgresHashtagRepository) GetTrending(ctx context.Context, limit int) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	err := r.db.WithContext(ctx).
		Where("posts_count > ?", 0).
		Order("posts_count DESC, name ASC").
		Limit(limit).
		Find(&tags).Error
	if err != nil {
		return nil, translate("get trending hashtags", err)
	}
	return tags, nil
}
