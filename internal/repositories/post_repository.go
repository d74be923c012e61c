package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post, hashtags []string, mentionIDs []uint) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	IncrementViews(ctx context.Context, id uint) error
	DeletePost(ctx context.Context, id, requesterID uint) error
	GetVisiblePosts(ctx context.Context, viewerID uint, page models.Page) ([]models.Post, error)
	CountVisiblePosts(ctx context.Context, viewerID uint) (int64, error)
	GetPostsByUser(ctx context.Context, ownerID uint, includePrivate bool, page models.Page) ([]models.Post, int64, error)
	GetPostsByHashtag(ctx context.Context, name string, page models.Page) ([]models.Post, int64, error)
	SearchPosts(ctx context.Context, query string, limit int) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// visibleTo restricts posts to the viewer's visibility set: the viewer's own
// posts regardless of the public flag, plus public posts of followees. The
// followee set stays a subquery so it is never loaded into memory.
func visibleTo(viewerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		followees := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Follow{}).
			Select("following_id").
			Where("follower_id = ?", viewerID)
		return db.Where("posts.user_id = ? OR (posts.is_public = ? AND posts.user_id IN (?))", viewerID, true, followees)
	}
}

func recencyOrder(db *gorm.DB) *gorm.DB {
	return db.Order("posts.created_at DESC").Order("posts.id DESC")
}

// CreatePost inserts the post, bumps hashtag counters and records mentions in one transaction
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post, hashtags []string, mentionIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		for _, name := range hashtags {
			tag := models.Hashtag{Name: name, PostsCount: 1}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"posts_count": gorm.Expr("hashtags.posts_count + ?", 1)}),
			}).Create(&tag).Error
			if err != nil {
				return err
			}
			if err := tx.Create(&models.PostHashtag{PostID: post.ID, HashtagName: name}).Error; err != nil {
				return err
			}
		}
		for _, uid := range mentionIDs {
			if err := tx.Create(&models.PostMention{PostID: post.ID, UserID: uid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate("create post", err)
}

// GetPostByID retrieves a post by ID
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate("get post", err)
	}
	return &post, nil
}

// IncrementViews bumps views_count by one without per-viewer deduplication
func (r *PostgresPostRepository) IncrementViews(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1))
	if res.Error != nil {
		return translate("increment views", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("increment views", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeletePost removes a post owned by requesterID together with its edges,
// comments and hashtag links, decrementing hashtag counters.
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id, requesterID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		if post.UserID != requesterID {
			return models.ErrForbidden
		}

		var tags []string
		if err := tx.Model(&models.PostHashtag{}).Where("post_id = ?", id).Pluck("hashtag_name", &tags).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			err := tx.Model(&models.Hashtag{}).Where("name IN ? AND posts_count > 0", tags).
				UpdateColumn("posts_count", gorm.Expr("posts_count - ?", 1)).Error
			if err != nil {
				return err
			}
		}

		commentIDs := tx.Session(&gorm.Session{NewDB: true}).Model(&models.Comment{}).Select("id").Where("post_id = ?", id)
		steps := []struct {
			model interface{}
			query string
			arg   interface{}
		}{
			{&models.CommentLike{}, "comment_id IN (?)", commentIDs},
			{&models.Comment{}, "post_id = ?", id},
			{&models.Like{}, "post_id = ?", id},
			{&models.SavedPost{}, "post_id = ?", id},
			{&models.PostHashtag{}, "post_id = ?", id},
			{&models.PostMention{}, "post_id = ?", id},
		}
		for _, s := range steps {
			if err := tx.Where(s.query, s.arg).Delete(s.model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	return translate("delete post", err)
}

// GetVisiblePosts returns one page of the viewer's feed, newest first
func (r *PostgresPostRepository) GetVisiblePosts(ctx context.Context, viewerID uint, page models.Page) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Scopes(visibleTo(viewerID), recencyOrder).
		Offset(page.Offset()).Limit(page.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, translate("get feed", err)
	}
	return posts, nil
}

// CountVisiblePosts counts the viewer's feed. It is a separate read from the
// page query, so the two may observe different snapshots.
func (r *PostgresPostRepository) CountVisiblePosts(ctx context.Context, viewerID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Scopes(visibleTo(viewerID)).
		Count(&total).Error
	if err != nil {
		return 0, translate("count feed", err)
	}
	return total, nil
}

// GetPostsByUser lists one author's posts; private ones only when includePrivate
func (r *PostgresPostRepository) GetPostsByUser(ctx context.Context, ownerID uint, includePrivate bool, page models.Page) ([]models.Post, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("posts.user_id = ?", ownerID)
		if !includePrivate {
			db = db.Where("posts.is_public = ?", true)
		}
		return db
	}
	return r.page(ctx, "get user posts", scope, page)
}

// GetPostsByHashtag lists public posts tagged with name
func (r *PostgresPostRepository) GetPostsByHashtag(ctx context.Context, name string, page models.Page) ([]models.Post, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		tagged := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.PostHashtag{}).Select("post_id").Where("hashtag_name = ?", name)
		return db.Where("posts.is_public = ? AND posts.id IN (?)", true, tagged)
	}
	return r.page(ctx, "get hashtag posts", scope, page)
}

// SearchPosts finds public posts whose content contains query (case-insensitive)
func (r *PostgresPostRepository) SearchPosts(ctx context.Context, query string, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("posts.is_public = ? AND LOWER(posts.content) LIKE ?", true, "%"+strings.ToLower(query)+"%").
		Scopes(recencyOrder).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, translate("search posts", err)
	}
	return posts, nil
}

func (r *PostgresPostRepository) page(ctx context.Context, op string, scope func(*gorm.DB) *gorm.DB, page models.Page) ([]models.Post, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translate(op, err)
	}

	var posts []models.Post
	err := db.Scopes(scope, recencyOrder).
		Offset(page.Offset()).Limit(page.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, translate(op, err)
	}
	return posts, total, nil
}
