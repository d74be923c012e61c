package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
	GetUsersByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateUser(ctx context.Context, user *models.User) error
	SetRefreshToken(ctx context.Context, id uint, token string) error
	SearchUsers(ctx context.Context, query string, excludeID uint, limit int) ([]models.User, error)
	GetStats(ctx context.Context, id uint) (models.UserStats, error)
	GetSuggestions(ctx context.Context, viewerID uint, limit int) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(user).Error)
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate("get user", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by handle
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate("get user by username", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, translate("get user by email", err)
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, translate("get user by firebase uid", err)
	}
	return &user, nil
}

// GetUsersByIDs loads many users at once, keyed by ID. Missing IDs are absent from the map.
func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	result := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate("get users by ids", err)
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// GetUsersByUsernames resolves handles (used for @mentions)
func (r *PostgresUserRepository) GetUsersByUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	var users []models.User
	if len(usernames) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("username IN ?", usernames).Find(&users).Error; err != nil {
		return nil, translate("get users by usernames", err)
	}
	return users, nil
}

// UsernameExists reports whether a handle is taken
func (r *PostgresUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, translate("check username", err)
	}
	return count > 0, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return translate("update user", r.db.WithContext(ctx).Save(user).Error)
}

// SetRefreshToken stores (or clears, with "") the user's current refresh token
func (r *PostgresUserRepository) SetRefreshToken(ctx context.Context, id uint, token string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("refresh_token", token)
	if res.Error != nil {
		return translate("set refresh token", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("set refresh token", gorm.ErrRecordNotFound)
	}
	return nil
}

// SearchUsers searches by username, first or last name (case-insensitive), excluding the searcher
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, query string, excludeID uint, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Where("LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, translate("search users", err)
	}
	return users, nil
}

// GetStats counts a user's posts, followers and followings
func (r *PostgresUserRepository) GetStats(ctx context.Context, id uint) (models.UserStats, error) {
	var stats models.UserStats
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Post{}).Where("user_id = ?", id).Count(&stats.Posts).Error; err != nil {
		return stats, translate("count posts", err)
	}
	if err := db.Model(&models.Follow{}).Where("following_id = ?", id).Count(&stats.Followers).Error; err != nil {
		return stats, translate("count followers", err)
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", id).Count(&stats.Following).Error; err != nil {
		return stats, translate("count following", err)
	}
	return stats, nil
}

// GetSuggestions returns users the viewer does not follow yet, newest accounts first
func (r *PostgresUserRepository) GetSuggestions(ctx context.Context, viewerID uint, limit int) ([]models.User, error) {
	var users []models.User
	db := r.db.WithContext(ctx)
	following := db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", viewerID)
	err := db.Where("id <> ? AND id NOT IN (?)", viewerID, following).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, translate("get suggestions", err)
	}
	return users, nil
}
