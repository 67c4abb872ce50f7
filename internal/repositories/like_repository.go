package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// GetOrCreateLike inserts like unless (UserID, PostID) already exists, in
	// which case like is overwritten with the stored row. It reports whether
	// a row was created.
	GetOrCreateLike(ctx context.Context, like *models.Like) (bool, error)
	// DeleteLike reports whether a like existed and was removed.
	DeleteLike(ctx context.Context, userID, postID uint) (bool, error)
	GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error)
	HasUserLikedPost(ctx context.Context, userID, postID uint) (bool, error)
}

// PostgresLikeRepository implements LikeRepository on GORM
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)

// GetOrCreateLike leans on the (user_id, post_id) unique index: a concurrent
// like from the same user loses the insert and reads the winner's row.
func (r *PostgresLikeRepository) GetOrCreateLike(ctx context.Context, like *models.Like) (bool, error) {
	db := r.db.WithContext(ctx)
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return false, res.Error
	}
	if res.Error == nil && res.RowsAffected > 0 {
		return true, nil
	}

	var existing models.Like
	if err := db.Where("user_id = ? AND post_id = ?", like.UserID, like.PostID).First(&existing).Error; err != nil {
		return false, notFound(err, "Like")
	}
	*like = existing
	return false, nil
}

// DeleteLike deletes the like of userID on postID
func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetLikesCountByPostID retrieves the number of likes on a post
func (r *PostgresLikeRepository) GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
