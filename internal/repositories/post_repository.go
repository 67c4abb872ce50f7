package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	ListPosts(ctx context.Context, q ListQuery) ([]models.Post, error)
	// GetFeed returns posts authored by users that userID follows, newest first.
	GetFeed(ctx context.Context, userID uint) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
	GetCommentsCounts(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}

// PostgresPostRepository implements PostRepository on GORM
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

var _ PostRepository = (*PostgresPostRepository)(nil)

var postFields = listFields{
	table:   "posts",
	filters: map[string]string{"author": "posts.author_id"},
	search:  []string{"posts.title", "posts.content"},
	ordering: map[string]string{
		"created_at": "posts.created_at",
		"updated_at": "posts.updated_at",
		"title":      "posts.title",
	},
	defaultOrdering: "-created_at",
}

// CreatePost creates a new post and loads its author
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Author").Create(post).Error; err != nil {
		return err
	}
	return db.First(&post.Author, post.AuthorID).Error
}

// GetPostByID retrieves a post and its author by ID
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, notFound(err, "Post")
	}
	return &post, nil
}

// ListPosts filters, searches and orders posts as described by q
func (r *PostgresPostRepository) ListPosts(ctx context.Context, q ListQuery) ([]models.Post, error) {
	var posts []models.Post
	db := r.db.WithContext(ctx).Model(&models.Post{}).Preload("Author")
	err := postFields.apply(db, q).Find(&posts).Error
	return posts, err
}

// GetFeed selects posts whose author is in the follow set of userID
func (r *PostgresPostRepository) GetFeed(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Where("author_id IN (?)",
			r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID),
		).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	return posts, err
}

// UpdatePost persists the title, content and updated_at of an existing post
func (r *PostgresPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
		"title":      post.Title,
		"content":    post.Content,
		"updated_at": post.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Post")
	}
	return nil
}

// DeletePost deletes a post with its comments and likes
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("Post")
		}
		return nil
	})
}

// GetCommentsCounts returns the number of comments for each of postIDs.
// Posts without comments are absent from the map.
func (r *PostgresPostRepository) GetCommentsCounts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID uint
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}
