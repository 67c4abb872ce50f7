package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	ListComments(ctx context.Context, q ListQuery) ([]models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id uint) error
}

// PostgresCommentRepository implements CommentRepository on GORM
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

var _ CommentRepository = (*PostgresCommentRepository)(nil)

var commentFields = listFields{
	table: "comments",
	filters: map[string]string{
		"post":   "comments.post_id",
		"author": "comments.author_id",
	},
	search: []string{"comments.content", "comment_author.username"},
	ordering: map[string]string{
		"created_at": "comments.created_at",
		"updated_at": "comments.updated_at",
	},
	defaultOrdering: "created_at",
}

// CreateComment creates a new comment and loads its author
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Author").Create(comment).Error; err != nil {
		return err
	}
	return db.First(&comment.Author, comment.AuthorID).Error
}

// GetCommentByID retrieves a comment and its author by ID
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, notFound(err, "Comment")
	}
	return &comment, nil
}

// ListComments filters, searches and orders comments as described by q.
// Search also matches the author's username.
func (r *PostgresCommentRepository) ListComments(ctx context.Context, q ListQuery) ([]models.Comment, error) {
	var comments []models.Comment
	db := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("comments.*").
		Joins("JOIN users AS comment_author ON comment_author.id = comments.author_id").
		Preload("Author")
	err := commentFields.apply(db, q).Find(&comments).Error
	return comments, err
}

// UpdateComment persists the content and updated_at of an existing comment
func (r *PostgresCommentRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", comment.ID).Updates(map[string]interface{}{
		"content":    comment.Content,
		"updated_at": comment.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Comment")
	}
	return nil
}

// DeleteComment deletes a comment by ID
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Comment")
	}
	return nil
}
