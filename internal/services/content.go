package services

import (
	"context"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// ContentService owns posts, comments and likes.
type ContentService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	likes    repositories.LikeRepository
	clock    Clock
}

// NewContentService creates a ContentService.
func NewContentService(posts repositories.PostRepository, comments repositories.CommentRepository, likes repositories.LikeRepository, clock Clock) *ContentService {
	return &ContentService{posts: posts, comments: comments, likes: likes, clock: clock}
}

// PostInput carries post fields; nil fields are left unchanged on update.
type PostInput struct {
	Title   *string
	Content *string
}

// CreatePost stores a post authored by the actor.
func (s *ContentService) CreatePost(ctx context.Context, author *models.User, title, content string) (*models.Post, error) {
	if err := requireActor(author); err != nil {
		return nil, err
	}
	if err := validatePost(&title, &content); err != nil {
		return nil, err
	}

	now := s.clock.now()
	post := &models.Post{
		AuthorID:  author.ID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns a post by ID.
func (s *ContentService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.GetPostByID(ctx, id)
}

// ListPosts returns posts matching q.
func (s *ContentService) ListPosts(ctx context.Context, q repositories.ListQuery) ([]models.Post, error) {
	return s.posts.ListPosts(ctx, q)
}

// UpdatePost changes a post owned by the actor.
func (s *ContentService) UpdatePost(ctx context.Context, actor *models.User, id uint, in PostInput) (*models.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, post.AuthorID); err != nil {
		return nil, err
	}
	if err := validatePost(in.Title, in.Content); err != nil {
		return nil, err
	}

	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	post.UpdatedAt = s.clock.now()
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post owned by the actor together with its comments and likes.
func (s *ContentService) DeletePost(ctx context.Context, actor *models.User, id uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actor, post.AuthorID); err != nil {
		return err
	}
	return s.posts.DeletePost(ctx, id)
}

// CommentCounts returns the number of comments of each post.
func (s *ContentService) CommentCounts(ctx context.Context, posts []models.Post) (map[uint]int64, error) {
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	return s.posts.GetCommentsCounts(ctx, ids)
}

// CreateComment stores a comment by author on post. Content must contain
// something other than whitespace.
func (s *ContentService) CreateComment(ctx context.Context, author *models.User, post *models.Post, content string) (*models.Comment, error) {
	if err := requireActor(author); err != nil {
		return nil, err
	}
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	now := s.clock.now()
	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComment returns a comment by ID.
func (s *ContentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.comments.GetCommentByID(ctx, id)
}

// ListComments returns comments matching q.
func (s *ContentService) ListComments(ctx context.Context, q repositories.ListQuery) ([]models.Comment, error) {
	return s.comments.ListComments(ctx, q)
}

// UpdateComment replaces the content of a comment owned by the actor.
func (s *ContentService) UpdateComment(ctx context.Context, actor *models.User, id uint, content string) (*models.Comment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, comment.AuthorID); err != nil {
		return nil, err
	}
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	comment.Content = content
	comment.UpdatedAt = s.clock.now()
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment owned by the actor.
func (s *ContentService) DeleteComment(ctx context.Context, actor *models.User, id uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actor, comment.AuthorID); err != nil {
		return err
	}
	return s.comments.DeleteComment(ctx, id)
}

// Like records that user likes post. It returns the like and whether it
// was newly created; liking twice returns the existing like.
func (s *ContentService) Like(ctx context.Context, user *models.User, post *models.Post) (*models.Like, bool, error) {
	if err := requireActor(user); err != nil {
		return nil, false, err
	}
	like := &models.Like{UserID: user.ID, PostID: post.ID, CreatedAt: s.clock.now()}
	created, err := s.likes.GetOrCreateLike(ctx, like)
	if err != nil {
		return nil, false, err
	}
	return like, created, nil
}

// Unlike removes the like of user on post and reports whether one existed.
func (s *ContentService) Unlike(ctx context.Context, user *models.User, post *models.Post) (bool, error) {
	if err := requireActor(user); err != nil {
		return false, err
	}
	return s.likes.DeleteLike(ctx, user.ID, post.ID)
}

// LikeCount returns the number of likes on a post.
func (s *ContentService) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return s.likes.GetLikesCountByPostID(ctx, postID)
}

// HasLiked reports whether userID likes postID.
func (s *ContentService) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likes.HasUserLikedPost(ctx, userID, postID)
}

func validatePost(title, content *string) error {
	if title != nil {
		if strings.TrimSpace(*title) == "" {
			return errs.Invalid("title", "This field may not be blank.")
		}
		if len([]rune(*title)) > 200 {
			return errs.Invalid("title", "Ensure this field has no more than 200 characters.")
		}
	}
	if content != nil && strings.TrimSpace(*content) == "" {
		return errs.Invalid("content", "This field may not be blank.")
	}
	return nil
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errs.Invalid("content", "Content cannot be empty.")
	}
	return nil
}
