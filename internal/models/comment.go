package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post" gorm:"index;not null"`
	AuthorID  uint      `json:"author" gorm:"index;not null"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentResponse is the public representation of a comment.
type CommentResponse struct {
	Comment
	AuthorUsername string `json:"author_username"`
}

// CreateCommentRequest defines the request body for creating a new comment.
// PostID is taken from the path on /posts/:id/comments.
type CreateCommentRequest struct {
	PostID  uint   `json:"post"`
	Content string `json:"content" validate:"notblank,max=10000"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"notblank,max=10000"`
}
