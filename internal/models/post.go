package models

import "time"

// Post is authored content. AuthorID is set from the acting identity and never changes.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author" gorm:"index;not null"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostResponse is the public representation of a post.
type PostResponse struct {
	Post
	AuthorUsername string `json:"author_username"`
	CommentsCount  int64  `json:"comments_count"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Content string `json:"content" validate:"required,notblank"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// Absent fields are left unchanged.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Content *string `json:"content,omitempty" validate:"omitempty,notblank"`
}
