package models

import "time"

// Like represents a like on a post. A user likes a given post at most once.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user" gorm:"index;uniqueIndex:idx_user_post_like;not null"`
	PostID    uint      `json:"post" gorm:"index;uniqueIndex:idx_user_post_like;not null"`
	CreatedAt time.Time `json:"created_at"`
}
