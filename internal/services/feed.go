package services

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// FeedService composes the home feed.
type FeedService struct {
	posts repositories.PostRepository
}

// NewFeedService creates a FeedService.
func NewFeedService(posts repositories.PostRepository) *FeedService {
	return &FeedService{posts: posts}
}

// FeedFor returns the posts of everyone user follows, newest first. A user
// following nobody gets an empty feed.
func (s *FeedService) FeedFor(ctx context.Context, user *models.User) ([]models.Post, error) {
	if err := requireActor(user); err != nil {
		return nil, err
	}
	posts, err := s.posts.GetFeed(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}
