package services

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/logging"
	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/models"
)

// Actions orchestrates the user-facing social actions: it resolves the
// target entity, performs the mutation and fans out notifications.
type Actions struct {
	directory     *DirectoryService
	content       *ContentService
	notifications *NotificationService
}

// NewActions creates an Actions.
func NewActions(directory *DirectoryService, content *ContentService, notifications *NotificationService) *Actions {
	return &Actions{directory: directory, content: content, notifications: notifications}
}

// LikeResult is the outcome of LikePost.
type LikeResult struct {
	Like    *models.Like
	Created bool
}

// LikePost likes postID on behalf of actor. The post author is notified
// only when the like is new and the author is someone else.
func (a *Actions) LikePost(ctx context.Context, actor *models.User, postID uint) (*LikeResult, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	post, err := a.content.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	like, created, err := a.content.Like(ctx, actor, post)
	if err != nil {
		return nil, err
	}
	if !created {
		metrics.Likes.WithLabelValues("existing").Inc()
		return &LikeResult{Like: like}, nil
	}

	metrics.Likes.WithLabelValues("created").Inc()
	a.notify(ctx, post.AuthorID, actor, models.VerbLiked, &models.Target{Kind: models.TargetPost, ID: post.ID})
	return &LikeResult{Like: like, Created: true}, nil
}

// UnlikePost removes the actor's like on postID. Unliking a post that is
// not liked is an EINVALIDOP. No notification is retracted.
func (a *Actions) UnlikePost(ctx context.Context, actor *models.User, postID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	post, err := a.content.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	removed, err := a.content.Unlike(ctx, actor, post)
	if err != nil {
		return err
	}
	if !removed {
		return errs.Errorf(errs.EINVALIDOP, "Not liked yet.")
	}
	metrics.Likes.WithLabelValues("removed").Inc()
	return nil
}

// CommentOnPost adds a comment by actor to postID and notifies the post
// author when it is someone else.
func (a *Actions) CommentOnPost(ctx context.Context, actor *models.User, postID uint, content string) (*models.Comment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	post, err := a.content.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment, err := a.content.CreateComment(ctx, actor, post, content)
	if err != nil {
		return nil, err
	}
	a.notify(ctx, post.AuthorID, actor, models.VerbCommented, &models.Target{Kind: models.TargetPost, ID: post.ID})
	return comment, nil
}

// FollowUser makes actor follow targetID. Following does not notify.
func (a *Actions) FollowUser(ctx context.Context, actor *models.User, targetID uint) (*models.User, bool, error) {
	if err := requireActor(actor); err != nil {
		return nil, false, err
	}
	target, err := a.directory.GetUser(ctx, targetID)
	if err != nil {
		return nil, false, err
	}
	created, err := a.directory.Follow(ctx, actor.ID, target.ID)
	if err != nil {
		return nil, false, err
	}
	return target, created, nil
}

// UnfollowUser makes actor stop following targetID. Unfollowing a user
// that is not followed succeeds.
func (a *Actions) UnfollowUser(ctx context.Context, actor *models.User, targetID uint) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	target, err := a.directory.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if _, err := a.directory.Unfollow(ctx, actor.ID, target.ID); err != nil {
		return nil, err
	}
	return target, nil
}

// notify fans out a notification. The triggering action is already
// committed, so a failure here is logged rather than returned.
func (a *Actions) notify(ctx context.Context, recipientID uint, actor *models.User, verb models.Verb, target *models.Target) {
	actorID := actor.ID
	if _, err := a.notifications.Notify(ctx, recipientID, &actorID, verb, target); err != nil {
		metrics.Notifications.WithLabelValues(string(verb), "failed").Inc()
		logging.Error().Err(err).
			Uint("recipient_id", recipientID).
			Uint("actor_id", actorID).
			Str("verb", string(verb)).
			Msg("failed to emit notification")
	}
}
