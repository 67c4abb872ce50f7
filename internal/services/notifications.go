package services

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/logging"
	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/google/uuid"
)

// NotificationService creates and reads notifications.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	clock         Clock
}

// NewNotificationService creates a NotificationService. The user, post and
// comment repositories are used to resolve notification targets.
func NewNotificationService(notifications repositories.NotificationRepository, users repositories.UserRepository, posts repositories.PostRepository, comments repositories.CommentRepository, clock Clock) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		posts:         posts,
		comments:      comments,
		clock:         clock,
	}
}

// Notify records that actorID did verb to target, addressed to recipientID.
// A nil actorID marks a system event. Nothing is stored when the actor is
// the recipient; Notify then returns a nil notification and no error.
func (s *NotificationService) Notify(ctx context.Context, recipientID uint, actorID *uint, verb models.Verb, target *models.Target) (*models.Notification, error) {
	if actorID != nil && *actorID == recipientID {
		metrics.Notifications.WithLabelValues(string(verb), "suppressed").Inc()
		return nil, nil
	}
	if target != nil && !target.Kind.Valid() {
		return nil, errs.Invalid("target", fmt.Sprintf("Unknown target kind %q.", target.Kind))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating notification id: %w", err)
	}
	n := &models.Notification{
		ID:          id.String(),
		RecipientID: recipientID,
		ActorID:     actorID,
		Verb:        verb,
		Unread:      true,
		CreatedAt:   s.clock.now(),
	}
	n.SetTarget(target)

	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	metrics.Notifications.WithLabelValues(string(verb), "emitted").Inc()
	logging.Debug().
		Str("notification_id", n.ID).
		Uint("recipient_id", recipientID).
		Str("verb", string(verb)).
		Msg("notification emitted")
	return n, nil
}

// ListFor returns the notifications of user, newest first.
func (s *NotificationService) ListFor(ctx context.Context, user *models.User, unreadOnly bool) ([]models.Notification, error) {
	if err := requireActor(user); err != nil {
		return nil, err
	}
	return s.notifications.GetByRecipientID(ctx, user.ID, unreadOnly)
}

// UnreadCount returns how many unread notifications user has.
func (s *NotificationService) UnreadCount(ctx context.Context, user *models.User) (int64, error) {
	if err := requireActor(user); err != nil {
		return 0, err
	}
	return s.notifications.GetUnreadCount(ctx, user.ID)
}

// MarkAllRead marks every notification of user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, user *models.User) error {
	if err := requireActor(user); err != nil {
		return err
	}
	return s.notifications.MarkAllAsRead(ctx, user.ID)
}

// Resolve loads the entity a target points at: a *models.Post,
// *models.Comment or *models.User. A target whose entity was deleted
// resolves to ENOTFOUND.
func (s *NotificationService) Resolve(ctx context.Context, target models.Target) (interface{}, error) {
	switch target.Kind {
	case models.TargetPost:
		return s.posts.GetPostByID(ctx, target.ID)
	case models.TargetComment:
		return s.comments.GetCommentByID(ctx, target.ID)
	case models.TargetUser:
		return s.users.GetUserByID(ctx, target.ID)
	}
	return nil, errs.Invalid("target", fmt.Sprintf("Unknown target kind %q.", target.Kind))
}

// Actor loads the actor of n, or nil for system events and deleted actors.
func (s *NotificationService) Actor(ctx context.Context, n *models.Notification) (*models.User, error) {
	if n.ActorID == nil {
		return nil, nil
	}
	user, err := s.users.GetUserByID(ctx, *n.ActorID)
	if errs.Is(err, errs.ENOTFOUND) {
		return nil, nil
	}
	return user, err
}

// Describe returns a short human-readable label for a resolved target.
func Describe(v interface{}) string {
	switch t := v.(type) {
	case *models.Post:
		return t.Title
	case *models.Comment:
		return ellipsize(t.Content, 50)
	case *models.User:
		return t.Username
	}
	return ""
}

func ellipsize(s string, n int) string {
	if short := truncate(s, n); short != s {
		return short + "..."
	}
	return s
}
