package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/logging"
	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// DirectoryService owns users, their profiles and the follow graph.
type DirectoryService struct {
	users         repositories.UserRepository
	follows       repositories.FollowRepository
	notifications repositories.NotificationRepository
	clock         Clock
}

// NewDirectoryService creates a DirectoryService. The notification
// repository is only used to clean up after a deleted user.
func NewDirectoryService(users repositories.UserRepository, follows repositories.FollowRepository, notifications repositories.NotificationRepository, clock Clock) *DirectoryService {
	return &DirectoryService{users: users, follows: follows, notifications: notifications, clock: clock}
}

// RegisterInput is the data needed to create a local account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// ProfileInput carries optional profile changes; nil fields are untouched.
type ProfileInput struct {
	Email          *string
	Bio            *string
	ProfilePicture *string
}

// CreateUser registers a user with a bcrypt-hashed password and creates its
// profile in the same step.
func (s *DirectoryService) CreateUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if len(in.Password) < 8 {
		return nil, errs.Invalid("password", "Ensure this field has at least 8 characters.")
	}
	if len(in.Password) > 72 {
		return nil, errs.Invalid("password", "Ensure this field has no more than 72 characters.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := s.clock.now()
	user := &models.User{
		Username:  username,
		Email:     strings.TrimSpace(in.Email),
		Password:  string(hash),
		Profile:   &models.Profile{UpdatedAt: now},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logging.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Authenticate checks a username/password pair.
func (s *DirectoryService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	invalid := errs.Errorf(errs.EUNAUTHORIZED, "Unable to log in with provided credentials.")

	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errs.Is(err, errs.ENOTFOUND) {
		return nil, invalid
	} else if err != nil {
		return nil, err
	}
	if user.Password == "" {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

// FirebaseUser returns the local user linked to a Firebase UID, creating
// one on first sign-in. The username is derived from the display name or
// email and suffixed with part of the UID if taken.
func (s *DirectoryService) FirebaseUser(ctx context.Context, uid, email, name string) (*models.User, error) {
	user, err := s.users.GetUserByFirebaseUID(ctx, uid)
	if err == nil {
		return user, nil
	} else if !errs.Is(err, errs.ENOTFOUND) {
		return nil, err
	}

	base := usernameFrom(name, email)
	suffix := "-" + shortUID(uid)
	candidates := []string{
		truncate(base, maxUsernameLen),
		truncate(base, maxUsernameLen-utf8.RuneCountInString(suffix)) + suffix,
		truncate("firebase-"+uid, maxUsernameLen),
	}
	now := s.clock.now()
	err = errs.Errorf(errs.EINVALID, "Unable to derive a username from the Firebase account.")
	for _, username := range candidates {
		if validateUsername(username) != nil {
			continue
		}
		firebaseUID := uid
		user = &models.User{
			Username:    username,
			Email:       email,
			FirebaseUID: &firebaseUID,
			Profile:     &models.Profile{UpdatedAt: now},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err = s.users.CreateUser(ctx, user)
		if err == nil {
			logging.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user created from firebase login")
			return user, nil
		}
		if !errs.Is(err, errs.ECONFLICT) {
			return nil, err
		}

		// A concurrent first sign-in may have linked the UID already.
		if existing, lookupErr := s.users.GetUserByFirebaseUID(ctx, uid); lookupErr == nil {
			return existing, nil
		} else if !errs.Is(lookupErr, errs.ENOTFOUND) {
			return nil, lookupErr
		}
	}
	return nil, err
}

// GetUser returns a user by ID.
func (s *DirectoryService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// SearchUsers matches q against usernames and emails, case-insensitively.
func (s *DirectoryService) SearchUsers(ctx context.Context, q string) ([]models.User, error) {
	if strings.TrimSpace(q) == "" {
		return nil, errs.Invalid("q", "Search query 'q' is required.")
	}
	return s.users.SearchUsers(ctx, q)
}

// UpdateProfile applies in to the actor's own account.
func (s *DirectoryService) UpdateProfile(ctx context.Context, actor *models.User, in ProfileInput) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		user.Profile = &models.Profile{UserID: user.ID}
	}

	now := s.clock.now()
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}
	if in.Bio != nil {
		user.Profile.Bio = *in.Bio
	}
	if in.ProfilePicture != nil {
		user.Profile.ProfilePicture = *in.ProfilePicture
	}
	user.UpdatedAt = now
	user.Profile.UpdatedAt = now

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the actor's account and everything it authored.
// Notifications addressed to the user are deleted; notifications it caused
// for others keep existing without an actor.
func (s *DirectoryService) DeleteUser(ctx context.Context, actor *models.User) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, actor.ID); err != nil {
		return err
	}
	if err := s.notifications.DeleteByRecipientID(ctx, actor.ID); err != nil {
		return fmt.Errorf("deleting notifications of user %d: %w", actor.ID, err)
	}
	if err := s.notifications.DetachActor(ctx, actor.ID); err != nil {
		return fmt.Errorf("detaching actor %d from notifications: %w", actor.ID, err)
	}
	logging.Info().Uint("user_id", actor.ID).Msg("user deleted")
	return nil
}

// Follow adds target to the actor's following set. Following the same user
// again is a no-op. It reports whether a new edge was created.
func (s *DirectoryService) Follow(ctx context.Context, actorID, targetID uint) (bool, error) {
	if actorID == targetID {
		return false, errs.Errorf(errs.EINVALIDOP, "You cannot follow yourself.")
	}
	created, err := s.follows.CreateFollow(ctx, &models.Follow{
		FollowerID:  actorID,
		FollowingID: targetID,
		CreatedAt:   s.clock.now(),
	})
	if err != nil {
		return false, err
	}
	if created {
		metrics.Follows.WithLabelValues("created").Inc()
	} else {
		metrics.Follows.WithLabelValues("existing").Inc()
	}
	return created, nil
}

// Unfollow removes the edge if present and reports whether it existed.
func (s *DirectoryService) Unfollow(ctx context.Context, actorID, targetID uint) (bool, error) {
	if actorID == targetID {
		return false, errs.Errorf(errs.EINVALIDOP, "You cannot unfollow yourself.")
	}
	removed, err := s.follows.DeleteFollow(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	if removed {
		metrics.Follows.WithLabelValues("removed").Inc()
	}
	return removed, nil
}

// IsFollowing reports whether actorID follows targetID.
func (s *DirectoryService) IsFollowing(ctx context.Context, actorID, targetID uint) (bool, error) {
	return s.follows.IsFollowing(ctx, actorID, targetID)
}

// Followers lists the users following userID.
func (s *DirectoryService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.GetFollowers(ctx, userID)
}

// Following lists the users userID follows.
func (s *DirectoryService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.GetFollowing(ctx, userID)
}

// FollowCounts returns how many users follow userID and how many it follows.
func (s *DirectoryService) FollowCounts(ctx context.Context, userID uint) (followers, following int64, err error) {
	if followers, err = s.follows.GetFollowersCount(ctx, userID); err != nil {
		return 0, 0, err
	}
	if following, err = s.follows.GetFollowingCount(ctx, userID); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

const (
	minUsernameLen = 3
	maxUsernameLen = 150
)

const usernameCharsMessage = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."

func validateUsername(username string) error {
	switch {
	case username == "":
		return errs.Invalid("username", "This field may not be blank.")
	case utf8.RuneCountInString(username) < minUsernameLen:
		return errs.Invalid("username", "Ensure this field has at least 3 characters.")
	case utf8.RuneCountInString(username) > maxUsernameLen:
		return errs.Invalid("username", "Ensure this field has no more than 150 characters.")
	}
	for _, r := range username {
		if !usernameRune(r) {
			return errs.Invalid("username", usernameCharsMessage)
		}
	}
	return nil
}

func usernameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("@.+-_", r)
}

func usernameFrom(name, email string) string {
	source := name
	if strings.TrimSpace(source) == "" {
		source, _, _ = strings.Cut(email, "@")
	}
	var b strings.Builder
	for _, r := range strings.TrimSpace(source) {
		switch {
		case usernameRune(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	if utf8.RuneCountInString(b.String()) < minUsernameLen {
		return "user"
	}
	return b.String()
}

func shortUID(uid string) string {
	return truncate(uid, 8)
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
