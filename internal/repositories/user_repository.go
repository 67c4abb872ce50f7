package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) error
}

// PostgresUserRepository implements UserRepository on GORM (PostgreSQL or SQLite)
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var _ UserRepository = (*PostgresUserRepository)(nil)

// CreateUser inserts the user and its profile in one transaction. A taken
// username is reported as ECONFLICT.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.Profile == nil {
		user.Profile = &models.Profile{}
	}
	profile := user.Profile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user.Profile = nil
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
	user.Profile = profile
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "A user with that username already exists.")
	}
	return err
}

// GetUserByID retrieves a user and its profile by ID
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, notFound(err, "User")
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by its exact username
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "User")
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user linked to a Firebase account
func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, notFound(err, "User")
	}
	return &user, nil
}

// SearchUsers searches for users by username or email (case-insensitive)
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	fields := listFields{
		table:           "users",
		search:          []string{"users.username", "users.email"},
		ordering:        map[string]string{"username": "users.username"},
		defaultOrdering: "username",
	}
	var users []models.User
	err := fields.apply(r.db.WithContext(ctx).Model(&models.User{}), ListQuery{Search: query}).Find(&users).Error
	return users, err
}

// UpdateUser saves the user row and its profile
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Save(user).Error; err != nil {
			return err
		}
		if user.Profile != nil {
			user.Profile.UserID = user.ID
			return tx.Save(user.Profile).Error
		}
		return nil
	})
}

// DeleteUser removes the user together with everything it owns in the
// relational store: follow edges in both directions, its posts with their
// comments and likes, and its own comments and likes. Notifications are
// owned by the notification store and cleaned up by the caller.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		steps := []*gorm.DB{
			tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}),
			tx.Where("user_id = ? OR post_id IN (?)", id, ownPosts).Delete(&models.Like{}),
			tx.Where("author_id = ? OR post_id IN (?)", id, ownPosts).Delete(&models.Comment{}),
			tx.Where("author_id = ?", id).Delete(&models.Post{}),
			tx.Where("user_id = ?", id).Delete(&models.Profile{}),
		}
		for _, step := range steps {
			if step.Error != nil {
				return step.Error
			}
		}

		// The user row goes last so foreign keys on posts and profiles hold.
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("User")
		}
		return nil
	})
}

// notFound maps gorm.ErrRecordNotFound to an ENOTFOUND error for resource.
func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(resource)
	}
	return err
}
