package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations.
// Listings are newest first, ties broken by descending ID.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByRecipientID(ctx context.Context, recipientID uint, unreadOnly bool) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
	// MarkAllAsRead flips every unread notification of recipientID to read.
	MarkAllAsRead(ctx context.Context, recipientID uint) error
	// DeleteByRecipientID removes every notification addressed to recipientID.
	DeleteByRecipientID(ctx context.Context, recipientID uint) error
	// DetachActor clears the actor of notifications caused by actorID.
	DetachActor(ctx context.Context, actorID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository returns a NotificationRepository on GORM
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint, unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	db := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		db = db.Where("unread = ?", true)
	}
	err := db.Order("created_at DESC").Order("id DESC").Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ? AND unread = ?", recipientID, true).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ? AND unread = ?", recipientID, true).Update("unread", false).Error
}

func (r *postgresNotificationRepository) DeleteByRecipientID(ctx context.Context, recipientID uint) error {
	return r.db.WithContext(ctx).Where("recipient_id = ?", recipientID).Delete(&models.Notification{}).Error
}

func (r *postgresNotificationRepository) DetachActor(ctx context.Context, actorID uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where("actor_id = ?", actorID).Update("actor_id", nil).Error
}
