package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoNotificationRepository implements NotificationRepository for MongoDB.
// Documents use the same UUIDv7 string IDs as the relational store.
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

var _ NotificationRepository = (*MongoNotificationRepository)(nil)

// EnsureIndexes creates the recipient/timestamp index used by listings
func (r *MongoNotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating notification indexes: %w", err)
	}
	return nil
}

// CreateNotification inserts a notification document
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// GetByRecipientID lists notifications for a recipient, newest first
func (r *MongoNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint, unreadOnly bool) ([]models.Notification, error) {
	findOptions := options.Find().SetSort(notificationSort())
	cursor, err := r.collection.Find(ctx, recipientFilter(recipientID, unreadOnly), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetUnreadCount counts unread notifications for a recipient
func (r *MongoNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, recipientFilter(recipientID, true))
}

// MarkAllAsRead sets unread=false on every unread notification of a recipient
func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) error {
	_, err := r.collection.UpdateMany(ctx, recipientFilter(recipientID, true), bson.M{"$set": bson.M{"unread": false}})
	return err
}

// DeleteByRecipientID removes all notifications addressed to a recipient
func (r *MongoNotificationRepository) DeleteByRecipientID(ctx context.Context, recipientID uint) error {
	_, err := r.collection.DeleteMany(ctx, recipientFilter(recipientID, false))
	return err
}

// DetachActor nulls the actor on notifications caused by actorID
func (r *MongoNotificationRepository) DetachActor(ctx context.Context, actorID uint) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"actor_id": actorID}, bson.M{"$set": bson.M{"actor_id": nil}})
	return err
}

func recipientFilter(recipientID uint, unreadOnly bool) bson.M {
	filter := bson.M{"recipient_id": recipientID}
	if unreadOnly {
		filter["unread"] = true
	}
	return filter
}

func notificationSort() bson.D {
	return bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}
}
