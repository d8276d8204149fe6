package repositories

import (
	"context"
	"time"

	"github.com/derekink/postcard/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnqueueParams describes one fan-out record
type EnqueueParams struct {
	RecipientUID string
	ActorUID     string
	Type         string
	PostID       string
	CommentID    string
}

// NotificationRepository defines the interface for the notification outbox
type NotificationRepository interface {
	Enqueue(ctx context.Context, params EnqueueParams) error
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, uid string) error
	ListForUser(ctx context.Context, uid string) ([]models.Notification, error)
	UnreadCount(ctx context.Context, uid string) (int64, error)
	WatchForUser(ctx context.Context, uid string, onChange func([]models.Notification)) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	notifications *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{notifications: db.Collection("notifications")}
}

// Enqueue appends an unread record. Self-notifications are silently dropped.
// Callers treat the whole operation as best-effort: a failed enqueue never
// unwinds the like/comment/friend operation that triggered it.
func (r *MongoNotificationRepository) Enqueue(ctx context.Context, params EnqueueParams) error {
	if params.RecipientUID == params.ActorUID {
		return nil
	}

	notification := models.Notification{
		ID:           primitive.NewObjectID().Hex(),
		RecipientUID: params.RecipientUID,
		ActorUID:     params.ActorUID,
		Type:         params.Type,
		PostID:       params.PostID,
		CommentID:    params.CommentID,
		Read:         false,
		CreatedAt:    time.Now(),
	}
	_, err := r.notifications.InsertOne(ctx, notification)
	return err
}

// MarkRead sets read=true; marking twice has no further effect
func (r *MongoNotificationRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.notifications.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	return err
}

// MarkAllRead sets read=true on every unread record for uid
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, uid string) error {
	filter := bson.M{"recipientUid": uid, "read": false}
	_, err := r.notifications.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	return err
}

// ListForUser returns uid's notifications, newest first
func (r *MongoNotificationRepository) ListForUser(ctx context.Context, uid string) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.notifications.Find(ctx, bson.M{"recipientUid": uid}, opts)
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

// UnreadCount returns the unread-count projection for uid
func (r *MongoNotificationRepository) UnreadCount(ctx context.Context, uid string) (int64, error) {
	return r.notifications.CountDocuments(ctx, bson.M{"recipientUid": uid, "read": false})
}

// WatchForUser pushes full snapshots of uid's notification list
func (r *MongoNotificationRepository) WatchForUser(ctx context.Context, uid string, onChange func([]models.Notification)) error {
	return watchCollection(ctx, r.notifications, 0, func(ctx context.Context) error {
		notifications, err := r.ListForUser(ctx, uid)
		if err != nil {
			return err
		}
		onChange(notifications)
		return nil
	})
}
