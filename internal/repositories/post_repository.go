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

// FeedWindowHours bounds the rolling feed window. The cutoff is a sliding
// query parameter recomputed on every read, not persisted state.
const FeedWindowHours = 24

// ProfilePostsPageSize is the default page size for a profile's post list.
const ProfilePostsPageSize = 10

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, authorUID, authorAddress, content string) (*models.Post, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetRecentPosts(ctx context.Context) ([]models.Post, error)
	GetFeedPosts(ctx context.Context, visibleAuthorUIDs []string) ([]models.Post, error)
	GetProfilePosts(ctx context.Context, uid string, limit int64, before *time.Time) ([]models.Post, error)
	DeleteOwnPost(ctx context.Context, postID, actorUID string) error
	WatchRecent(ctx context.Context, onChange func([]models.Post)) error
	WatchPost(ctx context.Context, postID string, onChange func(*models.Post)) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	posts  *mongo.Collection
	users  *mongo.Collection
	client *mongo.Client
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		posts:  db.Collection("posts"),
		users:  db.Collection("users"),
		client: db.Client(),
	}
}

// CreatePost inserts the post and bumps the author's postCount in the same
// transaction.
func (r *MongoPostRepository) CreatePost(ctx context.Context, authorUID, authorAddress, content string) (*models.Post, error) {
	now := time.Now()
	post := &models.Post{
		ID:            primitive.NewObjectID().Hex(),
		AuthorUID:     authorUID,
		AuthorAddress: authorAddress,
		Content:       content,
		LikeCount:     0,
		Deleted:       false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := runTxn(ctx, r.client, func(sc mongo.SessionContext) error {
		if _, err := r.posts.InsertOne(sc, post); err != nil {
			return err
		}
		update := bson.M{
			"$inc": bson.M{"postCount": 1},
			"$set": bson.M{"updatedAt": now},
		}
		_, err := r.users.UpdateOne(sc, bson.M{"_id": authorUID}, update)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetPostByID retrieves a post by ID. A soft-deleted post reads as gone.
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.Deleted {
		return nil, ErrGone
	}
	return &post, nil
}

func feedCutoff() time.Time {
	return time.Now().Add(-FeedWindowHours * time.Hour)
}

func (r *MongoPostRepository) findPosts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	posts := []models.Post{}
	cursor, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetRecentPosts retrieves non-deleted posts inside the rolling window,
// newest first.
func (r *MongoPostRepository) GetRecentPosts(ctx context.Context) ([]models.Post, error) {
	filter := bson.M{
		"deleted":   false,
		"createdAt": bson.M{"$gte": feedCutoff()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findPosts(ctx, filter, opts)
}

// GetFeedPosts retrieves the windowed feed restricted to the given authors
func (r *MongoPostRepository) GetFeedPosts(ctx context.Context, visibleAuthorUIDs []string) ([]models.Post, error) {
	if len(visibleAuthorUIDs) == 0 {
		return []models.Post{}, nil
	}

	filter := bson.M{
		"deleted":   false,
		"createdAt": bson.M{"$gte": feedCutoff()},
		"authorUid": bson.M{"$in": visibleAuthorUIDs},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findPosts(ctx, filter, opts)
}

// GetProfilePosts retrieves a page of a user's non-deleted posts, newest
// first. before is the createdAt cursor of the previous page's last item.
func (r *MongoPostRepository) GetProfilePosts(ctx context.Context, uid string, limit int64, before *time.Time) ([]models.Post, error) {
	if limit <= 0 {
		limit = ProfilePostsPageSize
	}

	filter := bson.M{"authorUid": uid, "deleted": false}
	if before != nil {
		filter["createdAt"] = bson.M{"$lt": *before}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	return r.findPosts(ctx, filter, opts)
}

// DeleteOwnPost soft-deletes a post and walks back the author's postCount
// and totalLikesReceived by the post's like count at deletion time, all in
// one transaction.
func (r *MongoPostRepository) DeleteOwnPost(ctx context.Context, postID, actorUID string) error {
	return runTxn(ctx, r.client, func(sc mongo.SessionContext) error {
		var post models.Post
		if err := r.posts.FindOne(sc, bson.M{"_id": postID}).Decode(&post); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return err
		}

		if post.Deleted {
			return ErrAlreadyDeleted
		}
		if post.AuthorUID != actorUID {
			return ErrForbidden
		}

		now := time.Now()
		postUpdate := bson.M{"$set": bson.M{"deleted": true, "updatedAt": now}}
		if _, err := r.posts.UpdateOne(sc, bson.M{"_id": postID}, postUpdate); err != nil {
			return err
		}

		userUpdate := bson.M{
			"$inc": bson.M{
				"postCount":          -1,
				"totalLikesReceived": -post.LikeCount,
			},
			"$set": bson.M{"updatedAt": now},
		}
		_, err := r.users.UpdateOne(sc, bson.M{"_id": actorUID}, userUpdate)
		return err
	})
}

// WatchRecent pushes full snapshots of the windowed feed until ctx is
// cancelled. The minute tick re-evaluates the sliding cutoff even when no
// document changes.
func (r *MongoPostRepository) WatchRecent(ctx context.Context, onChange func([]models.Post)) error {
	return watchCollection(ctx, r.posts, time.Minute, func(ctx context.Context) error {
		posts, err := r.GetRecentPosts(ctx)
		if err != nil {
			return err
		}
		onChange(posts)
		return nil
	})
}

// WatchPost pushes the current state of one post; missing or soft-deleted
// posts are delivered as nil.
func (r *MongoPostRepository) WatchPost(ctx context.Context, postID string, onChange func(*models.Post)) error {
	return watchCollection(ctx, r.posts, 0, func(ctx context.Context) error {
		post, err := r.GetPostByID(ctx, postID)
		if err != nil {
			if err == ErrNotFound || err == ErrGone {
				onChange(nil)
				return nil
			}
			return err
		}
		onChange(post)
		return nil
	})
}
