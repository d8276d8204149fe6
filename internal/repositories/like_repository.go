package repositories

import (
	"context"
	"time"

	"github.com/derekink/postcard/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ToggleResult reports the outcome of a like toggle. PostAuthorUID lets the
// caller decide whether to fan out a notification after the transaction.
type ToggleResult struct {
	Liked         bool   `json:"liked"`
	PostAuthorUID string `json:"-"`
}

// LikeRepository defines the interface for the like ledger
type LikeRepository interface {
	Toggle(ctx context.Context, postID, actorUID string) (*ToggleResult, error)
	HasUserLikedPost(ctx context.Context, postID, uid string) (bool, error)
}

// MongoLikeRepository implements LikeRepository for MongoDB
type MongoLikeRepository struct {
	likes  *mongo.Collection
	posts  *mongo.Collection
	users  *mongo.Collection
	client *mongo.Client
}

// NewMongoLikeRepository creates a new MongoLikeRepository
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{
		likes:  db.Collection("postLikes"),
		posts:  db.Collection("posts"),
		users:  db.Collection("users"),
		client: db.Client(),
	}
}

// Toggle reads the ledger entry and the post in one transaction, then either
// unlikes (delete entry, likeCount -1, author totalLikesReceived -1) or
// likes (insert entry, +1/+1). The ledger entry and both counters always
// move together; concurrent toggles by different users serialize in the
// backend and never lose an increment.
func (r *MongoLikeRepository) Toggle(ctx context.Context, postID, actorUID string) (*ToggleResult, error) {
	likeID := models.LikeID(postID, actorUID)
	result := &ToggleResult{}

	err := runTxn(ctx, r.client, func(sc mongo.SessionContext) error {
		var post models.Post
		if err := r.posts.FindOne(sc, bson.M{"_id": postID}).Decode(&post); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return err
		}
		result.PostAuthorUID = post.AuthorUID

		likeCount, err := r.likes.CountDocuments(sc, bson.M{"_id": likeID})
		if err != nil {
			return err
		}

		now := time.Now()
		if likeCount > 0 {
			result.Liked = false
			if _, err := r.likes.DeleteOne(sc, bson.M{"_id": likeID}); err != nil {
				return err
			}
			if _, err := r.posts.UpdateOne(sc, bson.M{"_id": postID}, bson.M{
				"$inc": bson.M{"likeCount": -1},
				"$set": bson.M{"updatedAt": now},
			}); err != nil {
				return err
			}
			_, err = r.users.UpdateOne(sc, bson.M{"_id": post.AuthorUID}, bson.M{
				"$inc": bson.M{"totalLikesReceived": -1},
				"$set": bson.M{"updatedAt": now},
			})
			return err
		}

		result.Liked = true
		like := models.PostLike{ID: likeID, PostID: postID, UserUID: actorUID, CreatedAt: now}
		if _, err := r.likes.InsertOne(sc, like); err != nil {
			return err
		}
		if _, err := r.posts.UpdateOne(sc, bson.M{"_id": postID}, bson.M{
			"$inc": bson.M{"likeCount": 1},
			"$set": bson.M{"updatedAt": now},
		}); err != nil {
			return err
		}
		_, err = r.users.UpdateOne(sc, bson.M{"_id": post.AuthorUID}, bson.M{
			"$inc": bson.M{"totalLikesReceived": 1},
			"$set": bson.M{"updatedAt": now},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// HasUserLikedPost checks the ledger for the deterministic (post, user) id
func (r *MongoLikeRepository) HasUserLikedPost(ctx context.Context, postID, uid string) (bool, error) {
	count, err := r.likes.CountDocuments(ctx, bson.M{"_id": models.LikeID(postID, uid)})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
