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

// FriendshipRepository defines the interface for friend requests and edges
type FriendshipRepository interface {
	SendRequest(ctx context.Context, fromUID, toUID string) (*models.FriendRequest, error)
	GetRequestByID(ctx context.Context, id string) (*models.FriendRequest, error)
	AcceptRequest(ctx context.Context, requestID, fromUID, toUID string) error
	RemoveFriend(ctx context.Context, uidA, uidB string) error
	AreFriends(ctx context.Context, uidA, uidB string) (bool, error)
	GetFriendIDs(ctx context.Context, uid string) ([]string, error)
	HasPendingRequestBetween(ctx context.Context, uidA, uidB string) (bool, error)
	GetIncomingRequests(ctx context.Context, uid string) ([]models.FriendRequest, error)
	WatchIncomingRequests(ctx context.Context, uid string, onChange func([]models.FriendRequest)) error
	WatchFriendIDs(ctx context.Context, uid string, onChange func([]string)) error
}

// MongoFriendshipRepository implements FriendshipRepository for MongoDB
type MongoFriendshipRepository struct {
	requests    *mongo.Collection
	friendships *mongo.Collection
	client      *mongo.Client
}

// NewMongoFriendshipRepository creates a new MongoFriendshipRepository
func NewMongoFriendshipRepository(db *mongo.Database) *MongoFriendshipRepository {
	return &MongoFriendshipRepository{
		requests:    db.Collection("friendRequests"),
		friendships: db.Collection("friendships"),
		client:      db.Client(),
	}
}

// SendRequest inserts a pending request. Duplicate and already-friends
// checks are the caller's precondition reads, performed before this write;
// the resulting race window is accepted (see DESIGN.md).
func (r *MongoFriendshipRepository) SendRequest(ctx context.Context, fromUID, toUID string) (*models.FriendRequest, error) {
	if fromUID == toUID {
		return nil, ErrSelfFriend
	}

	request := &models.FriendRequest{
		ID:          primitive.NewObjectID().Hex(),
		FromUID:     fromUID,
		ToUID:       toUID,
		Status:      models.FriendRequestPending,
		CreatedAt:   time.Now(),
		RespondedAt: nil,
	}
	if _, err := r.requests.InsertOne(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// GetRequestByID retrieves a friend request by id
func (r *MongoFriendshipRepository) GetRequestByID(ctx context.Context, id string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.requests.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// AcceptRequest marks the request accepted and upserts the deterministic
// friendship edge in one transaction. The sorted-pair id makes repeated
// accepts land on the same record.
func (r *MongoFriendshipRepository) AcceptRequest(ctx context.Context, requestID, fromUID, toUID string) error {
	friendshipID := models.FriendshipID(fromUID, toUID)
	now := time.Now()

	return runTxn(ctx, r.client, func(sc mongo.SessionContext) error {
		res, err := r.requests.UpdateOne(sc, bson.M{"_id": requestID}, bson.M{
			"$set": bson.M{"status": models.FriendRequestAccepted, "respondedAt": now},
		})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}

		friendship := models.Friendship{
			ID:        friendshipID,
			Users:     models.SortedPair(fromUID, toUID),
			CreatedAt: now,
		}
		opts := options.Replace().SetUpsert(true)
		_, err = r.friendships.ReplaceOne(sc, bson.M{"_id": friendshipID}, friendship, opts)
		return err
	})
}

// RemoveFriend deletes the edge; removing an absent edge is a no-op
func (r *MongoFriendshipRepository) RemoveFriend(ctx context.Context, uidA, uidB string) error {
	_, err := r.friendships.DeleteOne(ctx, bson.M{"_id": models.FriendshipID(uidA, uidB)})
	return err
}

// AreFriends checks for the deterministic edge
func (r *MongoFriendshipRepository) AreFriends(ctx context.Context, uidA, uidB string) (bool, error) {
	count, err := r.friendships.CountDocuments(ctx, bson.M{"_id": models.FriendshipID(uidA, uidB)})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFriendIDs lists the uids on the far side of every edge touching uid
func (r *MongoFriendshipRepository) GetFriendIDs(ctx context.Context, uid string) ([]string, error) {
	cursor, err := r.friendships.Find(ctx, bson.M{"users": uid})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var friendships []models.Friendship
	if err = cursor.All(ctx, &friendships); err != nil {
		return nil, err
	}

	friendIDs := []string{}
	for _, friendship := range friendships {
		for _, member := range friendship.Users {
			if member != uid {
				friendIDs = append(friendIDs, member)
			}
		}
	}
	return friendIDs, nil
}

// HasPendingRequestBetween checks both directions for a pending request
func (r *MongoFriendshipRepository) HasPendingRequestBetween(ctx context.Context, uidA, uidB string) (bool, error) {
	filter := bson.M{
		"status": models.FriendRequestPending,
		"$or": []bson.M{
			{"fromUid": uidA, "toUid": uidB},
			{"fromUid": uidB, "toUid": uidA},
		},
	}
	count, err := r.requests.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetIncomingRequests lists pending requests addressed to uid
func (r *MongoFriendshipRepository) GetIncomingRequests(ctx context.Context, uid string) ([]models.FriendRequest, error) {
	filter := bson.M{"toUid": uid, "status": models.FriendRequestPending}
	cursor, err := r.requests.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []models.FriendRequest{}
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// WatchIncomingRequests pushes full snapshots of uid's pending requests
func (r *MongoFriendshipRepository) WatchIncomingRequests(ctx context.Context, uid string, onChange func([]models.FriendRequest)) error {
	return watchCollection(ctx, r.requests, 0, func(ctx context.Context) error {
		requests, err := r.GetIncomingRequests(ctx, uid)
		if err != nil {
			return err
		}
		onChange(requests)
		return nil
	})
}

// WatchFriendIDs pushes full snapshots of uid's friend list
func (r *MongoFriendshipRepository) WatchFriendIDs(ctx context.Context, uid string, onChange func([]string)) error {
	return watchCollection(ctx, r.friendships, 0, func(ctx context.Context) error {
		friendIDs, err := r.GetFriendIDs(ctx, uid)
		if err != nil {
			return err
		}
		onChange(friendIDs)
		return nil
	})
}
