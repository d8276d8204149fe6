package repositories

import (
	"context"
	"time"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/derekink/postcard/backend/pkg/address"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines the interface for profile and address registry
// operations
type UserRepository interface {
	CreateInitialProfile(ctx context.Context, uid, email, displayName, handle string) error
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	GetUIDByAddress(ctx context.Context, handle string) (string, error)
	GetProfileByAddress(ctx context.Context, handle string) (*models.UserProfile, error)
	IsAddressAvailable(ctx context.Context, handle string) (bool, error)
	UpdateProfileFields(ctx context.Context, uid string, req *models.UpdateProfileRequest) error
	ChangeAddress(ctx context.Context, uid, requested string) error
	DeleteProfile(ctx context.Context, uid string) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	users     *mongo.Collection
	addresses *mongo.Collection
	client    *mongo.Client
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		users:     db.Collection("users"),
		addresses: db.Collection("addresses"),
		client:    db.Client(),
	}
}

// CreateInitialProfile writes the profile and its address reservation in one
// transaction: either both documents exist afterwards or neither does.
func (r *MongoUserRepository) CreateInitialProfile(ctx context.Context, uid, email, displayName, handle string) error {
	normalized := address.Normalize(handle)

	err := runTxn(ctx, r.client, func(sc mongo.SessionContext) error {
		count, err := r.addresses.CountDocuments(sc, bson.M{"_id": normalized})
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAddressTaken
		}

		now := time.Now()
		profile := models.UserProfile{
			UID:                  uid,
			Email:                email,
			DisplayName:          displayName,
			Address:              normalized,
			Theme:                models.DefaultTheme,
			PostCount:            0,
			TotalLikesReceived:   0,
			AddressLastChangedAt: nil,
			EmailVerified:        false,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if _, err := r.users.InsertOne(sc, profile); err != nil {
			return err
		}

		reservation := models.AddressReservation{Handle: normalized, UID: uid, CreatedAt: now}
		_, err = r.addresses.InsertOne(sc, reservation)
		return err
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrAddressTaken
	}
	return err
}

// GetProfile retrieves a profile by uid
func (r *MongoUserRepository) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetUIDByAddress resolves a handle to the owning uid
func (r *MongoUserRepository) GetUIDByAddress(ctx context.Context, handle string) (string, error) {
	var reservation models.AddressReservation
	err := r.addresses.FindOne(ctx, bson.M{"_id": address.Normalize(handle)}).Decode(&reservation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrNotFound
		}
		return "", err
	}
	return reservation.UID, nil
}

// GetProfileByAddress retrieves a profile by its current handle
func (r *MongoUserRepository) GetProfileByAddress(ctx context.Context, handle string) (*models.UserProfile, error) {
	uid, err := r.GetUIDByAddress(ctx, handle)
	if err != nil {
		return nil, err
	}
	return r.GetProfile(ctx, uid)
}

// IsAddressAvailable reports whether no reservation exists for the handle
func (r *MongoUserRepository) IsAddressAvailable(ctx context.Context, handle string) (bool, error) {
	count, err := r.addresses.CountDocuments(ctx, bson.M{"_id": address.Normalize(handle)})
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// UpdateProfileFields applies a partial update to the mutable display fields.
// The address is excluded here; it only moves through ChangeAddress.
func (r *MongoUserRepository) UpdateProfileFields(ctx context.Context, uid string, req *models.UpdateProfileRequest) error {
	set := bson.M{"updatedAt": time.Now()}
	if req.DisplayName != nil {
		set["displayName"] = *req.DisplayName
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.PhotoURL != nil {
		set["photoUrl"] = *req.PhotoURL
	}
	if req.BackgroundURL != nil {
		set["backgroundUrl"] = *req.BackgroundURL
	}
	if req.Theme != nil {
		set["theme"] = models.ResolveTheme(*req.Theme)
	}

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ChangeAddress moves a profile to a new handle in one transaction: reserve
// the new handle, update the profile, release the old handle. A request for
// the current handle is a no-op; a request inside the cooldown window fails
// with CooldownError and performs no writes.
func (r *MongoUserRepository) ChangeAddress(ctx context.Context, uid, requested string) error {
	normalized := address.Normalize(requested)

	err := runTxn(ctx, r.client, func(sc mongo.SessionContext) error {
		var profile models.UserProfile
		if err := r.users.FindOne(sc, bson.M{"_id": uid}).Decode(&profile); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return err
		}

		current := address.Normalize(profile.Address)
		if current == normalized {
			return nil
		}

		now := time.Now()
		if !address.CanChange(profile.AddressLastChangedAt, now) {
			return &CooldownError{NextAllowedAt: address.NextChangeAt(*profile.AddressLastChangedAt)}
		}

		count, err := r.addresses.CountDocuments(sc, bson.M{"_id": normalized})
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAddressTaken
		}

		reservation := models.AddressReservation{Handle: normalized, UID: uid, CreatedAt: now}
		if _, err := r.addresses.InsertOne(sc, reservation); err != nil {
			return err
		}

		update := bson.M{"$set": bson.M{
			"address":              normalized,
			"addressLastChangedAt": now,
			"updatedAt":            now,
		}}
		if _, err := r.users.UpdateOne(sc, bson.M{"_id": uid}, update); err != nil {
			return err
		}

		_, err = r.addresses.DeleteOne(sc, bson.M{"_id": current})
		return err
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrAddressTaken
	}
	return err
}

// DeleteProfile removes the profile and its reservation together. Used only
// by the signup cleanup path when the auth account could not be kept.
func (r *MongoUserRepository) DeleteProfile(ctx context.Context, uid string) error {
	return runTxn(ctx, r.client, func(sc mongo.SessionContext) error {
		var profile models.UserProfile
		if err := r.users.FindOne(sc, bson.M{"_id": uid}).Decode(&profile); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil
			}
			return err
		}
		if _, err := r.addresses.DeleteOne(sc, bson.M{"_id": profile.Address}); err != nil {
			return err
		}
		_, err := r.users.DeleteOne(sc, bson.M{"_id": uid})
		return err
	})
}
