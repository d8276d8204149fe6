package models

import (
	"sort"
	"time"
)

// Friend request states. Rejected requests are simply deleted, so only two
// states are persisted.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
)

// FriendRequest represents a pending or accepted friend request
type FriendRequest struct {
	ID          string     `json:"id" bson:"_id"`
	FromUID     string     `json:"from_uid" bson:"fromUid"`
	ToUID       string     `json:"to_uid" bson:"toUid"`
	Status      string     `json:"status" bson:"status"`
	CreatedAt   time.Time  `json:"created_at" bson:"createdAt"`
	RespondedAt *time.Time `json:"responded_at" bson:"respondedAt"`
}

// Friendship is the symmetric edge stored in "friendships" under the sorted
// pair id, so repeated accepts in either direction collapse onto one record.
type Friendship struct {
	ID        string    `json:"id" bson:"_id"`
	Users     []string  `json:"users" bson:"users"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

// FriendshipID builds the deterministic edge id for an unordered pair.
func FriendshipID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + "_" + pair[1]
}

// SortedPair returns the two uids in id order.
func SortedPair(a, b string) []string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair
}

// SendFriendRequestBody defines the request body for sending a friend request
type SendFriendRequestBody struct {
	ToUID string `json:"to_uid" validate:"required"`
}
