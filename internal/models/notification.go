package models

import "time"

// Notification types fanned out by likes, comments, replies and friend
// request events.
const (
	NotificationPostLiked             = "post_liked"
	NotificationPostCommented         = "post_commented"
	NotificationCommentReplied        = "comment_replied"
	NotificationFriendRequestReceived = "friend_request_received"
	NotificationFriendRequestAccepted = "friend_request_accepted"
)

// Notification is a fan-out record in the "notifications" collection.
// Records are never created when the actor is the recipient.
type Notification struct {
	ID           string    `json:"id" bson:"_id"`
	RecipientUID string    `json:"recipient_uid" bson:"recipientUid"`
	ActorUID     string    `json:"actor_uid" bson:"actorUid"`
	Type         string    `json:"type" bson:"type"`
	PostID       string    `json:"post_id" bson:"postId"`
	CommentID    string    `json:"comment_id" bson:"commentId"`
	Read         bool      `json:"read" bson:"read"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
}
