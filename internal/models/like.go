package models

import "time"

// PostLike is one entry in the like ledger, stored in "postLikes" under the
// deterministic id postId + "_" + uid. Its existence is the sole source of
// truth for "this user likes this post".
type PostLike struct {
	ID        string    `json:"id" bson:"_id"`
	PostID    string    `json:"post_id" bson:"postId"`
	UserUID   string    `json:"user_uid" bson:"userUid"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

// LikeID builds the deterministic ledger id for a (post, user) pair.
func LikeID(postID, uid string) string {
	return postID + "_" + uid
}
