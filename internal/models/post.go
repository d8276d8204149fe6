package models

import "time"

// PostMaxLength caps postcard content.
const PostMaxLength = 280

// Post represents a postcard stored in the "posts" collection. authorAddress
// is a snapshot taken at write time and is not refreshed when the author
// later changes their handle. likeCount is a cached aggregate of the
// postLikes ledger and moves in lockstep with it inside transactions.
type Post struct {
	ID            string    `json:"id" bson:"_id"`
	AuthorUID     string    `json:"author_uid" bson:"authorUid"`
	AuthorAddress string    `json:"author_address" bson:"authorAddress"`
	Content       string    `json:"content" bson:"content"`
	LikeCount     int       `json:"like_count" bson:"likeCount"`
	Deleted       bool      `json:"deleted" bson:"deleted"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updatedAt"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=280"`
}
