package models

import "time"

// CommentMaxLength caps comment content.
const CommentMaxLength = 500

// Comment represents a comment in the "comments" collection. Threading is
// one level deep: parentCommentId is "" for roots, and rootCommentId always
// points at the top of the chain. The three removal flags are independent;
// a removed parent does not cascade to its replies.
type Comment struct {
	ID                 string    `json:"id" bson:"_id"`
	PostID             string    `json:"post_id" bson:"postId"`
	AuthorUID          string    `json:"author_uid" bson:"authorUid"`
	AuthorAddress      string    `json:"author_address" bson:"authorAddress"`
	Content            string    `json:"content" bson:"content"`
	ParentCommentID    string    `json:"parent_comment_id" bson:"parentCommentId"`
	RootCommentID      string    `json:"root_comment_id" bson:"rootCommentId"`
	ReplyCount         int       `json:"reply_count" bson:"replyCount"`
	HiddenByPostOwner  bool      `json:"hidden_by_post_owner" bson:"hiddenByPostOwner"`
	DeletedByAuthor    bool      `json:"deleted_by_author" bson:"deletedByAuthor"`
	DeletedByPostOwner bool      `json:"deleted_by_post_owner" bson:"deletedByPostOwner"`
	CreatedAt          time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updatedAt"`
}

// Visible reports whether any reader may see the comment.
func (c Comment) Visible() bool {
	return !c.DeletedByAuthor && !c.DeletedByPostOwner && !c.HiddenByPostOwner
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=500"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
}

// CommentThread groups a post's visible comments: roots in creation order
// plus replies keyed by their immediate parent, also in creation order.
type CommentThread struct {
	Roots             []Comment            `json:"roots"`
	RepliesByParentID map[string][]Comment `json:"replies_by_parent_id"`
}
