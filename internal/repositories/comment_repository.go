package repositories

import (
	"context"
	"sort"
	"time"

	"github.com/derekink/postcard/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateCommentParams collects the inputs for a new comment or reply
type CreateCommentParams struct {
	ActorUID        string
	ActorAddress    string
	PostID          string
	Content         string
	ParentCommentID string
}

// CreatedComment carries the inserted comment plus the uids the caller needs
// for notification fan-out after the write.
type CreatedComment struct {
	Comment         *models.Comment
	PostAuthorUID   string
	ParentAuthorUID string
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, params CreateCommentParams) (*CreatedComment, error)
	GetThread(ctx context.Context, postID string) (*models.CommentThread, error)
	DeleteOwnComment(ctx context.Context, commentID, actorUID string) error
	HideForPostOwner(ctx context.Context, commentID, actorUID string) error
	DeleteForPostOwner(ctx context.Context, commentID, actorUID string) error
	WatchThread(ctx context.Context, postID string, onChange func(*models.CommentThread)) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	comments *mongo.Collection
	posts    *mongo.Collection
	client   *mongo.Client
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{
		comments: db.Collection("comments"),
		posts:    db.Collection("posts"),
		client:   db.Client(),
	}
}

// CreateComment resolves the target post (and, for replies, the parent
// comment) before inserting. Replies must point at a visible parent on the
// same post; the parent's visibility is checked at creation time only.
func (r *MongoCommentRepository) CreateComment(ctx context.Context, params CreateCommentParams) (*CreatedComment, error) {
	var post models.Post
	if err := r.posts.FindOne(ctx, bson.M{"_id": params.PostID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.Deleted {
		return nil, ErrGone
	}

	var parent *models.Comment
	if params.ParentCommentID != "" {
		var parentComment models.Comment
		if err := r.comments.FindOne(ctx, bson.M{"_id": params.ParentCommentID}).Decode(&parentComment); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if parentComment.PostID != params.PostID {
			return nil, ErrWrongPost
		}
		if !parentComment.Visible() {
			return nil, ErrGone
		}
		parent = &parentComment
	}

	now := time.Now()
	comment := &models.Comment{
		ID:            primitive.NewObjectID().Hex(),
		PostID:        params.PostID,
		AuthorUID:     params.ActorUID,
		AuthorAddress: params.ActorAddress,
		Content:       params.Content,
		ReplyCount:    0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if parent != nil {
		comment.ParentCommentID = parent.ID
		comment.RootCommentID = parent.RootCommentID
		if comment.RootCommentID == "" {
			comment.RootCommentID = parent.ID
		}
	} else {
		comment.RootCommentID = comment.ID
	}

	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		return nil, err
	}

	created := &CreatedComment{Comment: comment, PostAuthorUID: post.AuthorUID}
	if parent != nil {
		created.ParentAuthorUID = parent.AuthorUID
	}
	return created, nil
}

// BuildCommentThread groups visible comments into roots plus replies keyed
// by their immediate parent, each sorted by creation time ascending. The
// removal flags are independent per comment: a reply stays visible under a
// hidden or deleted parent.
func BuildCommentThread(comments []models.Comment) *models.CommentThread {
	thread := &models.CommentThread{
		Roots:             []models.Comment{},
		RepliesByParentID: map[string][]models.Comment{},
	}

	for _, comment := range comments {
		if !comment.Visible() {
			continue
		}
		if comment.ParentCommentID == "" {
			thread.Roots = append(thread.Roots, comment)
		} else {
			thread.RepliesByParentID[comment.ParentCommentID] = append(thread.RepliesByParentID[comment.ParentCommentID], comment)
		}
	}

	sortByCreatedAscending(thread.Roots)
	for _, replies := range thread.RepliesByParentID {
		sortByCreatedAscending(replies)
	}
	return thread
}

func sortByCreatedAscending(comments []models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
}

// GetThread returns the visible comment thread for a post
func (r *MongoCommentRepository) GetThread(ctx context.Context, postID string) (*models.CommentThread, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.comments.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return BuildCommentThread(comments), nil
}

// DeleteOwnComment sets deletedByAuthor; only the comment's author may.
// Repeating the call once the flag is set has no further effect.
func (r *MongoCommentRepository) DeleteOwnComment(ctx context.Context, commentID, actorUID string) error {
	return runTxn(ctx, r.client, func(sc mongo.SessionContext) error {
		var comment models.Comment
		if err := r.comments.FindOne(sc, bson.M{"_id": commentID}).Decode(&comment); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return err
		}

		if comment.AuthorUID != actorUID {
			return ErrForbidden
		}
		if comment.DeletedByAuthor {
			return nil
		}

		_, err := r.comments.UpdateOne(sc, bson.M{"_id": commentID}, bson.M{
			"$set": bson.M{"deletedByAuthor": true, "updatedAt": time.Now()},
		})
		return err
	})
}

// setFlagForPostOwner re-derives the comment's post inside the transaction
// and verifies the actor authored that post before setting the flag.
func (r *MongoCommentRepository) setFlagForPostOwner(ctx context.Context, commentID, actorUID, flag string) error {
	return runTxn(ctx, r.client, func(sc mongo.SessionContext) error {
		var comment models.Comment
		if err := r.comments.FindOne(sc, bson.M{"_id": commentID}).Decode(&comment); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return err
		}

		var post models.Post
		if err := r.posts.FindOne(sc, bson.M{"_id": comment.PostID}).Decode(&post); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return err
		}

		if post.AuthorUID != actorUID {
			return ErrForbidden
		}

		_, err := r.comments.UpdateOne(sc, bson.M{"_id": commentID}, bson.M{
			"$set": bson.M{flag: true, "updatedAt": time.Now()},
		})
		return err
	})
}

// HideForPostOwner sets hiddenByPostOwner; only the post's author may.
func (r *MongoCommentRepository) HideForPostOwner(ctx context.Context, commentID, actorUID string) error {
	return r.setFlagForPostOwner(ctx, commentID, actorUID, "hiddenByPostOwner")
}

// DeleteForPostOwner sets deletedByPostOwner; only the post's author may.
func (r *MongoCommentRepository) DeleteForPostOwner(ctx context.Context, commentID, actorUID string) error {
	return r.setFlagForPostOwner(ctx, commentID, actorUID, "deletedByPostOwner")
}

// WatchThread pushes full snapshots of a post's visible thread until ctx is
// cancelled.
func (r *MongoCommentRepository) WatchThread(ctx context.Context, postID string, onChange func(*models.CommentThread)) error {
	return watchCollection(ctx, r.comments, 0, func(ctx context.Context) error {
		thread, err := r.GetThread(ctx, postID)
		if err != nil {
			return err
		}
		onChange(thread)
		return nil
	})
}
