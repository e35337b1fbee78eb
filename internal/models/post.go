package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a social media post stored in MongoDB. Likes, comments and
// sub-comments are embedded in the document; deletion is a soft flag.
type Post struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     uint               `json:"user_id" bson:"user_id"`
	Text       string             `json:"text" bson:"text"`
	Images     []string           `json:"images,omitempty" bson:"images,omitempty"`
	Video      string             `json:"video,omitempty" bson:"video,omitempty"`
	IsPublic   bool               `json:"is_public" bson:"is_public"`
	Hashtags   []string           `json:"hashtags,omitempty" bson:"hashtags,omitempty"`
	FriendTags []uint             `json:"friend_tags,omitempty" bson:"friend_tags,omitempty"`
	Likes      []uint             `json:"likes" bson:"likes"`
	Comments   []Comment          `json:"comments" bson:"comments"`
	IsDeleted  bool               `json:"is_deleted" bson:"is_deleted"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// Comment is embedded in a post and addressable by its ObjectID
type Comment struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	UserID      uint               `json:"user_id" bson:"user_id"`
	Text        string             `json:"text" bson:"text"`
	SubComments []SubComment       `json:"sub_comments" bson:"sub_comments"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// SubComment is embedded in a comment, append-only
type SubComment struct {
	UserID    uint      `json:"user_id" bson:"user_id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	PostID string `json:"post_id" validate:"required"`
	Text   string `json:"text" validate:"required,min=1,max=500"`
}

// CreateSubCommentRequest defines the request body for replying to a comment
type CreateSubCommentRequest struct {
	PostID    string `json:"post_id" validate:"required"`
	CommentID string `json:"comment_id" validate:"required"`
	Text      string `json:"text" validate:"required,min=1,max=500"`
}

// UpdatePostRequest defines the editable subset of post fields. Nil fields
// are left untouched.
type UpdatePostRequest struct {
	Text       *string  `json:"text,omitempty" validate:"omitempty,min=1"`
	IsPublic   *bool    `json:"is_public,omitempty"`
	Hashtags   []string `json:"hashtags,omitempty"`
	FriendTags []uint   `json:"friend_tags,omitempty"`
}

// EnrichedPost is a post annotated with viewer-specific state
type EnrichedPost struct {
	Post
	IsLiked bool `json:"is_liked"`
}
