package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID  uint               `json:"author_id" bson:"author"`
	Content   string             `json:"content" bson:"content"`
	Image     string             `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []uint             `json:"likes" bson:"likes"`
	Comments  []Comment          `json:"comments" bson:"comments"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Comment is embedded in its post and only appended or removed as a whole.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    uint               `json:"user_id" bson:"user"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

func (p *Post) HasLike(userID uint) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

func (p *Post) FindComment(commentID primitive.ObjectID) (*Comment, bool) {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i], true
		}
	}
	return nil, false
}

// PostCompact is the post summary shown inside a notification.
type PostCompact struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

func (p *Post) ToCompact() PostCompact {
	return PostCompact{ID: p.ID.Hex(), Content: p.Content, Image: p.Image}
}

// PostView is a post with its author and comment authors populated.
type PostView struct {
	ID        string        `json:"id"`
	Author    UserCompact   `json:"author"`
	Content   string        `json:"content"`
	Image     string        `json:"image,omitempty"`
	Likes     []uint        `json:"likes"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"created_at"`
}

type CommentView struct {
	ID        string      `json:"id"`
	User      UserCompact `json:"user"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post.
// At least one of content or image is required.
type CreatePostRequest struct {
	Content string `json:"content" validate:"max=3000"`
	Image   string `json:"image,omitempty"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}
