package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/connectin/backend/internal/models"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations.
// Likes and comments are modified with single-document atomic updates.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Post, error)
	GetPostsByAuthors(ctx context.Context, authorIDs []uint) ([]models.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, postID primitive.ObjectID, userID uint) (bool, error)
	RemoveLike(ctx context.Context, postID primitive.ObjectID, userID uint) (bool, error)
	AddComment(ctx context.Context, postID primitive.ObjectID, comment *models.Comment) (*models.Post, error)
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the indexes used by the feed and author queries.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []uint{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return apperrors.Internal(err, "failed to create post")
	}
	return nil
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Internal(err, "failed to load post")
	}
	return &post, nil
}

// GetPostsByIDs resolves a batch of posts; missing ids are absent from the map.
func (r *MongoPostRepository) GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Post, error) {
	result := make(map[primitive.ObjectID]models.Post, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	posts, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		result[p.ID] = p
	}
	return result, nil
}

// GetPostsByAuthors retrieves posts written by any of the given users, newest first
func (r *MongoPostRepository) GetPostsByAuthors(ctx context.Context, authorIDs []uint) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	return r.find(ctx, bson.M{"author": bson.M{"$in": authorIDs}})
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to query posts")
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, apperrors.Internal(err, "failed to decode posts")
	}
	return posts, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Internal(err, "failed to delete post")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("post not found")
	}
	return nil
}

// AddLike adds userID to the like set. It reports whether the set changed.
func (r *MongoPostRepository) AddLike(ctx context.Context, postID primitive.ObjectID, userID uint) (bool, error) {
	return r.updateLikes(ctx, postID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// RemoveLike removes userID from the like set. It reports whether the set changed.
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID primitive.ObjectID, userID uint) (bool, error) {
	return r.updateLikes(ctx, postID, bson.M{"$pull": bson.M{"likes": userID}})
}

func (r *MongoPostRepository) updateLikes(ctx context.Context, postID primitive.ObjectID, update bson.M) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return false, apperrors.Internal(err, "failed to update likes")
	}
	if res.MatchedCount == 0 {
		return false, apperrors.NotFound("post not found")
	}
	return res.ModifiedCount > 0, nil
}

// AddComment appends a comment and returns the updated post.
func (r *MongoPostRepository) AddComment(ctx context.Context, postID primitive.ObjectID, comment *models.Comment) (*models.Post, error) {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now().UTC()

	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Internal(err, "failed to add comment")
	}
	return &post, nil
}

// RemoveComment pulls a comment by id.
func (r *MongoPostRepository) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}},
	)
	if err != nil {
		return apperrors.Internal(err, "failed to remove comment")
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("post not found")
	}
	if res.ModifiedCount == 0 {
		return apperrors.NotFound("comment not found")
	}
	return nil
}
