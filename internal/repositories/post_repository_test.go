package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/anonto42/connectin/backend/internal/models"
	"github.com/anonto42/connectin/backend/internal/repositories"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newMongoPostRepository connects to CONNECTIN_TEST_MONGO_URI and returns a
// repository backed by a throwaway database.
func newMongoPostRepository(t *testing.T) *repositories.MongoPostRepository {
	t.Helper()

	uri := os.Getenv("CONNECTIN_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CONNECTIN_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("connectin_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	repo := repositories.NewMongoPostRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))
	return repo
}

func TestMongoPostRepository_LikesChangeOnce(t *testing.T) {
	ctx := context.Background()
	repo := newMongoPostRepository(t)

	post := &models.Post{AuthorID: 1, Content: "Hello"}
	require.NoError(t, repo.CreatePost(ctx, post))

	changed, err := repo.AddLike(ctx, post.ID, 2)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = repo.AddLike(ctx, post.ID, 2)
	require.NoError(t, err)
	assert.False(t, changed, "a repeated like must not report a change")

	stored, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, stored.Likes)

	changed, err = repo.RemoveLike(ctx, post.ID, 2)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = repo.RemoveLike(ctx, post.ID, 2)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = repo.AddLike(ctx, primitive.NewObjectID(), 2)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestMongoPostRepository_Comments(t *testing.T) {
	ctx := context.Background()
	repo := newMongoPostRepository(t)

	post := &models.Post{AuthorID: 1, Content: "Hello"}
	require.NoError(t, repo.CreatePost(ctx, post))

	updated, err := repo.AddComment(ctx, post.ID, &models.Comment{UserID: 2, Content: "Nice!"})
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	commentID := updated.Comments[0].ID
	assert.Equal(t, "Nice!", updated.Comments[0].Content)

	require.NoError(t, repo.RemoveComment(ctx, post.ID, commentID))
	err = repo.RemoveComment(ctx, post.ID, commentID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	_, err = repo.AddComment(ctx, primitive.NewObjectID(), &models.Comment{UserID: 2, Content: "lost"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestMongoPostRepository_QueriesAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newMongoPostRepository(t)

	first := &models.Post{AuthorID: 1, Content: "first"}
	require.NoError(t, repo.CreatePost(ctx, first))
	time.Sleep(5 * time.Millisecond)
	second := &models.Post{AuthorID: 2, Content: "second"}
	require.NoError(t, repo.CreatePost(ctx, second))
	require.NoError(t, repo.CreatePost(ctx, &models.Post{AuthorID: 3, Content: "other"}))

	posts, err := repo.GetPostsByAuthors(ctx, []uint{1, 2})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	byID, err := repo.GetPostsByIDs(ctx, []primitive.ObjectID{first.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
	assert.Equal(t, "first", byID[first.ID].Content)

	require.NoError(t, repo.DeletePost(ctx, first.ID))
	assert.True(t, apperrors.HasCode(repo.DeletePost(ctx, first.ID), apperrors.ErrCodeNotFound))
	_, err = repo.GetPostByID(ctx, first.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}
