package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/connectin/backend/internal/models"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStore is an in-memory PostRepository with the same set semantics as
// the Mongo $addToSet / $pull updates.
type PostStore struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
}

func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (s *PostStore) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	stored := clonePost(post)
	s.posts[post.ID] = &stored
	return nil
}

func (s *PostStore) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	out := clonePost(p)
	return &out, nil
}

func (s *PostStore) GetPostsByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[primitive.ObjectID]models.Post, len(ids))
	for _, id := range ids {
		if p, ok := s.posts[id]; ok {
			out[id] = clonePost(p)
		}
	}
	return out, nil
}

func (s *PostStore) GetPostsByAuthors(_ context.Context, authorIDs []uint) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	authors := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}
	out := []models.Post{}
	for _, p := range s.posts {
		if authors[p.AuthorID] {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *PostStore) DeletePost(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return apperrors.NotFound("post not found")
	}
	delete(s.posts, id)
	return nil
}

func (s *PostStore) AddLike(_ context.Context, postID primitive.ObjectID, userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return false, apperrors.NotFound("post not found")
	}
	if p.HasLike(userID) {
		return false, nil
	}
	p.Likes = append(p.Likes, userID)
	return true, nil
}

func (s *PostStore) RemoveLike(_ context.Context, postID primitive.ObjectID, userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return false, apperrors.NotFound("post not found")
	}
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *PostStore) AddComment(_ context.Context, postID primitive.ObjectID, comment *models.Comment) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now().UTC()
	p.Comments = append(p.Comments, *comment)
	out := clonePost(p)
	return &out, nil
}

func (s *PostStore) RemoveComment(_ context.Context, postID, commentID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return apperrors.NotFound("post not found")
	}
	for i, c := range p.Comments {
		if c.ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("comment not found")
}

func clonePost(p *models.Post) models.Post {
	out := *p
	out.Likes = append([]uint{}, p.Likes...)
	out.Comments = append([]models.Comment{}, p.Comments...)
	return out
}
