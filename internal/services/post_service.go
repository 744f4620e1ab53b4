package services

import (
	"context"

	"github.com/anonto42/connectin/backend/internal/models"
	"github.com/anonto42/connectin/backend/internal/repositories"
	"github.com/anonto42/connectin/backend/internal/security"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/anonto42/connectin/backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostService struct {
	posts    repositories.PostRepository
	users    repositories.UserRepository
	conns    repositories.ConnectionRepository
	notifier *NotificationService
	images   *Images
}

func NewPostService(
	posts repositories.PostRepository,
	users repositories.UserRepository,
	conns repositories.ConnectionRepository,
	notifier *NotificationService,
	images *Images,
) *PostService {
	return &PostService{
		posts:    posts,
		users:    users,
		conns:    conns,
		notifier: notifier,
		images:   images,
	}
}

// CreatePost stores a post with content, an image, or both. When the image
// upload fails the post is kept without it, unless it would then be empty.
func (s *PostService) CreatePost(ctx context.Context, author uint, content, imageDataURL string) (*models.PostView, error) {
	content = security.SanitizeText(content)
	if content == "" && imageDataURL == "" {
		return nil, apperrors.Validation("post must have content or an image")
	}

	post := &models.Post{AuthorID: author, Content: content}
	if imageDataURL != "" {
		url, err := s.images.Upload(ctx, imageDataURL)
		if err != nil {
			if content == "" {
				return nil, err
			}
			logger.Warn("Creating post without image", "author_id", author, "error", err)
		}
		post.Image = url
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

// Feed returns the posts written by the viewer's connections, newest first.
func (s *PostService) Feed(ctx context.Context, viewer uint) ([]models.PostView, error) {
	ids, err := s.conns.GetConnectionIDs(ctx, viewer)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.GetPostsByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, posts)
}

func (s *PostService) ListByAuthor(ctx context.Context, author uint) ([]models.PostView, error) {
	if _, err := s.users.GetUserByID(ctx, author); err != nil {
		return nil, err
	}
	posts, err := s.posts.GetPostsByAuthors(ctx, []uint{author})
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, posts)
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*models.PostView, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

// DeletePost removes the post, then its stored image.
func (s *PostService) DeletePost(ctx context.Context, postID string, actor uint) error {
	post, err := s.load(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor {
		return apperrors.Forbidden("you are not authorized to delete this post")
	}
	if err := s.posts.DeletePost(ctx, post.ID); err != nil {
		return err
	}
	s.images.Delete(ctx, post.Image)
	return nil
}

// Like adds the actor to the post's likes. Only a like that changed the set
// notifies the author.
func (s *PostService) Like(ctx context.Context, postID string, actor uint) (*models.PostView, error) {
	oid, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}
	added, err := s.posts.AddLike(ctx, oid, actor)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	if added {
		if _, err := s.notifier.Emit(ctx, Event{
			Type:        models.NotificationTypeLike,
			Recipients:  []uint{post.AuthorID},
			RelatedUser: actor,
			RelatedPost: post.ID.Hex(),
		}); err != nil {
			logger.Error("Failed to emit like notification", "post_id", post.ID.Hex(), "error", err)
		}
	}
	return s.view(ctx, post)
}

func (s *PostService) Unlike(ctx context.Context, postID string, actor uint) (*models.PostView, error) {
	oid, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.RemoveLike(ctx, oid, actor); err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

// Comment appends a comment and notifies the post author. The comment is
// kept even when the notification cannot be stored.
func (s *PostService) Comment(ctx context.Context, postID string, actor uint, content string) (*models.PostView, error) {
	oid, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}
	content = security.SanitizeText(content)
	if content == "" {
		return nil, apperrors.Validation("comment content is required")
	}

	post, err := s.posts.AddComment(ctx, oid, &models.Comment{UserID: actor, Content: content})
	if err != nil {
		return nil, err
	}

	if _, err := s.notifier.Emit(ctx, Event{
		Type:        models.NotificationTypeComment,
		Recipients:  []uint{post.AuthorID},
		RelatedUser: actor,
		RelatedPost: post.ID.Hex(),
		Excerpt:     content,
	}); err != nil {
		logger.Error("Failed to emit comment notification", "post_id", post.ID.Hex(), "error", err)
	}
	return s.view(ctx, post)
}

// DeleteComment is allowed for the comment author and the post author.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID string, actor uint) (*models.PostView, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, apperrors.NotFound("comment not found")
	}
	comment, ok := post.FindComment(cid)
	if !ok {
		return nil, apperrors.NotFound("comment not found")
	}
	if comment.UserID != actor && post.AuthorID != actor {
		return nil, apperrors.Forbidden("you are not authorized to delete this comment")
	}

	if err := s.posts.RemoveComment(ctx, post.ID, cid); err != nil {
		return nil, err
	}
	updated, err := s.posts.GetPostByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, updated)
}

func (s *PostService) load(ctx context.Context, postID string) (*models.Post, error) {
	oid, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}
	return s.posts.GetPostByID(ctx, oid)
}

func (s *PostService) view(ctx context.Context, post *models.Post) (*models.PostView, error) {
	views, err := s.populate(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// populate resolves post authors and comment users in one lookup.
func (s *PostService) populate(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	var ids []uint
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
		for _, c := range p.Comments {
			ids = append(ids, c.UserID)
		}
	}
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	compact := func(id uint) models.UserCompact {
		if u, ok := users[id]; ok {
			return u.ToCompact()
		}
		return models.UserCompact{ID: id}
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		comments := make([]models.CommentView, 0, len(p.Comments))
		for _, c := range p.Comments {
			comments = append(comments, models.CommentView{
				ID:        c.ID.Hex(),
				User:      compact(c.UserID),
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
			})
		}
		likes := p.Likes
		if likes == nil {
			likes = []uint{}
		}
		views = append(views, models.PostView{
			ID:        p.ID.Hex(),
			Author:    compact(p.AuthorID),
			Content:   p.Content,
			Image:     p.Image,
			Likes:     likes,
			Comments:  comments,
			CreatedAt: p.CreatedAt,
		})
	}
	return views, nil
}

func parsePostID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.NotFound("post not found")
	}
	return oid, nil
}
