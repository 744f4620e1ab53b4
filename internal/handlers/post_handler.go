package handlers

import (
	"net/http"

	"github.com/anonto42/connectin/backend/internal/models"
	"github.com/anonto42/connectin/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts, their likes and comments
type PostHandler struct {
	posts *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetFeedPosts)
	g.POST("/posts/create", h.CreatePost)
	g.GET("/posts/user/id/:userId", h.GetPostsByUser)
	g.DELETE("/posts/delete/:id", h.DeletePost)
	g.GET("/posts/:id", h.GetPost)
	g.POST("/posts/:id/like", h.LikePost)
	g.POST("/posts/:id/removeLike", h.RemoveLike)
	g.POST("/posts/:id/comment", h.CreateComment)
	g.DELETE("/posts/:id/comment/:commentId", h.DeleteComment)
}

// GetFeedPosts returns the posts of the current user's connections
func (h *PostHandler) GetFeedPosts(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	posts, err := h.posts.Feed(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.CreatePost(c.Request().Context(), userID, req.Content, req.Image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	post, err := h.posts.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) GetPostsByUser(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	authorID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}

	posts, err := h.posts.ListByAuthor(c.Request().Context(), authorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// DeletePost deletes a post owned by the current user
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.posts.DeletePost(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

func (h *PostHandler) LikePost(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	post, err := h.posts.Like(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) RemoveLike(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	post, err := h.posts.Unlike(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) CreateComment(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Comment(c.Request().Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// DeleteComment removes a comment; allowed for its author and the post author
func (h *PostHandler) DeleteComment(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	post, err := h.posts.DeleteComment(c.Request().Context(), c.Param("id"), c.Param("commentId"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}
