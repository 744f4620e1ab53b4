package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/connectin/backend/internal/models"
	"github.com/anonto42/connectin/backend/internal/repositories"
	"github.com/anonto42/connectin/backend/internal/security"
	"github.com/anonto42/connectin/backend/internal/services"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/labstack/echo/v4"
)

const suggestionLimit = 3

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository       repositories.UserRepository
	connectionRepository repositories.ConnectionRepository
	images               *services.Images
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, connRepo repositories.ConnectionRepository, images *services.Images) *UserHandler {
	return &UserHandler{
		userRepository:       userRepo,
		connectionRepository: connRepo,
		images:               images,
	}
}

// RegisterUserRoutes registers user profile-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/suggestions", h.GetSuggestedConnections)
	g.GET("/users/:username", h.GetPublicProfile)
	g.PUT("/users/profile", h.UpdateProfile)
}

// GetSuggestedConnections returns a few users the current user is not connected to
func (h *UserHandler) GetSuggestedConnections(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	users, err := h.userRepository.GetSuggestions(c.Request().Context(), userID, suggestionLimit)
	if err != nil {
		return err
	}
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) GetPublicProfile(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return err
	}
	if user.Connections, err = h.connectionRepository.GetConnectionIDs(ctx, user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the fields present in the request body
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if req.Name != nil {
		user.Name = security.SanitizeText(*req.Name)
	}
	if req.Headline != nil {
		user.Headline = security.SanitizeText(*req.Headline)
	}
	if req.About != nil {
		user.About = security.SanitizeText(*req.About)
	}
	if req.Location != nil {
		user.Location = security.SanitizeText(*req.Location)
	}
	if req.Skills != nil {
		user.Skills = req.Skills
	}
	if req.Experience != nil {
		user.Experience = req.Experience
	}
	if req.Education != nil {
		user.Education = req.Education
	}

	// old images are removed only after the user row is saved; images
	// uploaded by this request are removed if it fails
	var replaced, uploaded []string
	discardUploads := func() {
		for _, url := range uploaded {
			h.images.Delete(ctx, url)
		}
	}
	setImage := func(field *string, value string) error {
		old := *field
		next, err := h.replaceImage(ctx, old, value)
		if err != nil {
			return err
		}
		if next != old {
			if strings.HasPrefix(value, "data:") {
				uploaded = append(uploaded, next)
			}
			replaced = append(replaced, old)
		}
		*field = next
		return nil
	}

	if req.ProfilePicture != nil {
		if err := setImage(&user.ProfilePicture, *req.ProfilePicture); err != nil {
			return err
		}
	}
	if req.BannerImg != nil {
		if err := setImage(&user.BannerImg, *req.BannerImg); err != nil {
			discardUploads()
			return err
		}
	}

	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		discardUploads()
		return err
	}
	for _, url := range replaced {
		h.images.Delete(ctx, url)
	}

	if user.Connections, err = h.connectionRepository.GetConnectionIDs(ctx, user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// replaceImage resolves the new value of an image field: a data URL is
// uploaded, an empty string clears it and the current URL keeps it.
func (h *UserHandler) replaceImage(ctx context.Context, current, value string) (string, error) {
	switch {
	case value == "" || value == current:
		return value, nil
	case strings.HasPrefix(value, "data:"):
		return h.images.Upload(ctx, value)
	default:
		return "", apperrors.Validation("images must be sent as data URLs")
	}
}
