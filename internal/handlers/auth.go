package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/connectin/backend/internal/middleware"
	"github.com/anonto42/connectin/backend/internal/models"
	"github.com/anonto42/connectin/backend/internal/repositories"
	"github.com/anonto42/connectin/backend/internal/services"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/anonto42/connectin/backend/pkg/firebase"
	"github.com/anonto42/connectin/backend/pkg/logger"
	"github.com/anonto42/connectin/backend/pkg/mailer"
	"github.com/anonto42/connectin/backend/pkg/metrics"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

// AuthConfig carries the settings AuthHandler needs from the process config.
type AuthConfig struct {
	JWTSecret    string
	ClientURL    string
	SecureCookie bool
}

// IdentityVerifier checks third-party ID tokens for social sign-in.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*firebase.Identity, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository       repositories.UserRepository
	connectionRepository repositories.ConnectionRepository
	identities           IdentityVerifier
	email                services.EmailNotifier
	cfg                  AuthConfig
}

// NewAuthHandler creates a new AuthHandler. identities may be nil, in which
// case Firebase login is not offered.
func NewAuthHandler(
	userRepo repositories.UserRepository,
	connRepo repositories.ConnectionRepository,
	identities IdentityVerifier,
	email services.EmailNotifier,
	cfg AuthConfig,
) *AuthHandler {
	return &AuthHandler{
		userRepository:       userRepo,
		connectionRepository: connRepo,
		identities:           identities,
		email:                email,
		cfg:                  cfg,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.GetCurrentUser, requireAuth)
	if h.identities != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

// Signup handles local user registration
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	req.Email = strings.ToLower(req.Email)
	ctx := c.Request().Context()

	if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return apperrors.New(apperrors.ErrCodeAlreadyExists, "Email already exists")
	} else if !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		return err
	}
	if _, err := h.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return apperrors.New(apperrors.ErrCodeAlreadyExists, "Username already exists")
	} else if !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return err
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return apperrors.Internal(err, "failed to generate token after signup")
	}
	h.setAuthCookie(c, token)
	h.sendWelcomeEmail(c, user)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) sendWelcomeEmail(c echo.Context, user *models.User) {
	if h.email == nil {
		return
	}
	err := h.email.NotifyByEmail(c.Request().Context(), user.Email, mailer.Payload{
		Kind:          mailer.KindWelcome,
		RecipientName: user.Name,
		ProfileURL:    h.cfg.ClientURL + "/profile/" + user.Username,
	})
	if err != nil {
		metrics.EmailFailures.WithLabelValues(mailer.KindWelcome).Inc()
		logger.Warn("Welcome email not delivered", "user_id", user.ID, "error", err)
	}
}

// Login handles username and password authentication
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), req.Username)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			return apperrors.New(apperrors.ErrCodeUnauthorized, "Invalid credentials")
		}
		return err
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return apperrors.New(apperrors.ErrCodeUnauthorized, "Invalid credentials")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return apperrors.Internal(err, "failed to generate token")
	}
	h.setAuthCookie(c, token)

	return c.JSON(http.StatusOK, echo.Map{"message": "Logged in successfully", "token": token})
}

// Logout clears the auth cookie. Bearer tokens simply expire.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// GetCurrentUser returns the authenticated user with their connections
func (h *AuthHandler) GetCurrentUser(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Connections, err = h.connectionRepository.GetConnectionIDs(ctx, user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT.
// Unknown identities are linked by email or registered, but only once
// Firebase has verified that email.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	identity, err := h.identities.Verify(ctx, req.IDToken)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeUnauthorized, "Invalid Firebase ID token")
	}
	if identity.Email == "" {
		return apperrors.Validation("Firebase account has no email address")
	}

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, identity.UID)
	switch {
	case err == nil:
	case apperrors.HasCode(err, apperrors.ErrCodeNotFound):
		user, err = h.linkOrCreateFirebaseUser(c, identity)
		if err != nil {
			return err
		}
	default:
		return err
	}

	localJWT, err := h.generateJWT(user)
	if err != nil {
		return apperrors.Internal(err, "failed to generate local JWT")
	}
	h.setAuthCookie(c, localJWT)

	return c.JSON(http.StatusOK, echo.Map{"token": localJWT, "user": user})
}

func (h *AuthHandler) linkOrCreateFirebaseUser(c echo.Context, identity *firebase.Identity) (*models.User, error) {
	if !identity.EmailVerified {
		return nil, apperrors.Forbidden("Firebase email address is not verified")
	}
	ctx := c.Request().Context()
	firebaseUID := identity.UID
	email := strings.ToLower(identity.Email)

	user, err := h.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		user.FirebaseUID = &firebaseUID
		if err := h.userRepository.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		return nil, err
	}

	local := strings.SplitN(email, "@", 2)[0]
	name := identity.Name
	if name == "" {
		name = local
	}
	user = &models.User{
		Name:        name,
		Username:    usernameFrom(local),
		Email:       email,
		FirebaseUID: &firebaseUID,
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	h.sendWelcomeEmail(c, user)
	return user, nil
}

// usernameFrom builds an alphanumeric username with a random suffix.
func usernameFrom(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	prefix := b.String()
	if len(prefix) > 20 {
		prefix = prefix[:20]
	}
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (h *AuthHandler) setAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
