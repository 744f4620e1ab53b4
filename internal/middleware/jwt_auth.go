package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/connectin/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// AuthCookieName carries the session token for browser clients.
const AuthCookieName = "jwt-connectin"

// ClaimsKey is the echo.Context key holding *models.JwtCustomClaims.
const ClaimsKey = "user"

// JWTAuthMiddleware checks for a valid JWT and extracts user claims.
// The token is read from "Authorization: Bearer <token>" or, failing
// that, from the auth cookie.
func JWTAuthMiddleware(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := extractToken(c)
			if err != nil {
				return err
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrSignatureInvalid) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			if !token.Valid || claims.UserID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
		}
		return parts[1], nil
	}

	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
}
