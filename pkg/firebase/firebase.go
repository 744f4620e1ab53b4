package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/connectin/backend/pkg/logger"
	"google.golang.org/api/option"
)

// Identity is what a verified Firebase ID token says about its holder.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

// Verifier checks Firebase ID tokens for the social sign-in flow.
type Verifier struct {
	client *auth.Client
}

// NewVerifier initializes the Firebase app from a service account file.
func NewVerifier(ctx context.Context, credentialsPath string) (*Verifier, error) {
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials file not usable at %s: %w", credentialsPath, err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	logger.Info("Firebase auth client initialized")
	return &Verifier{client: client}, nil
}

// Verify validates the token signature and expiry and extracts the identity.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	email, _ := token.Claims["email"].(string)
	verified, _ := token.Claims["email_verified"].(bool)
	name, _ := token.Claims["name"].(string)
	return &Identity{UID: token.UID, Email: email, EmailVerified: verified, Name: name}, nil
}
