package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/spshpau/project-service/config"
)

// NewVerifier builds the Firebase-backed TokenVerifier used by the auth
// middleware. A service-account credentials file is mandatory; token
// verification must not silently bind to whatever default identity the
// host happens to carry.
func NewVerifier(ctx context.Context, cfg *config.FirebaseConfig) (TokenVerifier, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path is not configured")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("create firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("create firebase auth client: %w", err)
	}
	return client, nil
}
