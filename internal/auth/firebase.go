package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/devstudio-hq/orders-backend/config"
)

// NewAuthClient builds the Firebase Auth client that Middleware uses to
// verify magic-link ID tokens. With no credentials file configured the SDK
// falls back to application-default credentials, which covers hosted
// runtimes where a key file never touches disk.
func NewAuthClient(ctx context.Context, cfg *config.FirebaseConfig) (*auth.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return client, nil
}
