package firestore

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/matiasbn/dj-wizard/internal/config"
)

const (
	// datastoreScope grants read/write access to the Firestore document API.
	datastoreScope = "https://www.googleapis.com/auth/datastore"

	// tokenEarlyRefreshWindow refreshes access tokens five minutes before
	// their actual expiry so in-flight batches never race the deadline.
	tokenEarlyRefreshWindow = 5 * time.Minute
)

// newTokenSource builds a self-refreshing token source from the stored
// refresh token. The initial exchange runs eagerly so a revoked grant
// fails the command before any local state is touched.
func newTokenSource(ctx context.Context, cfg *config.Config) (oauth2.TokenSource, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{datastoreScope},
	}

	base := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GoogleRefreshToken})

	token, err := base.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to exchange refresh token: %w", err)
	}

	return oauth2.ReuseTokenSourceWithExpiry(token, base, tokenEarlyRefreshWindow), nil
}
