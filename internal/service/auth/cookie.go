package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod/lib/proto"

	"github.com/matiasbn/dj-wizard/internal/logger"
)

// sessionCookieNames lists the cookie pair the catalog session rides on, in
// the order they are serialized into the Cookie header. SNDA_SSID anchors
// the account, snda[data] carries the rotating session half.
//
//nolint:gochecknoglobals // Fixed serialization order for the session pair.
var sessionCookieNames = []string{"SNDA_SSID", "snda[data]"}

// extractSessionCookie reads the browser cookies and serializes the catalog
// session pair as a Cookie header value.
func (s *ServiceImpl) extractSessionCookie(ctx context.Context) (string, error) {
	logger.Info(ctx, "Extracting the session cookie pair...")

	cookies, err := s.page.Cookies([]string{s.cfg.SoundeoBaseURL})
	if err != nil {
		return "", fmt.Errorf("failed to read browser cookies: %w", err)
	}

	logger.Debugf(ctx, "Found %d cookies", len(cookies))

	if logger.IsDebugLevel() {
		for i, cookie := range cookies {
			logger.Debugf(ctx, "Cookie %d: name=%s, domain=%s", i+1, cookie.Name, cookie.Domain)
		}
	}

	header, err := serializeSessionCookies(cookies)
	if err != nil {
		logger.Error(ctx, "Session cookie pair not found. Available cookies:")

		for _, cookie := range cookies {
			logger.Errorf(ctx, "%s (domain: %s)", cookie.Name, cookie.Domain)
		}

		return "", err
	}

	return header, nil
}

// serializeSessionCookies builds the Cookie header value from the session
// pair. Both halves must be present, a lone SNDA_SSID is a guest session.
func serializeSessionCookies(cookies []*proto.NetworkCookie) (string, error) {
	values := make(map[string]string, len(cookies))

	for _, cookie := range cookies {
		values[cookie.Name] = cookie.Value
	}

	pairs := make([]string, 0, len(sessionCookieNames))

	for _, name := range sessionCookieNames {
		value, ok := values[name]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: missing '%s'", ErrSessionCookieNotFound, name)
		}

		pairs = append(pairs, name+"="+value)
	}

	return strings.Join(pairs, "; "), nil
}
