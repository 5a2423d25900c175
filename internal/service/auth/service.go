package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
)

// Login flow tuning.
const (
	// catalogHomeURL is the landing page; opened first so the login
	// navigation carries a same-origin referer.
	catalogHomeURL = "https://soundeo.com/"

	// catalogLoginURL is the login form page.
	catalogLoginURL = "https://soundeo.com/login"

	// catalogDomain is the only domain the flow may stay on.
	catalogDomain = "soundeo.com"

	// downloadsWidgetSelector matches the downloads counter in the account
	// header. The catalog renders it only for signed-in users, so its
	// presence is the login-success signal.
	downloadsWidgetSelector = `#span-downloads`

	// passwordFieldSelector matches the password input of the login form,
	// present while the user is still signing in.
	passwordFieldSelector = `input[name="password"]`

	// maxLoginWait bounds how long the flow waits for the user.
	maxLoginWait = 10 * time.Minute

	// sessionSettleDelay gives the catalog time to finish setting cookies
	// after the account header appears.
	sessionSettleDelay = 2 * time.Second

	// browserSlowMotion spaces out browser actions in debug mode.
	browserSlowMotion = 200 * time.Millisecond

	// browserCleanupDelay waits for Chrome to release profile locks.
	browserCleanupDelay = 500 * time.Millisecond
)

// Humanizer tuning. The polling loop keeps the cursor moving between login
// checks; a session that never moves reads as automation.
const (
	cursorMovesPerPoll = 2
	cursorMoveMinDelay = 100 * time.Millisecond
	cursorMoveMaxDelay = 400 * time.Millisecond

	// Idle delays pace the polling loop itself.
	idleMinDelay = 500 * time.Millisecond
	idleMaxDelay = 2 * time.Second

	// Read pauses imitate a person stopping to read the page.
	readPauseMin = 500 * time.Millisecond
	readPauseMax = 1500 * time.Millisecond

	// scrollChance is 1-in-N per poll; the amount lands in
	// [scrollFloor, scrollFloor+scrollSpan).
	scrollChance = 3
	scrollFloor  = -100
	scrollSpan   = 200

	// extraActionChance adds a second interaction on 1-in-N polls.
	extraActionChance = 5

	// interactionKinds is the number of interaction variants.
	interactionKinds = 3

	// Nudge scrolls land in [-nudgeOffset, nudgeSpan-nudgeOffset).
	nudgeSpan   = 100
	nudgeOffset = 50
)

var (
	// ErrLoginTimeout is returned when the login takes too long.
	ErrLoginTimeout = errors.New("login timeout exceeded")

	// ErrBrowserClosed is returned when the browser is closed before the login completes.
	ErrBrowserClosed = errors.New("browser was closed before login completed")

	// ErrNavigatedAway is returned when the user leaves the catalog during the login flow.
	ErrNavigatedAway = errors.New("navigated away from the catalog login flow")

	// ErrSessionCookieNotFound is returned when the session cookie pair cannot
	// be found after a successful login.
	ErrSessionCookieNotFound = errors.New("session cookie pair not found after login")
)

// Service provides browser-based login against the catalog.
type Service interface {
	// LoginAndExtractCookie opens a browser, waits for the user to sign in,
	// then extracts the catalog session cookie pair serialized as a Cookie
	// header value.
	LoginAndExtractCookie(ctx context.Context) (string, error)
}

// ServiceImpl drives the login flow through a real Chrome instance.
type ServiceImpl struct {
	cfg     *config.Config
	browser *rod.Browser
	page    *rod.Page
	// tempDir stores the temporary profile directory for cleanup.
	tempDir string
}

// NewService creates a new browser login service.
func NewService(cfg *config.Config) (*ServiceImpl, error) {
	return &ServiceImpl{
		cfg: cfg,
	}, nil
}

// LoginAndExtractCookie opens a browser, waits for the user to sign in, then
// extracts the session cookie pair.
func (s *ServiceImpl) LoginAndExtractCookie(ctx context.Context) (string, error) {
	logger.Info(ctx, "Starting browser-based login")

	if err := s.startBrowser(ctx); err != nil {
		return "", fmt.Errorf("failed to start the browser: %w", err)
	}

	defer s.shutdown(ctx)

	if err := s.runLoginFlow(ctx); err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}

	cookieHeader, err := s.extractSessionCookie(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract the session cookie: %w", err)
	}

	logger.Info(ctx, "Session cookie extracted successfully")

	return cookieHeader, nil
}
