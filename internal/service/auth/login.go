package auth

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/matiasbn/dj-wizard/internal/logger"
)

// loginInstructions is shown once the login page is open. The flow is
// manual on purpose: credentials and captcha answers stay between the user
// and the catalog.
//
//nolint:gochecknoglobals // Static instruction text.
var loginInstructions = []string{
	"",
	"================= LOGIN =================",
	"Complete the sign-in in the browser window:",
	"",
	"  1. Enter your account email and password.",
	"  2. Solve the captcha if one appears.",
	"  3. Submit the form and wait for the account header to load.",
	"",
	"Keep the window open and stay on the catalog site;",
	"the login is detected automatically.",
	"=========================================",
	"",
}

// runLoginFlow opens the login page, shows the instructions, and blocks
// until the user signs in.
func (s *ServiceImpl) runLoginFlow(ctx context.Context) error {
	logger.Info(ctx, "Opening the catalog login page...")

	// Land on the homepage first so the login navigation carries a
	// same-origin referer.
	randomHumanDelay()

	if err := s.page.Navigate(catalogHomeURL); err != nil {
		return fmt.Errorf("failed to open the catalog homepage: %w", err)
	}

	randomHumanDelay()
	s.simulateHumanBehavior(ctx)

	if err := s.page.Navigate(catalogLoginURL); err != nil {
		return fmt.Errorf("failed to open the login page: %w", err)
	}

	randomHumanDelay()

	for _, line := range loginInstructions {
		logger.Info(ctx, line)
	}

	if err := s.pollUntilLoggedIn(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "Login completed successfully!")

	// Let the session settle before reading cookies.
	time.Sleep(sessionSettleDelay)

	return nil
}

// pollUntilLoggedIn watches the page until the account header renders, the
// user wanders off the catalog, the window dies, or the wait times out.
func (s *ServiceImpl) pollUntilLoggedIn(ctx context.Context) error {
	deadline := time.Now().Add(maxLoginWait)

	var lastURL string

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: waited for %v", ErrLoginTimeout, maxLoginWait)
		}

		pageURL, err := s.currentURL()
		if err != nil {
			// The control connection only fails once the window is gone.
			logger.Debugf(ctx, "Browser gone: %v", err)

			return ErrBrowserClosed
		}

		if pageURL != lastURL {
			s.logPageChange(ctx, pageURL)

			lastURL = pageURL
		}

		if s.loggedIn(ctx) {
			return nil
		}

		if err := ensureOnCatalog(pageURL); err != nil {
			return err
		}

		s.simulateHumanBehavior(ctx)

		// Sometimes add a second interaction on top of the cursor wiggle.
		//nolint:gosec // Weak random is fine for simulating human behavior.
		if rand.IntN(extraActionChance) == 0 {
			s.simulateRandomPageInteraction(ctx)
		}

		randomHumanDelay()
	}
}

// logPageChange traces navigation in debug mode.
func (s *ServiceImpl) logPageChange(ctx context.Context, pageURL string) {
	if !logger.IsDebugLevel() {
		return
	}

	logger.Debugf(ctx, "Page changed: %s", pageURL)

	if info, err := s.page.Info(); err == nil {
		logger.Debugf(ctx, "Page title: %s", info.Title)
	}
}

// loggedIn reports whether the authenticated account header is on the page.
func (s *ServiceImpl) loggedIn(ctx context.Context) bool {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf(ctx, "loggedIn panic recovered: %v", r)
		}
	}()

	if found, _, err := s.page.Has(downloadsWidgetSelector); err == nil && found {
		logger.Debug(ctx, "Downloads widget found - login successful!")

		return true
	}

	// Report form presence in debug mode so a stuck login is diagnosable.
	if found, _, err := s.page.Has(passwordFieldSelector); err == nil && found {
		logger.Debug(ctx, "Login form still visible, waiting...")
	}

	return false
}

// ensureOnCatalog rejects pages outside the catalog domain. The check is
// host-based: a lookalike domain embedding the catalog name must not pass.
func ensureOnCatalog(pageURL string) error {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Hostname() == "" {
		return fmt.Errorf("%w to: %s", ErrNavigatedAway, pageURL)
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	if host != catalogDomain && !strings.HasSuffix(host, "."+catalogDomain) {
		return fmt.Errorf("%w to: %s", ErrNavigatedAway, pageURL)
	}

	return nil
}
