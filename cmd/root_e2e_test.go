package cmd_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// testBinaryName is the name of the test binary for E2E tests.
	testBinaryName = "dj-wizard-test"
)

// TestMain builds the binary before running E2E tests.
func TestMain(m *testing.M) {
	// Build the binary for testing.
	//nolint:noctx // TestMain doesn't have access to context, and build is needed before tests run.
	buildCmd := exec.Command("go", "build", "-o", testBinaryName, "../.")
	if err := buildCmd.Run(); err != nil {
		os.Exit(1)
	}

	// Run tests.
	code := m.Run()

	// Cleanup.
	_ = os.Remove(testBinaryName)

	os.Exit(code)
}

// writeE2EConfig writes a complete configuration file into a temp dir and
// returns the config path and the download path it points at.
func writeE2EConfig(t *testing.T, sessionCookie string) (configPath, downloadPath string) {
	t.Helper()

	tempDir := t.TempDir()
	configPath = filepath.Join(tempDir, "test-config.yaml")
	downloadPath = filepath.Join(tempDir, "music")

	configContent := fmt.Sprintf(`
user: "dj@example.com"
session_cookie: "%s"
download_path: "%s"
log_level: "info"
max_workers: 4
migration_workers: 3
retry_attempts_count: 3
min_retry_pause: "1s"
max_retry_pause: "3s"
listing_rate_per_second: 2.0
`, sessionCookie, downloadPath)

	err := os.WriteFile(configPath, []byte(configContent), 0o644) //nolint:gosec // It's a test file.
	require.NoError(t, err)

	return configPath, downloadPath
}

// runBinary runs the test binary and returns its combined output.
func runBinary(t *testing.T, args ...string) (string, error) {
	t.Helper()

	//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
	cmd := exec.Command("./"+testBinaryName, args...)

	output, err := cmd.CombinedOutput()

	return string(output), err
}

// TestE2E_GenreAddAndList registers a genre and reads it back through the
// persisted snapshot, all without touching the network.
func TestE2E_GenreAddAndList(t *testing.T) {
	t.Parallel()

	configPath, downloadPath := writeE2EConfig(t, "SNDA_SSID=abc; snda[data]=def")

	output, err := runBinary(t, "--config", configPath, "genre", "add", "11", "Drum & Bass")
	require.NoError(t, err, "genre add failed: %s", output)
	assert.Contains(t, output, "Drum & Bass")

	// The snapshot must have been created under the download path.
	_, statErr := os.Stat(filepath.Join(downloadPath, "soundeo_log.json"))
	require.NoError(t, statErr)

	output, err = runBinary(t, "--config", configPath, "genre", "list")
	require.NoError(t, err, "genre list failed: %s", output)
	assert.Contains(t, output, "Drum & Bass")
	assert.Contains(t, output, "never")
}

// TestE2E_SessionRequired verifies that commands needing a session refuse to
// run without a stored cookie.
func TestE2E_SessionRequired(t *testing.T) {
	t.Parallel()

	configPath, _ := writeE2EConfig(t, "")

	output, err := runBinary(t, "--config", configPath, "url", "https://soundeo.com/tracks/12345")
	require.Error(t, err)
	assert.Contains(t, output, "session cookie is empty")
}

// TestE2E_CleanDryRun verifies that a dry run reports duplicates without
// removing anything.
func TestE2E_CleanDryRun(t *testing.T) {
	t.Parallel()

	configPath, downloadPath := writeE2EConfig(t, "")

	require.NoError(t, os.MkdirAll(downloadPath, 0o755))

	content := []byte("identical audio bytes")
	first := filepath.Join(downloadPath, "a.mp3")
	second := filepath.Join(downloadPath, "b.mp3")
	require.NoError(t, os.WriteFile(first, content, 0o644))
	require.NoError(t, os.WriteFile(second, content, 0o644))

	output, err := runBinary(t, "--config", configPath, "clean", "--dry-run")
	require.NoError(t, err, "clean --dry-run failed: %s", output)

	assert.Contains(t, output, "Would remove")
	assert.Contains(t, output, "DUPLICATE CLEANUP SUMMARY")

	// Dry run must leave both files in place.
	_, statErr := os.Stat(first)
	assert.NoError(t, statErr)
	_, statErr = os.Stat(second)
	assert.NoError(t, statErr)
}

// TestE2E_ConfigShowMasksSecrets verifies that the config listing never
// prints stored secrets.
func TestE2E_ConfigShowMasksSecrets(t *testing.T) {
	t.Parallel()

	configPath, _ := writeE2EConfig(t, "SNDA_SSID=super-secret; snda[data]=rotating")

	output, err := runBinary(t, "--config", configPath, "config", "--show")
	require.NoError(t, err, "config --show failed: %s", output)

	assert.Contains(t, output, "download_path:")
	assert.Contains(t, output, "session_cookie: (set)")
	assert.NotContains(t, output, "super-secret")
}

// TestE2E_InvalidLogLevel verifies that an unknown log level aborts before
// the command runs.
func TestE2E_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	configPath, _ := writeE2EConfig(t, "")

	output, err := runBinary(t, "--config", configPath, "info", "--log-level", "verbose")
	require.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unknown log level")
}

// TestE2E_HelpWithoutArguments verifies that the bare binary prints usage
// and exits cleanly.
func TestE2E_HelpWithoutArguments(t *testing.T) {
	t.Parallel()

	output, err := runBinary(t)
	require.NoError(t, err)
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "queue")
	assert.Contains(t, output, "migrate")
}
