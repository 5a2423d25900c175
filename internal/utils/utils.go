package utils

import (
	"bufio"
	"math/rand/v2"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	// unsafeFilenameChars covers ASCII control characters (0-31) and the
	// characters Windows refuses in file names: < > : " / \ | ? *.
	//nolint:gochecknoglobals // Immutable pre-compiled pattern used as a constant.
	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

	// windowsReservedName matches device names that cannot be used as file
	// names on Windows regardless of extension: CON, PRN, AUX, NUL and the
	// numbered COM/LPT ports.
	//nolint:gochecknoglobals // Immutable pre-compiled pattern used as a constant.
	windowsReservedName = regexp.MustCompile(`(?i)^(CON|PRN|AUX|NUL|COM[1-9]|LPT[1-9])$`)
)

// SanitizeFilename turns a catalog attachment name into a name that is safe
// on both Windows and Unix-like filesystems. Unsafe characters become
// underscores, trailing dots are dropped and Windows device names get an
// underscore prefix. A name that sanitizes away entirely comes back as "_".
func SanitizeFilename(name string) string {
	if name == "" {
		return ""
	}

	cleaned := unsafeFilenameChars.ReplaceAllString(name, "_")
	cleaned = strings.TrimRight(cleaned, ".")

	if cleaned == "" {
		return "_"
	}

	base := strings.TrimSuffix(cleaned, filepath.Ext(cleaned))
	if windowsReservedName.MatchString(base) {
		cleaned = "_" + cleaned
	}

	return cleaned
}

// RandomPause sleeps for a random duration in [minPause, maxPause). Bounds
// given in the wrong order are swapped; equal bounds sleep exactly minPause.
func RandomPause(minPause, maxPause time.Duration) {
	if minPause > maxPause {
		minPause, maxPause = maxPause, minPause
	}

	pause := minPause

	if span := maxPause - minPause; span > 0 {
		//nolint:gosec // Jitter does not need a cryptographic source.
		pause += time.Duration(rand.Int64N(int64(span)))
	}

	time.Sleep(pause)
}

// ReadUniqueLinesFromFile returns the non-empty lines of a text file,
// trimmed and de-duplicated in first-seen order.
func ReadUniqueLinesFromFile(path string) ([]string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	defer file.Close() //nolint:errcheck // Read-only descriptor.

	var (
		lines   []string
		seen    = make(map[string]struct{})
		scanner = bufio.NewScanner(file)
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if _, duplicate := seen[line]; duplicate {
			continue
		}

		seen[line] = struct{}{}

		lines = append(lines, line)
	}

	if err = scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// ExtractNamedGroup returns the text captured by the named group, or the
// empty string when the pattern does not match or has no such group.
func ExtractNamedGroup(re *regexp.Regexp, groupName, input string) string {
	groupIndex := re.SubexpIndex(groupName)
	if groupIndex < 0 {
		return ""
	}

	match := re.FindStringSubmatch(input)
	if match == nil {
		return ""
	}

	return match[groupIndex]
}

// IsTextContentType reports whether a Content-Type header names a text-based
// body that is safe to dump into a debug log: text/* or application/json,
// with no charset parameter or a utf-8 / us-ascii one.
func IsTextContentType(contentType string) bool {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	if !strings.HasPrefix(mediaType, "text/") && mediaType != "application/json" {
		return false
	}

	switch strings.ToLower(params["charset"]) {
	case "", "utf-8", "us-ascii":
		return true
	default:
		return false
	}
}
