package soundeo

import (
	"net/http"
	"strings"
)

// session returns the current Cookie header value.
func (c *ClientImpl) session() string {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()

	return c.sessionCookie
}

// updateSessionFromResponse folds Set-Cookie headers into the stored session.
// The catalog rotates the snda[data] half of the session pair on every
// authenticated page load; losing the rotation logs the session out.
//
// The headers are parsed by hand: net/http's cookie parser silently drops
// PHP-style bracket names like snda[data], which is the one cookie that
// matters here.
//
// The caller must hold c.sessionMu.
func (c *ClientImpl) updateSessionFromResponse(response *http.Response) {
	updates := parseSetCookieNames(response.Header.Values("Set-Cookie"))
	if len(updates) == 0 {
		return
	}

	c.sessionCookie = mergeCookieHeader(c.sessionCookie, updates)
}

// cookiePair is one name=value pair of a Cookie header.
type cookiePair struct {
	name  string
	value string
}

// parseSetCookieNames extracts the leading name=value pair of each
// Set-Cookie line, ignoring attributes like Path and HttpOnly.
func parseSetCookieNames(lines []string) []cookiePair {
	pairs := make([]cookiePair, 0, len(lines))

	for _, line := range lines {
		pairText, _, _ := strings.Cut(line, ";")

		name, value, hasValue := strings.Cut(strings.TrimSpace(pairText), "=")
		if !hasValue || name == "" {
			continue
		}

		pairs = append(pairs, cookiePair{name: name, value: value})
	}

	return pairs
}

// mergeCookieHeader replaces or appends the updated cookies in an opaque
// Cookie header value, preserving the order of the existing pairs.
func mergeCookieHeader(header string, updates []cookiePair) string {
	pairs := make([]cookiePair, 0, len(updates)+2)
	index := make(map[string]int)

	for _, fragment := range strings.Split(header, ";") {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}

		name, value, _ := strings.Cut(fragment, "=")

		index[name] = len(pairs)
		pairs = append(pairs, cookiePair{name: name, value: value})
	}

	for _, update := range updates {
		if at, exists := index[update.name]; exists {
			pairs[at].value = update.value

			continue
		}

		index[update.name] = len(pairs)
		pairs = append(pairs, update)
	}

	fragments := make([]string, 0, len(pairs))
	for _, p := range pairs {
		fragments = append(fragments, p.name+"="+p.value)
	}

	return strings.Join(fragments, "; ")
}
