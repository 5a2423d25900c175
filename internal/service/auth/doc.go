// Package auth provides browser-based login for the Soundeo catalog.
//
// It drives a visible Chrome instance via go-rod with stealth patches,
// waits for the user to complete the login form, and extracts the
// session cookie pair the catalog client needs for authenticated
// requests. The rest of the application only ever sees the serialized
// Cookie header string.
package auth
