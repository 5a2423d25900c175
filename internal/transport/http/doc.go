// Package http provides the RoundTripper decorators shared by the outbound
// HTTP clients: debug request/response logging with credential redaction,
// User-Agent injection, and transparent gzip/brotli response decoding.
package http
