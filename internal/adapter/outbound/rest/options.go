package rest

import (
	"log/slog"
	"net/http"
	"time"
)

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithAuthBaseURL sets a separate base URL for the authentication
// endpoints (signup, signin, token verification). Defaults to the
// resource base URL.
func WithAuthBaseURL(url string) Option {
	return func(c *Client) {
		c.authBaseURL = url
	}
}

// WithCredential installs the initial bearer credential.
func WithCredential(credential string) Option {
	return func(c *Client) {
		c.credential = credential
	}
}

// WithTimeout sets the HTTP request timeout. Defaults to 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom http.Client for making requests.
// Useful for testing and custom transport configurations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
