package client

import (
	"fmt"
	"net/http"
	"time"
)

// Option configures a Client during construction in New.
//
// Options are applied before the bearer transport is installed, so
// transport-related options end up underneath it.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout.
// Prefer per-request context deadlines; this is a coarse bound on a single
// request. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client. Its transport is
// wrapped, never mutated in place.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged at debug level when enabled is true. Do not enable in production:
// dumps include headers and bodies.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			if _, already := c.http.Transport.(*debugTransport); !already {
				c.http.Transport = &debugTransport{base: c.http.Transport}
			}
		}
		return nil
	}
}
