package store

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the REST client.
type Option func(*REST)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *REST) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(s *REST) {
		if timeout > 0 {
			s.client.Timeout = timeout
		}
	}
}
