package store

import "errors"

// Sentinel kinds for document store errors.
var (
	// ErrNotFound means the addressed document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrUnauthorized means the request carried no valid credential.
	ErrUnauthorized = errors.New("missing or invalid credential")

	// ErrTransport means the backend was unreachable or timed out.
	ErrTransport = errors.New("document store unreachable")
)

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsUnauthorized reports whether err is an authorization failure.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }
