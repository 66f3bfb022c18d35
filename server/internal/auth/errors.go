package auth

import "errors"

var (
	// ErrMissingToken is returned when the request has no Authorization header
	ErrMissingToken = errors.New("missing Authorization header")

	// ErrMalformedHeader is returned when the header is not "Bearer <token>"
	ErrMalformedHeader = errors.New("invalid Authorization header format, expected 'Bearer <token>'")

	// ErrInvalidToken is returned when the token is not accepted
	ErrInvalidToken = errors.New("invalid API token")
)
