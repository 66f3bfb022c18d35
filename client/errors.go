package client

import (
	"errors"

	clienterrors "github.com/mycelian/mycelian-identities/client/internal/errors"
)

// APIError is the single failure shape of every operation: transport
// failures have StatusCode 0, non-2xx responses carry the status, the raw
// body and a readable Message.
type APIError = clienterrors.ClassifiedError

// ErrorCategory re-exports the recoverability classification.
type ErrorCategory = clienterrors.ErrorCategory

const (
	Recoverable   = clienterrors.Recoverable
	Irrecoverable = clienterrors.Irrecoverable
)

// Re-exported sentinels so callers compare against a single symbol.
var (
	ErrNotFound     = clienterrors.ErrNotFound
	ErrUnauthorized = clienterrors.ErrUnauthorized
)

// GenericErrorMessage is shown when a failure carries no readable message.
const GenericErrorMessage = clienterrors.GenericMessage

// NewAPIError classifies a non-2xx response of op. It lets callers that
// talk to neighbouring resources report failures in the same shape.
func NewAPIError(op string, statusCode int, body []byte) *APIError {
	return clienterrors.NewHTTPError(statusCode, string(body), op)
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Message returns the human-readable text for err: the API message when err
// is an *APIError, otherwise err.Error(), otherwise the generic message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if ae, ok := AsAPIError(err); ok && ae.Message != "" {
		return ae.Message
	}
	if s := err.Error(); s != "" {
		return s
	}
	return GenericErrorMessage
}
