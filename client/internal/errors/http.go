package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ClassifyHTTPError builds a ClassifiedError for a non-2xx response.
// - 4xx client errors (except 408 and 429) are irrecoverable
// - 5xx server errors are recoverable
func ClassifyHTTPError(statusCode int, body string, underlyingErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:   getHTTPErrorCategory(statusCode),
		StatusCode: statusCode,
		Message:    ExtractMessage(body),
		Body:       body,
		Underlying: underlyingErr,
	}
}

func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		return Recoverable
	}
}

// NewHTTPError creates a classified error for a non-2xx response of op.
func NewHTTPError(statusCode int, body string, op string) *ClassifiedError {
	e := ClassifyHTTPError(statusCode, body, fmt.Errorf("%s failed: HTTP %d", op, statusCode))
	e.Op = op
	return e
}

// NewNetworkError creates a classified error for transport-level failures.
// Message falls back to the transport error text.
func NewNetworkError(op string, err error) *ClassifiedError {
	msg := GenericMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &ClassifiedError{
		Op:         op,
		Category:   Recoverable,
		Message:    msg,
		Underlying: fmt.Errorf("%s network error: %w", op, err),
	}
}

// ExtractMessage pulls a readable message out of a JSON error body. It looks
// at "detail", then "message", then "error". A FastAPI-style validation
// detail (a list of {msg}) is joined. Anything else yields GenericMessage.
func ExtractMessage(body string) string {
	if strings.TrimSpace(body) == "" {
		return GenericMessage
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return GenericMessage
	}
	for _, key := range []string{"detail", "message", "error"} {
		raw, ok := m[key]
		if !ok {
			continue
		}
		if s := rawMessage(raw); s != "" {
			return s
		}
	}
	return GenericMessage
}

func rawMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, it := range list {
			if it.Msg != "" {
				parts = append(parts, it.Msg)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
