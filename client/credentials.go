package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// TokenSource supplies the bearer credential for a request. It is consulted
// on every request, so a credential stored elsewhere can change between
// calls. The client never refreshes or validates the token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed credential.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// FileTokenSource reads the credential from a file on every call. A missing
// file means "not signed in" and yields an empty token.
type FileTokenSource struct {
	Path string
}

func (f FileTokenSource) Token(context.Context) (string, error) {
	if f.Path == "" {
		return "", nil
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
