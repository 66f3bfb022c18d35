package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
)

// ActorInfo describes the caller behind an accepted token.
type ActorInfo struct {
	ActorID string `json:"actor_id"`
	KeyType string `json:"key_type"` // "configured" or "dev"
}

// Authorizer validates bearer tokens.
type Authorizer interface {
	// Authorize returns ActorInfo if the token is accepted, ErrInvalidToken otherwise.
	Authorize(ctx context.Context, token string) (*ActorInfo, error)
}

// TokenAuthorizer accepts a fixed set of configured tokens.
type TokenAuthorizer struct {
	tokens [][]byte
}

func NewTokenAuthorizer(tokens []string) *TokenAuthorizer {
	a := &TokenAuthorizer{}
	for _, t := range tokens {
		if t != "" {
			a.tokens = append(a.tokens, []byte(t))
		}
	}
	return a
}

func (a *TokenAuthorizer) Authorize(ctx context.Context, token string) (*ActorInfo, error) {
	for i, t := range a.tokens {
		if subtle.ConstantTimeCompare(t, []byte(token)) == 1 {
			return &ActorInfo{ActorID: fmt.Sprintf("token-%d", i+1), KeyType: "configured"}, nil
		}
	}
	return nil, ErrInvalidToken
}
