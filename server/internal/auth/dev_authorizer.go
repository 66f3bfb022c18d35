package auth

import (
	"context"

	"github.com/mycelian/mycelian-identities/devmode"
)

// DevAuthorizer recognises devmode.Token and otherwise defers to next.
type DevAuthorizer struct {
	next Authorizer
}

func NewDevAuthorizer(next Authorizer) *DevAuthorizer {
	return &DevAuthorizer{next: next}
}

func (d *DevAuthorizer) Authorize(ctx context.Context, token string) (*ActorInfo, error) {
	if token == devmode.Token {
		return &ActorInfo{ActorID: "local-dev", KeyType: "dev"}, nil
	}
	if d.next == nil {
		return nil, ErrInvalidToken
	}
	return d.next.Authorize(ctx, token)
}
