package auth

import (
	"github.com/mycelian/mycelian-identities/server/internal/config"
)

// NewAuthorizer builds the Authorizer for cfg: the configured tokens, plus
// the dev token when dev mode is on.
func NewAuthorizer(cfg *config.Config) Authorizer {
	base := NewTokenAuthorizer(cfg.APITokens)
	if cfg.DevMode {
		return NewDevAuthorizer(base)
	}
	return base
}
