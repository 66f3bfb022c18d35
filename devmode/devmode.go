// Package devmode holds the development-mode bearer token shared by the
// identity client and the reference identity service.
package devmode

// Token is accepted by the identity service only when it runs with
// IDENTITY_SERVICE_DEV_MODE=true. It must never be configured in production.
const Token = "LOCAL_IDENTITIES_DEV_TOKEN_NOT_FOR_PRODUCTION"
