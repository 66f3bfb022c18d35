// Package client is the Go SDK for the identity service: one method per
// logical operation on identities, their careers and knowledge records.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mycelian/mycelian-identities/client/internal/api"
	"github.com/mycelian/mycelian-identities/devmode"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource

	closedOnce uint32 // ensures Close is idempotent
}

const apiPrefix = "/api"

// New constructs a Client for the service rooted at baseURL. Request paths
// carry the /api prefix themselves, so a baseURL ending in /api is accepted
// and trimmed. tokens is consulted on every request.
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL %q: %w", baseURL, err)
	}
	if tokens == nil {
		tokens = StaticToken("")
	}

	c := &Client{
		baseURL: strings.TrimSuffix(strings.TrimRight(baseURL, "/"), apiPrefix),
		tokens:  tokens,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.wrapTransportWithBearer()
	return c, nil
}

// NewWithDevMode constructs a Client that authenticates with the shared
// development token. Only a service running in dev mode accepts it.
func NewWithDevMode(baseURL string, opts ...Option) (*Client, error) {
	return New(baseURL, StaticToken(devmode.Token), opts...)
}

// BaseURL returns the service root this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) wrapTransportWithBearer() {
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &bearerTransport{
		base:   baseTransport,
		tokens: c.tokens,
	}
}

// bearerTransport adds "Authorization: Bearer <token>" to every request.
// The token is read per request; an empty token sends no header.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokens.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("read credential: %w", err)
	}
	if token == "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(cloned)
}

// Close releases idle connections. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.http.CloseIdleConnections()
	return nil
}

// --------------------------------------------------------------------
// Identity operations - delegated to internal/api
// --------------------------------------------------------------------

// GetIdentity fetches an identity with its careers and knowledge.
func (c *Client) GetIdentity(ctx context.Context, id string) (*IdentityDetail, error) {
	return api.GetIdentity(ctx, c.http, c.baseURL, id)
}

// ListProjectIdentities returns one page of a project's identities.
func (c *Client) ListProjectIdentities(ctx context.Context, projectID string, params ListParams) (*IdentityList, error) {
	return api.ListProjectIdentities(ctx, c.http, c.baseURL, projectID, params)
}

// ListCharacterIdentities returns a character's identities, primary first.
func (c *Client) ListCharacterIdentities(ctx context.Context, characterID string, params ListParams) ([]Identity, error) {
	return api.ListCharacterIdentities(ctx, c.http, c.baseURL, characterID, params)
}

// CreateIdentity creates an identity.
func (c *Client) CreateIdentity(ctx context.Context, req IdentityCreate) (*Identity, error) {
	return api.CreateIdentity(ctx, c.http, c.baseURL, req)
}

// UpdateIdentity applies a partial update.
func (c *Client) UpdateIdentity(ctx context.Context, id string, req IdentityUpdate) (*Identity, error) {
	return api.UpdateIdentity(ctx, c.http, c.baseURL, id, req)
}

// DeleteIdentity deletes an identity and, on the service, its careers and knowledge.
func (c *Client) DeleteIdentity(ctx context.Context, id string) (*Ack, error) {
	return api.DeleteIdentity(ctx, c.http, c.baseURL, id)
}

// SetPrimaryIdentity promotes id to the character's primary identity.
func (c *Client) SetPrimaryIdentity(ctx context.Context, characterID, id string) (*Identity, error) {
	return api.SetPrimaryIdentity(ctx, c.http, c.baseURL, characterID, id)
}

// --------------------------------------------------------------------
// Career operations
// --------------------------------------------------------------------

func (c *Client) ListCareers(ctx context.Context, identityID string) ([]IdentityCareer, error) {
	return api.ListCareers(ctx, c.http, c.baseURL, identityID)
}

func (c *Client) AddCareer(ctx context.Context, identityID string, req IdentityCareerCreate) (*IdentityCareer, error) {
	return api.AddCareer(ctx, c.http, c.baseURL, identityID, req)
}

// UpdateCareer addresses the record by the catalog career id.
func (c *Client) UpdateCareer(ctx context.Context, identityID, careerID string, req IdentityCareerUpdate) (*IdentityCareer, error) {
	return api.UpdateCareer(ctx, c.http, c.baseURL, identityID, careerID, req)
}

// DeleteCareer addresses the record by the catalog career id.
func (c *Client) DeleteCareer(ctx context.Context, identityID, careerID string) (*Ack, error) {
	return api.DeleteCareer(ctx, c.http, c.baseURL, identityID, careerID)
}

// --------------------------------------------------------------------
// Knowledge operations
// --------------------------------------------------------------------

func (c *Client) ListKnowledge(ctx context.Context, identityID string) ([]IdentityKnowledge, error) {
	return api.ListKnowledge(ctx, c.http, c.baseURL, identityID)
}

func (c *Client) AddKnowledge(ctx context.Context, identityID string, req IdentityKnowledgeCreate) (*IdentityKnowledge, error) {
	return api.AddKnowledge(ctx, c.http, c.baseURL, identityID, req)
}

func (c *Client) UpdateKnowledge(ctx context.Context, identityID, knowledgeID string, req IdentityKnowledgeUpdate) (*IdentityKnowledge, error) {
	return api.UpdateKnowledge(ctx, c.http, c.baseURL, identityID, knowledgeID, req)
}

func (c *Client) DeleteKnowledge(ctx context.Context, identityID, knowledgeID string) (*Ack, error) {
	return api.DeleteKnowledge(ctx, c.http, c.baseURL, identityID, knowledgeID)
}

// CheckKnowledge reports whether knowerCharacterID knows about the identity.
func (c *Client) CheckKnowledge(ctx context.Context, identityID, knowerCharacterID string) (*KnowledgeCheck, error) {
	return api.CheckKnowledge(ctx, c.http, c.baseURL, identityID, knowerCharacterID)
}

// --------------------------------------------------------------------
// Characters (read-only, owned by another resource)
// --------------------------------------------------------------------

// ListProjectCharacters lists a project's characters.
func (c *Client) ListProjectCharacters(ctx context.Context, projectID string) ([]Character, error) {
	return api.ListProjectCharacters(ctx, c.http, c.baseURL, projectID)
}
