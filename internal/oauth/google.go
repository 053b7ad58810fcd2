package oauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/akarkode/authentication/internal/config"
)

// Provider is the stored provider name for identities obtained here.
const Provider = "google"

// ErrExchangeFailed covers every failure talking to the identity provider:
// transport errors, provider-side rejections and malformed identity
// responses. No partial state survives a failed exchange.
var ErrExchangeFailed = errors.New("identity exchange failed")

// Identity holds the verified claims extracted from the provider id_token.
type Identity struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"email_verified"`
}

// Exchanger drives the authorization-code flow against the external
// provider. Implementations keep no mutable state across calls.
type Exchanger interface {
	// AuthCodeURL builds the provider consent URL with the opaque state
	// embedded.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for verified identity claims.
	Exchange(ctx context.Context, code string) (*Identity, error)
}

type idTokenVerifier interface {
	Verify(ctx context.Context, raw string) (*oidc.IDToken, error)
}

// Google implements Exchanger using Google's OIDC discovery plus the OAuth2
// code flow. The returned id_token is verified against the provider JWKS
// (aud + exp checked) before any claim is trusted.
type Google struct {
	config   *oauth2.Config
	verifier idTokenVerifier
}

// NewGoogle discovers the provider configuration from the issuer URL. Makes
// an outbound HTTP request at startup; fails if the issuer is unreachable.
func NewGoogle(ctx context.Context, cfg config.GoogleConfig) (*Google, error) {
	p, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}
	return &Google{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     p.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: p.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// Exchange performs the code-for-token exchange and extracts the verified
// identity. Callers receive ErrExchangeFailed for every failure mode; the
// underlying cause stays wrapped for logging only.
func (g *Google) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchanging code: %v", ErrExchangeFailed, err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("%w: no id_token in token response", ErrExchangeFailed)
	}
	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: verifying id token: %v", ErrExchangeFailed, err)
	}
	var id Identity
	if err := idToken.Claims(&id); err != nil {
		return nil, fmt.Errorf("%w: extracting claims: %v", ErrExchangeFailed, err)
	}
	if id.Sub == "" {
		return nil, fmt.Errorf("%w: id token missing sub", ErrExchangeFailed)
	}
	return &id, nil
}
