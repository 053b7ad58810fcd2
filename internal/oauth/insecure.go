package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/akarkode/authentication/internal/config"
)

// Unverified implements Exchanger against explicitly configured authorize
// and token endpoints, parsing id_token claims WITHOUT signature
// verification. Only intended for local development and tests under
// explicit opt-in; never register it against a real provider.
type Unverified struct {
	config *oauth2.Config
}

// NewUnverified builds an exchanger from the configured endpoint URLs,
// skipping discovery.
func NewUnverified(cfg config.GoogleConfig) (*Unverified, error) {
	if cfg.AuthorizeURL == "" || cfg.TokenURL == "" {
		return nil, fmt.Errorf("authorize and token URLs are required without discovery")
	}
	return &Unverified{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthorizeURL,
				TokenURL: cfg.TokenURL,
			},
			Scopes: []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

func (u *Unverified) AuthCodeURL(state string) string {
	return u.config.AuthCodeURL(state)
}

func (u *Unverified) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := u.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchanging code: %v", ErrExchangeFailed, err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("%w: no id_token in token response", ErrExchangeFailed)
	}
	id, err := parseUnverifiedClaims(rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if id.Sub == "" {
		return nil, fmt.Errorf("%w: id token missing sub", ErrExchangeFailed)
	}
	return id, nil
}

// parseUnverifiedClaims decodes the payload segment of a JWT without
// checking the signature.
func parseUnverifiedClaims(raw string) (*Identity, error) {
	parts := strings.Split(raw, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid id token format")
	}
	payload := parts[1]
	if m := len(payload) % 4; m != 0 {
		payload += strings.Repeat("=", 4-m)
	}
	data, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, err
	}
	return &id, nil
}
