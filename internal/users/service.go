package users

import (
	"context"
	"fmt"

	"github.com/akarkode/authentication/internal/models"
	"github.com/akarkode/authentication/internal/oauth"
	"github.com/akarkode/authentication/pkg/logger"
)

// AvatarMirror copies a provider-hosted profile picture into local object
// storage. Mirroring is best effort and never blocks a login.
type AvatarMirror interface {
	Mirror(ctx context.Context, provider, providerUserID, sourceURL string) error
}

// Directory encapsulates lookup-or-create on external identities.
type Directory struct {
	repo    Repository
	avatars AvatarMirror
}

// NewDirectory creates the directory service. avatars may be nil.
func NewDirectory(repo Repository, avatars AvatarMirror) *Directory {
	return &Directory{repo: repo, avatars: avatars}
}

// LookupOrCreate finds the user for the given external identity, creating
// the row on first login. An existing row is never updated, even when the
// provider reports changed profile fields.
func (d *Directory) LookupOrCreate(ctx context.Context, provider string, id *oauth.Identity) (*models.User, error) {
	if id == nil || id.Sub == "" {
		return nil, fmt.Errorf("identity claims missing sub")
	}
	u, err := d.repo.FindByProviderIdentity(ctx, provider, id.Sub)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	created, err := d.repo.Create(ctx, &models.User{
		Provider:       provider,
		ProviderUserID: id.Sub,
		Name:           id.Name,
		Email:          id.Email,
		Picture:        id.Picture,
	})
	if err != nil {
		return nil, err
	}

	if d.avatars != nil && id.Picture != "" {
		if err := d.avatars.Mirror(ctx, provider, id.Sub, id.Picture); err != nil {
			logger.Warnf("avatar mirror failed for %s/%s: %v", provider, id.Sub, err)
		}
	}
	return created, nil
}
