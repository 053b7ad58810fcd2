package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akarkode/authentication/internal/models"
)

// MemoryRepository is an in-process Repository used when MongoDB is not
// configured (dev) and by tests. Enforces the same uniqueness invariants as
// the Mongo indexes.
type MemoryRepository struct {
	mu    sync.Mutex
	seq   int
	users []*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) FindByProviderIdentity(ctx context.Context, provider, providerUserID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.findLocked(provider, providerUserID); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// create-if-absent: racing creates for the same identity see one row
	if existing := r.findLocked(u.Provider, u.ProviderUserID); existing != nil {
		cp := *existing
		return &cp, nil
	}
	for _, e := range r.users {
		if e.Email == u.Email {
			return nil, ErrIdentityConflict
		}
	}
	now := time.Now().UTC()
	r.seq++
	cp := *u
	cp.ID = fmt.Sprintf("mem-%d", r.seq)
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	r.users = append(r.users, &cp)
	out := cp
	return &out, nil
}

func (r *MemoryRepository) findLocked(provider, providerUserID string) *models.User {
	for _, u := range r.users {
		if u.Provider == provider && u.ProviderUserID == providerUserID {
			return u
		}
	}
	return nil
}

// Count reports the number of stored users. Test helper.
func (r *MemoryRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}
