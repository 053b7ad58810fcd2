package logins

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository is an in-process Repository used when Redis is not
// configured (single-instance deployments, tests).
type MemoryRepository struct {
	mu    sync.Mutex
	store map[string]*Login
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[string]*Login{}}
}

func (r *MemoryRepository) Create(ctx context.Context, l *Login) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.store[l.State] = &cp
	return nil
}

func (r *MemoryRepository) Consume(ctx context.Context, state string) (*Login, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.store[state]
	if !ok {
		return nil, nil
	}
	delete(r.store, state)
	if time.Now().UTC().After(l.ExpiresAt) {
		return nil, nil
	}
	return l, nil
}
