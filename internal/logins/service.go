package logins

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// DefaultTTL bounds how long a user may sit on the provider consent page.
const DefaultTTL = 10 * time.Minute

// Service wraps repository operations with state generation
type Service struct {
	repo Repository
	ttl  time.Duration
}

func NewService(r Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: r, ttl: ttl}
}

// Begin stores a new login attempt and returns its opaque state value.
func (s *Service) Begin(ctx context.Context, returnTo string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := hex.EncodeToString(b)
	now := time.Now().UTC()
	l := &Login{
		State:     state,
		ReturnTo:  returnTo,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return "", err
	}
	return state, nil
}

// Consume validates and invalidates the state in one step. Returns nil when
// the state is unknown, expired or already used.
func (s *Service) Consume(ctx context.Context, state string) (*Login, error) {
	if state == "" {
		return nil, nil
	}
	return s.repo.Consume(ctx, state)
}
