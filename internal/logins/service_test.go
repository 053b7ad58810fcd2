package logins

import (
	"context"
	"testing"
	"time"
)

func TestBeginAndConsume(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, time.Minute)
	ctx := context.Background()

	state, err := svc.Begin(ctx, "/after")
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if state == "" {
		t.Fatalf("expected state value")
	}

	l, err := svc.Consume(ctx, state)
	if err != nil {
		t.Fatalf("consume error: %v", err)
	}
	if l == nil || l.ReturnTo != "/after" {
		t.Fatalf("unexpected login: %v", l)
	}

	// states are single use
	l2, err := svc.Consume(ctx, state)
	if err != nil {
		t.Fatalf("consume error: %v", err)
	}
	if l2 != nil {
		t.Fatalf("expected state to be invalidated after first use")
	}
}

func TestConsumeEmptyState(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Minute)
	l, err := svc.Consume(context.Background(), "")
	if err != nil {
		t.Fatalf("consume error: %v", err)
	}
	if l != nil {
		t.Fatalf("empty state must never match")
	}
}

func TestStatesAreUnique(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, time.Minute)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s, err := svc.Begin(ctx, "")
		if err != nil {
			t.Fatalf("begin failed: %v", err)
		}
		if seen[s] {
			t.Fatalf("duplicate state generated: %s", s)
		}
		seen[s] = true
	}
}

func TestMemoryRepository_Expiry(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	l := &Login{
		State:     "old",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	got, err := repo.Consume(ctx, "old")
	if err != nil {
		t.Fatalf("consume error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired login to be rejected")
	}
}
