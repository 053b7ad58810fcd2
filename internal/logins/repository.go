package logins

import "context"

// Repository provides login-state persistence operations.
type Repository interface {
	Create(ctx context.Context, l *Login) error

	// Consume returns the login for the given state and removes it, so a
	// state can never be replayed. Unknown or expired states yield (nil, nil).
	Consume(ctx context.Context, state string) (*Login, error)
}
