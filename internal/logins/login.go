package logins

import "time"

// Login represents one in-flight login attempt, keyed by the opaque state
// value round-tripped through the provider. Consumed exactly once by the
// callback.
type Login struct {
	State     string    `json:"state"`
	ReturnTo  string    `json:"returnTo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
