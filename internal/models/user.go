package models

import "time"

// User is the persistent identity record. The (Provider, ProviderUserID)
// pair is the external-identity key used for lookup-or-create; Email is
// unique on its own.
type User struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Provider       string    `bson:"provider" json:"provider"`
	ProviderUserID string    `bson:"providerUserId" json:"providerUserId"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	Picture        string    `bson:"picture,omitempty" json:"picture,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
