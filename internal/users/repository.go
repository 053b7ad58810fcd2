package users

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akarkode/authentication/internal/models"
)

// ErrIdentityConflict reports a create that violates a uniqueness invariant
// other than the provider-identity key, i.e. the email is already taken by a
// different external identity.
var ErrIdentityConflict = errors.New("identity conflict")

// Repository defines persistence operations for users. Both operations must
// be atomic with respect to concurrent identical calls.
type Repository interface {
	FindByProviderIdentity(ctx context.Context, provider, providerUserID string) (*models.User, error)

	// Create inserts the user keyed on (provider, providerUserID). Concurrent
	// creates for the same identity converge on a single row; the row is
	// never updated when it already exists.
	Create(ctx context.Context, u *models.User) (*models.User, error)
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a new repository for the given collection
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// EnsureIndexes creates the unique indexes backing both identity invariants.
// Idempotent; call once at startup.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "providerUserId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func (r *MongoRepository) FindByProviderIdentity(ctx context.Context, provider, providerUserID string) (*models.User, error) {
	var u models.User
	filter := bson.M{"provider": provider, "providerUserId": providerUserID}
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	// $setOnInsert keeps the operation create-if-absent: two racing
	// callbacks for the same identity end up with one row and identical
	// results, and an existing row is never touched.
	filter := bson.M{"provider": u.Provider, "providerUserId": u.ProviderUserID}
	insert := bson.M{"$setOnInsert": bson.M{
		"provider":       u.Provider,
		"providerUserId": u.ProviderUserID,
		"name":           u.Name,
		"email":          u.Email,
		"picture":        u.Picture,
		"createdAt":      u.CreatedAt,
		"updatedAt":      u.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var created models.User
	if err := r.col.FindOneAndUpdate(ctx, filter, insert, opts).Decode(&created); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// unique email index tripped by a different provider identity
			return nil, ErrIdentityConflict
		}
		return nil, err
	}
	return &created, nil
}
