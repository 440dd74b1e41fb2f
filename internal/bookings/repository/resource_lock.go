package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "slotline/internal/bookings/errors"
	"slotline/pkg/config"
	"slotline/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	ResourceLockCollection = "Resource_locks"
)

// ResourceLockRepository implements the per-resource serialization point
// from the concurrency design: an advisory lock document whose unique _id
// makes acquisition a single atomic insert.
type ResourceLockRepository interface {
	// Acquire inserts the lock for the resource, returning ErrLockHeld
	// when another request already owns it.
	Acquire(ctx context.Context, resourceID string, ttl time.Duration) (string, error)
	Release(ctx context.Context, lockID string) error
}

type mongoResourceLockRepository struct {
	collection *mongo.Collection
}

func NewMongoResourceLockRepository(cfg *config.Config) ResourceLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoResourceLockRepository{
		collection: db.Collection(ResourceLockCollection),
	}
}

func (r *mongoResourceLockRepository) Acquire(ctx context.Context, resourceID string, ttl time.Duration) (string, error) {
	lock := &model.ResourceLock{
		ID:        LockID(resourceID),
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", bookingserrors.ErrLockHeld
		}
		return "", fmt.Errorf("failed to acquire resource lock: %w", err)
	}

	return lock.ID, nil
}

func (r *mongoResourceLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}

func LockID(resourceID string) string {
	return "admission_" + resourceID
}
