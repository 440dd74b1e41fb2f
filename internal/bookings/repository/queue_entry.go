package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "slotline/internal/bookings/errors"
	"slotline/pkg/config"
	"slotline/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	QueueEntryCollection = "Queue_entries"
)

// QueueEntryRepository persists the per-resource wait queue. A unique index
// on (resource_id, position) backs the no-duplicate-positions invariant at
// the store level.
type QueueEntryRepository interface {
	Insert(ctx context.Context, entry *model.QueueEntry) error
	// FindFirst returns up to n entries for the resource ordered by
	// ascending position.
	FindFirst(ctx context.Context, resourceID string, n int) ([]*model.QueueEntry, error)
	FindByBookingID(ctx context.Context, bookingID string) (*model.QueueEntry, error)
	// MaxPosition returns the highest position ever assigned for the
	// resource, or 0 for an empty queue. Removed entries still count:
	// positions are arrival markers and are never reissued.
	MaxPosition(ctx context.Context, resourceID string) (int, error)
	CountByResource(ctx context.Context, resourceID string) (int64, error)
	ListByResource(ctx context.Context, resourceID string) ([]*model.QueueEntry, error)
	Delete(ctx context.Context, id string) error
}

type mongoQueueEntryRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoQueueEntryRepository(cfg *config.Config) QueueEntryRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoQueueEntryRepository{
		cfg:        cfg,
		collection: db.Collection(QueueEntryCollection),
	}
}

func (r *mongoQueueEntryRepository) Insert(ctx context.Context, entry *model.QueueEntry) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	entry.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: resource %s position %d", bookingserrors.ErrQueueCorrupted, entry.ResourceID, entry.Position)
		}
		return fmt.Errorf("failed to insert queue entry: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid.Hex()
	}
	return nil
}

func (r *mongoQueueEntryRepository) FindFirst(ctx context.Context, resourceID string, n int) ([]*model.QueueEntry, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "position", Value: 1}}).
		SetLimit(int64(n))

	cursor, err := r.collection.Find(ctx, bson.M{"resource_id": resourceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find queue entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*model.QueueEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode queue entries: %w", err)
	}

	return entries, nil
}

func (r *mongoQueueEntryRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.QueueEntry, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var entry model.QueueEntry
	err := r.collection.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrQueueEntryNotFound
		}
		return nil, fmt.Errorf("failed to find queue entry: %w", err)
	}

	return &entry, nil
}

func (r *mongoQueueEntryRepository) MaxPosition(ctx context.Context, resourceID string) (int, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})

	var entry model.QueueEntry
	err := r.collection.FindOne(ctx, bson.M{"resource_id": resourceID}, opts).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to find max queue position: %w", err)
	}

	return entry.Position, nil
}

func (r *mongoQueueEntryRepository) CountByResource(ctx context.Context, resourceID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"resource_id": resourceID})
	if err != nil {
		return 0, fmt.Errorf("failed to count queue entries: %w", err)
	}
	return count, nil
}

func (r *mongoQueueEntryRepository) ListByResource(ctx context.Context, resourceID string) ([]*model.QueueEntry, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"resource_id": resourceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*model.QueueEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode queue entries: %w", err)
	}

	return entries, nil
}

func (r *mongoQueueEntryRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete queue entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrQueueEntryNotFound
	}

	return nil
}
