package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	waitlisterrors "tably/internal/waitlist/errors"
	"tably/pkg/config"
	"tably/pkg/model"
)

const (
	CollectionName = "Waitlist_entries"
)

type WaitlistRepository interface {
	Create(ctx context.Context, entry *model.WaitlistEntry) error
	FindByID(ctx context.Context, id string) (*model.WaitlistEntry, error)
	// CountWaitingBefore returns how many WAITING entries for the restaurant
	// were created before the given instant. That count is the FIFO queue
	// position.
	CountWaitingBefore(ctx context.Context, restaurantID string, createdAt time.Time) (int64, error)
	// FindOldestWaiting returns the head of the queue for a restaurant and
	// slot, or ErrNotFound when the queue is empty.
	FindOldestWaiting(ctx context.Context, restaurantID, date string) (*model.WaitlistEntry, error)
	FindByRestaurant(ctx context.Context, restaurantID string, limit int, offset int64) ([]*model.WaitlistEntry, int64, error)
	UpdateStatus(ctx context.Context, id string, status model.WaitlistStatus) error
}

type mongoWaitlistRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoWaitlistRepository(cfg *config.Config) WaitlistRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoWaitlistRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoWaitlistRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoWaitlistRepository) Create(ctx context.Context, entry *model.WaitlistEntry) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	entry.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid.Hex()
	}
	return nil
}

func (r *mongoWaitlistRepository) FindByID(ctx context.Context, id string) (*model.WaitlistEntry, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", waitlisterrors.ErrInvalidID, id)
	}

	var entry model.WaitlistEntry
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, waitlisterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find waitlist entry: %w", err)
	}

	return &entry, nil
}

func (r *mongoWaitlistRepository) CountWaitingBefore(ctx context.Context, restaurantID string, createdAt time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"restaurant_id": restaurantID,
		"status":        model.WaitlistWaiting,
		"created_at":    bson.M{"$lt": createdAt},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count waitlist entries: %w", err)
	}
	return count, nil
}

func (r *mongoWaitlistRepository) FindOldestWaiting(ctx context.Context, restaurantID, date string) (*model.WaitlistEntry, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"restaurant_id":  restaurantID,
		"requested_date": date,
		"status":         model.WaitlistWaiting,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})

	var entry model.WaitlistEntry
	err := r.collection.FindOne(ctx, filter, opts).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, waitlisterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find oldest waitlist entry: %w", err)
	}

	return &entry, nil
}

func (r *mongoWaitlistRepository) FindByRestaurant(ctx context.Context, restaurantID string, limit int, offset int64) ([]*model.WaitlistEntry, int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"restaurant_id": restaurantID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count waitlist entries: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find waitlist entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*model.WaitlistEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, 0, fmt.Errorf("failed to decode waitlist entries: %w", err)
	}

	return entries, total, nil
}

func (r *mongoWaitlistRepository) UpdateStatus(ctx context.Context, id string, status model.WaitlistStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", waitlisterrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update waitlist entry status: %w", err)
	}
	if result.MatchedCount == 0 {
		return waitlisterrors.ErrNotFound
	}

	return nil
}
