package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	blackoutserrors "tably/internal/blackouts/errors"
	"tably/pkg/config"
	"tably/pkg/model"
)

const (
	CollectionName = "Blackout_dates"
)

type BlackoutRepository interface {
	Create(ctx context.Context, blackout *model.BlackoutDate) error
	Delete(ctx context.Context, restaurantID, date string) error
	// IsBlackout reports whether the restaurant is closed on the given day.
	IsBlackout(ctx context.Context, restaurantID, date string) (bool, error)
	FindByRestaurant(ctx context.Context, restaurantID string) ([]*model.BlackoutDate, error)
}

type mongoBlackoutRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBlackoutRepository(cfg *config.Config) BlackoutRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBlackoutRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBlackoutRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBlackoutRepository) Create(ctx context.Context, blackout *model.BlackoutDate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	blackout.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, blackout)
	if err != nil {
		// Unique (restaurant_id, date) index surfaces duplicates here; the
		// service maps them to a conflict.
		return fmt.Errorf("failed to create blackout date: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		blackout.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBlackoutRepository) Delete(ctx context.Context, restaurantID, date string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{
		"restaurant_id": restaurantID,
		"date":          date,
	})
	if err != nil {
		return fmt.Errorf("failed to delete blackout date: %w", err)
	}
	if result.DeletedCount == 0 {
		return blackoutserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBlackoutRepository) IsBlackout(ctx context.Context, restaurantID, date string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"restaurant_id": restaurantID,
		"date":          date,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check blackout date: %w", err)
	}
	return count > 0, nil
}

func (r *mongoBlackoutRepository) FindByRestaurant(ctx context.Context, restaurantID string) ([]*model.BlackoutDate, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"restaurant_id": restaurantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find blackout dates: %w", err)
	}
	defer cursor.Close(ctx)

	var blackouts []*model.BlackoutDate
	if err = cursor.All(ctx, &blackouts); err != nil {
		return nil, fmt.Errorf("failed to decode blackout dates: %w", err)
	}

	return blackouts, nil
}
