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

	tableserrors "tably/internal/tables/errors"
	"tably/pkg/config"
	"tably/pkg/model"
)

const (
	CollectionName = "Tables"
)

type TableRepository interface {
	Create(ctx context.Context, table *model.Table) error
	FindByID(ctx context.Context, id string) (*model.Table, error)
	FindByRestaurant(ctx context.Context, restaurantID string) ([]*model.Table, error)
	// FindAvailableByCapacity is the capacity index: AVAILABLE tables seating
	// at least minGuests, smallest first so the caller's head of list is the
	// best fit.
	FindAvailableByCapacity(ctx context.Context, restaurantID string, minGuests int) ([]*model.Table, error)
	UpdateStatus(ctx context.Context, id string, status model.TableStatus) error
}

type mongoTableRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTableRepository(cfg *config.Config) TableRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTableRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoTableRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoTableRepository) Create(ctx context.Context, table *model.Table) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	table.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		table.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTableRepository) FindByID(ctx context.Context, id string) (*model.Table, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tableserrors.ErrInvalidID, id)
	}

	var table model.Table
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&table)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tableserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find table: %w", err)
	}

	return &table, nil
}

func (r *mongoTableRepository) FindByRestaurant(ctx context.Context, restaurantID string) ([]*model.Table, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "table_number", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"restaurant_id": restaurantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tables: %w", err)
	}
	defer cursor.Close(ctx)

	var tables []*model.Table
	if err = cursor.All(ctx, &tables); err != nil {
		return nil, fmt.Errorf("failed to decode tables: %w", err)
	}

	return tables, nil
}

func (r *mongoTableRepository) FindAvailableByCapacity(ctx context.Context, restaurantID string, minGuests int) ([]*model.Table, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"restaurant_id": restaurantID,
		"status":        model.TableAvailable,
		"capacity":      bson.M{"$gte": minGuests},
	}

	// Ascending capacity puts the tightest fit first; table_number breaks
	// ties deterministically.
	opts := options.Find().SetSort(bson.D{
		{Key: "capacity", Value: 1},
		{Key: "table_number", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate tables: %w", err)
	}
	defer cursor.Close(ctx)

	var tables []*model.Table
	if err = cursor.All(ctx, &tables); err != nil {
		return nil, fmt.Errorf("failed to decode candidate tables: %w", err)
	}

	return tables, nil
}

func (r *mongoTableRepository) UpdateStatus(ctx context.Context, id string, status model.TableStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tableserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update table status: %w", err)
	}

	if result.MatchedCount == 0 {
		return tableserrors.ErrNotFound
	}

	return nil
}
