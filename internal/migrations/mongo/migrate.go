package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tably/internal/migrations/mongo/validators"
)

var (
	TablesIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "restaurant_id", Value: 1},
				{Key: "table_number", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		// Candidate scan: AVAILABLE tables by capacity, tightest fit first.
		{Keys: bson.D{
			{Key: "restaurant_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "capacity", Value: 1},
		}},
	}

	ReservationsIndexes = []mongo.IndexModel{
		// Overlap query: one table, one day, time-window range scan.
		{Keys: bson.D{
			{Key: "table_id", Value: 1},
			{Key: "reservation_date", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "restaurant_id", Value: 1},
			{Key: "reservation_date", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "restaurant_id", Value: 1},
			{Key: "customer_phone", Value: 1},
		}},
	}

	BlackoutsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "restaurant_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	WaitlistIndexes = []mongo.IndexModel{
		// FIFO position count and queue-head lookups.
		{Keys: bson.D{
			{Key: "restaurant_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "created_at", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "restaurant_id", Value: 1},
			{Key: "requested_date", Value: 1},
			{Key: "status", Value: 1},
		}},
	}

	SlotLocksIndexes = []mongo.IndexModel{
		// TTL reaper for locks orphaned by crashed requests.
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Tables": {
			Indexes:   TablesIndexes,
			Validator: validators.TableValidator,
		},
		"Reservations": {
			Indexes:   ReservationsIndexes,
			Validator: validators.ReservationValidator,
		},
		"Blackout_dates": {
			Indexes:   BlackoutsIndexes,
			Validator: validators.BlackoutValidator,
		},
		"Waitlist_entries": {
			Indexes:   WaitlistIndexes,
			Validator: validators.WaitlistValidator,
		},
		"Slot_locks": {
			Indexes:   SlotLocksIndexes,
			Validator: validators.SlotLockValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("Collection %s already exists, updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}
