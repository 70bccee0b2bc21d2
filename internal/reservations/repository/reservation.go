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

	reservationserrors "tably/internal/reservations/errors"
	"tably/pkg/config"
	dbmongo "tably/pkg/db/mongo"
	"tably/pkg/model"
)

const (
	CollectionName = "Reservations"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	// FindOverlapping returns blocking reservations on the table whose
	// [start, end) window intersects the given one. excludeID skips the
	// reservation being updated so it does not conflict with itself.
	FindOverlapping(ctx context.Context, tableID, date, startTime, endTime, excludeID string) ([]*model.Reservation, error)
	FindBlockingByTableOnDate(ctx context.Context, tableID, date string) ([]*model.Reservation, error)
	FindByRestaurantAndDate(ctx context.Context, restaurantID, date string, limit int, offset int64) ([]*model.Reservation, int64, error)
	FindByCustomerPhone(ctx context.Context, restaurantID, phone string, limit int, offset int64) ([]*model.Reservation, int64, error)
	Update(ctx context.Context, id string, reservation *model.Reservation) error
	UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) error
	Cancel(ctx context.Context, id string, reason string, at time.Time) error
	ExecuteTransaction(ctx context.Context, fn dbmongo.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  dbmongo.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  dbmongo.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	var reservation model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) FindOverlapping(ctx context.Context, tableID, date, startTime, endTime, excludeID string) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Half-open windows: [a,b) and [c,d) intersect iff a < d && b > c.
	// Zero-padded HH:MM strings compare chronologically.
	filter := bson.M{
		"table_id":         tableID,
		"reservation_date": date,
		"start_time":       bson.M{"$lt": endTime},
		"end_time":         bson.M{"$gt": startTime},
		"status":           bson.M{"$in": []model.ReservationStatus{model.ReservationConfirmed, model.ReservationCompleted}},
	}
	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, excludeID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) FindBlockingByTableOnDate(ctx context.Context, tableID, date string) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"table_id":         tableID,
		"reservation_date": date,
		"status":           bson.M{"$in": []model.ReservationStatus{model.ReservationConfirmed, model.ReservationCompleted}},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations for table: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations for table: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) FindByRestaurantAndDate(ctx context.Context, restaurantID, date string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	filter := bson.M{
		"restaurant_id":    restaurantID,
		"reservation_date": date,
	}
	return r.findPaginated(ctx, filter, bson.D{{Key: "start_time", Value: 1}}, limit, offset)
}

func (r *mongoReservationRepository) FindByCustomerPhone(ctx context.Context, restaurantID, phone string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	filter := bson.M{
		"restaurant_id":  restaurantID,
		"customer_phone": phone,
	}
	return r.findPaginated(ctx, filter, bson.D{
		{Key: "reservation_date", Value: -1},
		{Key: "start_time", Value: -1},
	}, limit, offset)
}

func (r *mongoReservationRepository) findPaginated(ctx context.Context, filter bson.M, sort bson.D, limit int, offset int64) ([]*model.Reservation, int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	opts := options.Find().
		SetSort(sort).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, 0, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, total, nil
}

func (r *mongoReservationRepository) Update(ctx context.Context, id string, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"table_id":         reservation.TableID,
		"customer_name":    reservation.CustomerName,
		"customer_phone":   reservation.CustomerPhone,
		"customer_email":   reservation.CustomerEmail,
		"reservation_date": reservation.ReservationDate,
		"start_time":       reservation.StartTime,
		"end_time":         reservation.EndTime,
		"guest_count":      reservation.GuestCount,
		"special_requests": reservation.SpecialRequests,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationserrors.ErrNotFound
	}

	return nil
}

func (r *mongoReservationRepository) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationserrors.ErrNotFound
	}

	return nil
}

func (r *mongoReservationRepository) Cancel(ctx context.Context, id string, reason string, at time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"status":              model.ReservationCancelled,
		"cancellation_reason": reason,
		"cancelled_at":        at,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationserrors.ErrNotFound
	}

	return nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn dbmongo.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
