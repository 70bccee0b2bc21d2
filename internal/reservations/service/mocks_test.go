package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"tably/internal/reservations/events"
	"tably/internal/reservations/validator"
	"tably/pkg/clock"
	"tably/pkg/config"
	dbmongo "tably/pkg/db/mongo"
	"tably/pkg/logger"
	"tably/pkg/model"
)

type mockReservationRepository struct {
	createFunc              func(ctx context.Context, reservation *model.Reservation) error
	findByIDFunc            func(ctx context.Context, id string) (*model.Reservation, error)
	findOverlappingFunc     func(ctx context.Context, tableID, date, startTime, endTime, excludeID string) ([]*model.Reservation, error)
	findBlockingFunc        func(ctx context.Context, tableID, date string) ([]*model.Reservation, error)
	findByRestaurantFunc    func(ctx context.Context, restaurantID, date string, limit int, offset int64) ([]*model.Reservation, int64, error)
	findByCustomerPhoneFunc func(ctx context.Context, restaurantID, phone string, limit int, offset int64) ([]*model.Reservation, int64, error)
	updateFunc              func(ctx context.Context, id string, reservation *model.Reservation) error
	updateStatusFunc        func(ctx context.Context, id string, status model.ReservationStatus) error
	cancelFunc              func(ctx context.Context, id string, reason string, at time.Time) error
	executeTransactionFunc  func(ctx context.Context, fn dbmongo.TransactionFunc) error
}

func (m *mockReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, reservation)
	}
	reservation.ID = "64f1000000000000000000aa"
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Reservation{ID: id, Status: model.ReservationConfirmed}, nil
}

func (m *mockReservationRepository) FindOverlapping(ctx context.Context, tableID, date, startTime, endTime, excludeID string) ([]*model.Reservation, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, tableID, date, startTime, endTime, excludeID)
	}
	return nil, nil
}

func (m *mockReservationRepository) FindBlockingByTableOnDate(ctx context.Context, tableID, date string) ([]*model.Reservation, error) {
	if m.findBlockingFunc != nil {
		return m.findBlockingFunc(ctx, tableID, date)
	}
	return nil, nil
}

func (m *mockReservationRepository) FindByRestaurantAndDate(ctx context.Context, restaurantID, date string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if m.findByRestaurantFunc != nil {
		return m.findByRestaurantFunc(ctx, restaurantID, date, limit, offset)
	}
	return []*model.Reservation{}, 0, nil
}

func (m *mockReservationRepository) FindByCustomerPhone(ctx context.Context, restaurantID, phone string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if m.findByCustomerPhoneFunc != nil {
		return m.findByCustomerPhoneFunc(ctx, restaurantID, phone, limit, offset)
	}
	return []*model.Reservation{}, 0, nil
}

func (m *mockReservationRepository) Update(ctx context.Context, id string, reservation *model.Reservation) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, reservation)
	}
	return nil
}

func (m *mockReservationRepository) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockReservationRepository) Cancel(ctx context.Context, id string, reason string, at time.Time) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id, reason, at)
	}
	return nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn dbmongo.TransactionFunc) error {
	if m.executeTransactionFunc != nil {
		return m.executeTransactionFunc(ctx, fn)
	}
	return fn(mongo.SessionContext(nil))
}

type mockSlotLockRepository struct {
	acquireFunc func(ctx context.Context, lock *model.SlotLock) error
	releaseFunc func(ctx context.Context, id string) error
}

func (m *mockSlotLockRepository) Acquire(ctx context.Context, lock *model.SlotLock) error {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, lock)
	}
	return nil
}

func (m *mockSlotLockRepository) Release(ctx context.Context, id string) error {
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, id)
	}
	return nil
}

type mockTableRepository struct {
	createFunc                  func(ctx context.Context, table *model.Table) error
	findByIDFunc                func(ctx context.Context, id string) (*model.Table, error)
	findByRestaurantFunc        func(ctx context.Context, restaurantID string) ([]*model.Table, error)
	findAvailableByCapacityFunc func(ctx context.Context, restaurantID string, minGuests int) ([]*model.Table, error)
	updateStatusFunc            func(ctx context.Context, id string, status model.TableStatus) error
}

func (m *mockTableRepository) Create(ctx context.Context, table *model.Table) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, table)
	}
	return nil
}

func (m *mockTableRepository) FindByID(ctx context.Context, id string) (*model.Table, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Table{ID: id, Status: model.TableAvailable}, nil
}

func (m *mockTableRepository) FindByRestaurant(ctx context.Context, restaurantID string) ([]*model.Table, error) {
	if m.findByRestaurantFunc != nil {
		return m.findByRestaurantFunc(ctx, restaurantID)
	}
	return []*model.Table{}, nil
}

func (m *mockTableRepository) FindAvailableByCapacity(ctx context.Context, restaurantID string, minGuests int) ([]*model.Table, error) {
	if m.findAvailableByCapacityFunc != nil {
		return m.findAvailableByCapacityFunc(ctx, restaurantID, minGuests)
	}
	return []*model.Table{}, nil
}

func (m *mockTableRepository) UpdateStatus(ctx context.Context, id string, status model.TableStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

type mockBlackoutRepository struct {
	createFunc           func(ctx context.Context, blackout *model.BlackoutDate) error
	deleteFunc           func(ctx context.Context, restaurantID, date string) error
	isBlackoutFunc       func(ctx context.Context, restaurantID, date string) (bool, error)
	findByRestaurantFunc func(ctx context.Context, restaurantID string) ([]*model.BlackoutDate, error)
}

func (m *mockBlackoutRepository) Create(ctx context.Context, blackout *model.BlackoutDate) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, blackout)
	}
	return nil
}

func (m *mockBlackoutRepository) Delete(ctx context.Context, restaurantID, date string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, restaurantID, date)
	}
	return nil
}

func (m *mockBlackoutRepository) IsBlackout(ctx context.Context, restaurantID, date string) (bool, error) {
	if m.isBlackoutFunc != nil {
		return m.isBlackoutFunc(ctx, restaurantID, date)
	}
	return false, nil
}

func (m *mockBlackoutRepository) FindByRestaurant(ctx context.Context, restaurantID string) ([]*model.BlackoutDate, error) {
	if m.findByRestaurantFunc != nil {
		return m.findByRestaurantFunc(ctx, restaurantID)
	}
	return []*model.BlackoutDate{}, nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		SlotDuration:       2 * time.Hour,
		ModificationCutoff: 2 * time.Hour,
		SlotLockTTL:        10 * time.Second,
		RejectPastDates:    true,
		MaxPartySize:       50,
	}
}

func newTestAvailability(
	tables *mockTableRepository,
	blackouts *mockBlackoutRepository,
	reservations *mockReservationRepository,
	clk clock.Clock,
	cfg *config.Config,
) AvailabilityService {
	return NewAvailabilityService(tables, blackouts, reservations, clk, cfg)
}

func newTestReservationService(
	repo *mockReservationRepository,
	locks *mockSlotLockRepository,
	availability AvailabilityService,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
) ReservationService {
	return NewReservationService(
		repo,
		locks,
		availability,
		validator.NewReservationValidator(cfg.Log, cfg.MaxPartySize),
		publisher,
		clk,
		cfg,
	)
}

// recordingPublisher captures published event types for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, reservation *model.Reservation, reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}
