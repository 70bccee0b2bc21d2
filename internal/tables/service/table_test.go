package service

import (
	"context"
	"testing"
	"time"

	"tably/internal/tables/validator"
	"tably/pkg/clock"
	"tably/pkg/config"
	apperrors "tably/pkg/errors"
	"tably/pkg/logger"
	"tably/pkg/model"
)

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

type mockReservationLookup struct {
	findBlockingFunc func(ctx context.Context, tableID, date string) ([]*model.Reservation, error)
}

func (m *mockReservationLookup) FindBlockingByTableOnDate(ctx context.Context, tableID, date string) ([]*model.Reservation, error) {
	if m.findBlockingFunc != nil {
		return m.findBlockingFunc(ctx, tableID, date)
	}
	return nil, nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestService(repo *mockTableRepository, reservations *mockReservationLookup, clk clock.Clock) TableService {
	cfg := newTestConfig()
	return NewTableService(repo, reservations, validator.NewTableValidator(cfg.Log), clk, cfg)
}

func TestSetStatus_MaintenanceBlockedByConfirmedReservation(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	var lookedUpDate string
	repo := &mockTableRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Table, error) {
			return &model.Table{ID: id, TableNumber: "5", Status: model.TableAvailable}, nil
		},
	}
	reservations := &mockReservationLookup{
		findBlockingFunc: func(ctx context.Context, tableID, date string) ([]*model.Reservation, error) {
			lookedUpDate = date
			return []*model.Reservation{
				{Status: model.ReservationConfirmed, CustomerName: "Dana Levi", StartTime: "19:00"},
			}, nil
		},
	}

	svc := newTestService(repo, reservations, clock.Fixed{T: now})

	err := svc.SetStatus(context.Background(), "64f000000000000000000001", model.TableMaintenance)
	if err == nil {
		t.Fatal("expected conflict, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
	if lookedUpDate != "2026-03-15" {
		t.Errorf("expected lookup for today 2026-03-15, got %s", lookedUpDate)
	}
}

func TestSetStatus_MaintenanceAllowedWhenOnlyCancelledToday(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	var updated model.TableStatus
	repo := &mockTableRepository{
		updateStatusFunc: func(ctx context.Context, id string, status model.TableStatus) error {
			updated = status
			return nil
		},
	}
	reservations := &mockReservationLookup{
		findBlockingFunc: func(ctx context.Context, tableID, date string) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{Status: model.ReservationCancelled, CustomerName: "Dana Levi", StartTime: "19:00"},
			}, nil
		},
	}

	svc := newTestService(repo, reservations, clock.Fixed{T: now})

	if err := svc.SetStatus(context.Background(), "64f000000000000000000001", model.TableMaintenance); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != model.TableMaintenance {
		t.Errorf("expected status update to MAINTENANCE, got %q", updated)
	}
}

func TestSetStatus_BackToAvailableSkipsReservationCheck(t *testing.T) {
	lookupCalled := false
	repo := &mockTableRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Table, error) {
			return &model.Table{ID: id, Status: model.TableMaintenance}, nil
		},
	}
	reservations := &mockReservationLookup{
		findBlockingFunc: func(ctx context.Context, tableID, date string) ([]*model.Reservation, error) {
			lookupCalled = true
			return nil, nil
		},
	}

	svc := newTestService(repo, reservations, clock.SystemClock{})

	if err := svc.SetStatus(context.Background(), "64f000000000000000000001", model.TableAvailable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookupCalled {
		t.Error("reservation lookup should not run when returning a table to service")
	}
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	svc := newTestService(&mockTableRepository{}, &mockReservationLookup{}, clock.SystemClock{})

	err := svc.SetStatus(context.Background(), "64f000000000000000000001", model.TableStatus("BROKEN"))
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestCreate_DefaultsStatusAndValidates(t *testing.T) {
	var created *model.Table
	repo := &mockTableRepository{
		createFunc: func(ctx context.Context, table *model.Table) error {
			created = table
			return nil
		},
	}

	svc := newTestService(repo, &mockReservationLookup{}, clock.SystemClock{})

	table := &model.Table{
		RestaurantID: "64f000000000000000000009",
		TableNumber:  "  12 ",
		Capacity:     4,
		Location:     "window",
	}
	if err := svc.Create(context.Background(), table); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != model.TableAvailable {
		t.Errorf("expected default status AVAILABLE, got %q", created.Status)
	}
	if created.TableNumber != "12" {
		t.Errorf("expected trimmed table number, got %q", created.TableNumber)
	}
}

func TestCreate_InvalidCapacity(t *testing.T) {
	svc := newTestService(&mockTableRepository{}, &mockReservationLookup{}, clock.SystemClock{})

	err := svc.Create(context.Background(), &model.Table{
		RestaurantID: "64f000000000000000000009",
		TableNumber:  "1",
		Capacity:     0,
	})
	if err == nil {
		t.Fatal("expected validation error for zero capacity")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", apperrors.AsAppError(err).Code)
	}
}
