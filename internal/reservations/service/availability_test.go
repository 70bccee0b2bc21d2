package service

import (
	"context"
	"testing"
	"time"

	"tably/pkg/clock"
	apperrors "tably/pkg/errors"
	"tably/pkg/model"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

func fourTables() []*model.Table {
	// Already sorted by capacity, matching the repository's index order.
	return []*model.Table{
		{ID: "64f100000000000000000002", TableNumber: "2", Capacity: 2, Status: model.TableAvailable},
		{ID: "64f100000000000000000003", TableNumber: "3", Capacity: 2, Status: model.TableAvailable},
		{ID: "64f100000000000000000004", TableNumber: "4", Capacity: 4, Status: model.TableAvailable},
		{ID: "64f100000000000000000006", TableNumber: "6", Capacity: 6, Status: model.TableAvailable},
	}
}

func TestCheck_BestFitOrdering(t *testing.T) {
	tables := &mockTableRepository{
		findAvailableByCapacityFunc: func(ctx context.Context, restaurantID string, minGuests int) ([]*model.Table, error) {
			var fitting []*model.Table
			for _, table := range fourTables() {
				if table.Capacity >= minGuests {
					fitting = append(fitting, table)
				}
			}
			return fitting, nil
		},
	}

	svc := newTestAvailability(tables, &mockBlackoutRepository{}, &mockReservationRepository{}, clock.Fixed{T: testNow}, newTestConfig())

	result, err := svc.Check(context.Background(), &AvailabilityRequest{
		RestaurantID: "64f000000000000000000009",
		Date:         "2026-03-20",
		StartTime:    "19:00",
		GuestCount:   3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("expected available, got reason %q", result.Reason)
	}
	// Party of 3 skips the two-tops; capacity 4 is the tightest fit.
	if result.Candidates[0].Capacity != 4 {
		t.Errorf("expected best fit capacity 4, got %d", result.Candidates[0].Capacity)
	}
	if len(result.Candidates) != 2 {
		t.Errorf("expected 2 candidates, got %d", len(result.Candidates))
	}
	if result.EndTime != "21:00" {
		t.Errorf("expected end time 21:00, got %s", result.EndTime)
	}
}

func TestCheck_BlackoutTakesPrecedence(t *testing.T) {
	tablesQueried := false
	tables := &mockTableRepository{
		findAvailableByCapacityFunc: func(ctx context.Context, restaurantID string, minGuests int) ([]*model.Table, error) {
			tablesQueried = true
			return fourTables(), nil
		},
	}
	blackouts := &mockBlackoutRepository{
		isBlackoutFunc: func(ctx context.Context, restaurantID, date string) (bool, error) {
			return true, nil
		},
	}

	svc := newTestAvailability(tables, blackouts, &mockReservationRepository{}, clock.Fixed{T: testNow}, newTestConfig())

	result, err := svc.Check(context.Background(), &AvailabilityRequest{
		RestaurantID: "64f000000000000000000009",
		Date:         "2026-03-20",
		StartTime:    "19:00",
		GuestCount:   2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected unavailable on blackout date")
	}
	if result.Reason != "restaurant is closed on 2026-03-20" {
		t.Errorf("unexpected reason: %q", result.Reason)
	}
	if tablesQueried {
		t.Error("blackout should short-circuit before the candidate scan")
	}
}

func TestCheck_NoTableFitsParty(t *testing.T) {
	tables := &mockTableRepository{
		findAvailableByCapacityFunc: func(ctx context.Context, restaurantID string, minGuests int) ([]*model.Table, error) {
			return nil, nil
		},
	}

	svc := newTestAvailability(tables, &mockBlackoutRepository{}, &mockReservationRepository{}, clock.Fixed{T: testNow}, newTestConfig())

	result, err := svc.Check(context.Background(), &AvailabilityRequest{
		RestaurantID: "64f000000000000000000009",
		Date:         "2026-03-20",
		StartTime:    "19:00",
		GuestCount:   12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected unavailable")
	}
	if result.Reason != "no table fits a party of 12" {
		t.Errorf("unexpected reason: %q", result.Reason)
	}
}

func TestCheck_FullyBooked(t *testing.T) {
	tables := &mockTableRepository{
		findAvailableByCapacityFunc: func(ctx context.Context, restaurantID string, minGuests int) ([]*model.Table, error) {
			return fourTables(), nil
		},
	}
	reservations := &mockReservationRepository{
		findOverlappingFunc: func(ctx context.Context, tableID, date, startTime, endTime, excludeID string) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{TableID: tableID, StartTime: "18:00", EndTime: "20:00", Status: model.ReservationConfirmed},
			}, nil
		},
	}

	svc := newTestAvailability(tables, &mockBlackoutRepository{}, reservations, clock.Fixed{T: testNow}, newTestConfig())

	result, err := svc.Check(context.Background(), &AvailabilityRequest{
		RestaurantID: "64f000000000000000000009",
		Date:         "2026-03-20",
		StartTime:    "19:00",
		GuestCount:   2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected unavailable")
	}
	if result.Reason != "fully booked for this time slot" {
		t.Errorf("unexpected reason: %q", result.Reason)
	}
}

func TestCheck_AdjacentSlotsDoNotConflict(t *testing.T) {
	// Existing reservation 17:00-19:00; a 19:00 start on the same table is
	// fine under half-open windows.
	tables := &mockTableRepository{
		findAvailableByCapacityFunc: func(ctx context.Context, restaurantID string, minGuests int) ([]*model.Table, error) {
			return fourTables()[:1], nil
		},
	}
	reservations := &mockReservationRepository{
		findOverlappingFunc: func(ctx context.Context, tableID, date, startTime, endTime, excludeID string) ([]*model.Reservation, error) {
			existingStart, existingEnd := "17:00", "19:00"
			if existingStart < endTime && existingEnd > startTime {
				return []*model.Reservation{{TableID: tableID, StartTime: existingStart, EndTime: existingEnd}}, nil
			}
			return nil, nil
		},
	}

	svc := newTestAvailability(tables, &mockBlackoutRepository{}, reservations, clock.Fixed{T: testNow}, newTestConfig())

	result, err := svc.Check(context.Background(), &AvailabilityRequest{
		RestaurantID: "64f000000000000000000009",
		Date:         "2026-03-20",
		StartTime:    "19:00",
		GuestCount:   2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("back-to-back slot should be available, got reason %q", result.Reason)
	}
}

func TestCheck_PastDateRejected(t *testing.T) {
	svc := newTestAvailability(&mockTableRepository{}, &mockBlackoutRepository{}, &mockReservationRepository{}, clock.Fixed{T: testNow}, newTestConfig())

	result, err := svc.Check(context.Background(), &AvailabilityRequest{
		RestaurantID: "64f000000000000000000009",
		Date:         "2026-03-09",
		StartTime:    "19:00",
		GuestCount:   2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected past date to be unavailable")
	}
	if result.Reason != "reservation date is in the past" {
		t.Errorf("unexpected reason: %q", result.Reason)
	}
}

func TestCheck_PastDateAllowedWhenPolicyOff(t *testing.T) {
	cfg := newTestConfig()
	cfg.RejectPastDates = false

	tables := &mockTableRepository{
		findAvailableByCapacityFunc: func(ctx context.Context, restaurantID string, minGuests int) ([]*model.Table, error) {
			return fourTables(), nil
		},
	}

	svc := newTestAvailability(tables, &mockBlackoutRepository{}, &mockReservationRepository{}, clock.Fixed{T: testNow}, cfg)

	result, err := svc.Check(context.Background(), &AvailabilityRequest{
		RestaurantID: "64f000000000000000000009",
		Date:         "2026-03-09",
		StartTime:    "19:00",
		GuestCount:   2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Errorf("expected available with policy off, got reason %q", result.Reason)
	}
}

func TestCheck_SlotCrossingMidnight(t *testing.T) {
	svc := newTestAvailability(&mockTableRepository{}, &mockBlackoutRepository{}, &mockReservationRepository{}, clock.Fixed{T: testNow}, newTestConfig())

	_, err := svc.Check(context.Background(), &AvailabilityRequest{
		RestaurantID: "64f000000000000000000009",
		Date:         "2026-03-20",
		StartTime:    "23:00",
		GuestCount:   2,
	})
	if err == nil {
		t.Fatal("expected error for slot crossing midnight")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", apperrors.AsAppError(err).Code)
	}
}
