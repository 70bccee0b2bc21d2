package service

import (
	"context"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"tably/internal/reservations/events"
	"tably/pkg/clock"
	apperrors "tably/pkg/errors"
	"tably/pkg/model"
	"tably/pkg/timeslot"
)

// inMemorySlotState emulates the two storage-level guarantees the service
// leans on: unique _id inserts on the lock collection and an overlap scan
// that sees committed reservations.
type inMemorySlotState struct {
	mu           sync.Mutex
	locks        map[string]bool
	reservations []*model.Reservation
}

func (s *inMemorySlotState) acquire(lock *model.SlotLock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[lock.ID] {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	s.locks[lock.ID] = true
	return nil
}

func (s *inMemorySlotState) release(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, id)
	return nil
}

func (s *inMemorySlotState) insert(r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *r
	s.reservations = append(s.reservations, &copied)
	return nil
}

func (s *inMemorySlotState) overlapping(tableID, date, startTime, endTime string) []*model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Reservation
	for _, r := range s.reservations {
		if r.TableID == tableID && r.ReservationDate == date && r.Status.Blocking() &&
			timeslot.Overlaps(r.StartTime, r.EndTime, startTime, endTime) {
			out = append(out, r)
		}
	}
	return out
}

func TestCreate_ConcurrentRequestsOneWinner(t *testing.T) {
	cfg := newTestConfig()
	state := &inMemorySlotState{locks: make(map[string]bool)}

	tables := &mockTableRepository{
		findAvailableByCapacityFunc: func(ctx context.Context, restaurantID string, minGuests int) ([]*model.Table, error) {
			return []*model.Table{{ID: "64f100000000000000000004", Capacity: 4, Status: model.TableAvailable}}, nil
		},
	}
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, reservation *model.Reservation) error {
			reservation.ID = "64f1000000000000000000aa"
			return state.insert(reservation)
		},
		findOverlappingFunc: func(ctx context.Context, tableID, date, startTime, endTime, excludeID string) ([]*model.Reservation, error) {
			return state.overlapping(tableID, date, startTime, endTime), nil
		},
	}
	locks := &mockSlotLockRepository{
		acquireFunc: func(ctx context.Context, lock *model.SlotLock) error {
			return state.acquire(lock)
		},
		releaseFunc: func(ctx context.Context, id string) error {
			return state.release(id)
		},
	}

	availability := newTestAvailability(tables, &mockBlackoutRepository{}, repo, clock.Fixed{T: testNow}, cfg)
	svc := newTestReservationService(repo, locks, availability, events.NopPublisher{}, clock.Fixed{T: testNow}, cfg)

	const attempts = 16
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), validReservation())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case apperrors.AsAppError(err).Code == apperrors.CodeConflict:
			conflicts++
		default:
			t.Errorf("unexpected error kind: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly one winner, got %d", successes)
	}
	if successes+conflicts != attempts {
		t.Errorf("expected %d total outcomes, got %d successes and %d conflicts", attempts, successes, conflicts)
	}
	if len(state.reservations) != 1 {
		t.Errorf("expected exactly one stored reservation, got %d", len(state.reservations))
	}
}
