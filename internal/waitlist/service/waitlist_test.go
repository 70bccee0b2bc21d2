package service

import (
	"context"
	"testing"
	"time"

	"tably/internal/waitlist/validator"
	"tably/pkg/config"
	apperrors "tably/pkg/errors"
	"tably/pkg/logger"
	"tably/pkg/model"
)

type mockWaitlistRepository struct {
	createFunc             func(ctx context.Context, entry *model.WaitlistEntry) error
	findByIDFunc           func(ctx context.Context, id string) (*model.WaitlistEntry, error)
	countWaitingBeforeFunc func(ctx context.Context, restaurantID string, createdAt time.Time) (int64, error)
	findOldestWaitingFunc  func(ctx context.Context, restaurantID, date string) (*model.WaitlistEntry, error)
	findByRestaurantFunc   func(ctx context.Context, restaurantID string, limit int, offset int64) ([]*model.WaitlistEntry, int64, error)
	updateStatusFunc       func(ctx context.Context, id string, status model.WaitlistStatus) error
}

func (m *mockWaitlistRepository) Create(ctx context.Context, entry *model.WaitlistEntry) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, entry)
	}
	entry.ID = "64f2000000000000000000aa"
	return nil
}

func (m *mockWaitlistRepository) FindByID(ctx context.Context, id string) (*model.WaitlistEntry, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.WaitlistEntry{ID: id, Status: model.WaitlistWaiting}, nil
}

func (m *mockWaitlistRepository) CountWaitingBefore(ctx context.Context, restaurantID string, createdAt time.Time) (int64, error) {
	if m.countWaitingBeforeFunc != nil {
		return m.countWaitingBeforeFunc(ctx, restaurantID, createdAt)
	}
	return 0, nil
}

func (m *mockWaitlistRepository) FindOldestWaiting(ctx context.Context, restaurantID, date string) (*model.WaitlistEntry, error) {
	if m.findOldestWaitingFunc != nil {
		return m.findOldestWaitingFunc(ctx, restaurantID, date)
	}
	return nil, nil
}

func (m *mockWaitlistRepository) FindByRestaurant(ctx context.Context, restaurantID string, limit int, offset int64) ([]*model.WaitlistEntry, int64, error) {
	if m.findByRestaurantFunc != nil {
		return m.findByRestaurantFunc(ctx, restaurantID, limit, offset)
	}
	return []*model.WaitlistEntry{}, 0, nil
}

func (m *mockWaitlistRepository) UpdateStatus(ctx context.Context, id string, status model.WaitlistStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func newTestService(repo *mockWaitlistRepository) WaitlistService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewWaitlistService(repo, validator.NewWaitlistValidator(cfg.Log), cfg)
}

func validEntry() *model.WaitlistEntry {
	return &model.WaitlistEntry{
		RestaurantID:  "64f000000000000000000009",
		RequestedDate: "2026-03-20",
		RequestedTime: "19:00",
		PartySize:     4,
		CustomerName:  "Dana Levi",
		CustomerPhone: "+14155550123",
	}
}

func TestJoin_ReturnsFIFOPosition(t *testing.T) {
	repo := &mockWaitlistRepository{
		countWaitingBeforeFunc: func(ctx context.Context, restaurantID string, createdAt time.Time) (int64, error) {
			return 3, nil
		},
	}
	svc := newTestService(repo)

	entry := validEntry()
	position, err := svc.Join(context.Background(), entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if position != 3 {
		t.Errorf("expected position 3, got %d", position)
	}
	if entry.Status != model.WaitlistWaiting {
		t.Errorf("expected WAITING, got %s", entry.Status)
	}
}

func TestJoin_InvalidEntry(t *testing.T) {
	svc := newTestService(&mockWaitlistRepository{})

	entry := validEntry()
	entry.RequestedTime = "late evening"
	_, err := svc.Join(context.Background(), entry)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestPosition_NonWaitingEntryHasNone(t *testing.T) {
	repo := &mockWaitlistRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.WaitlistEntry, error) {
			return &model.WaitlistEntry{ID: id, Status: model.WaitlistNotified}, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Position(context.Background(), "64f2000000000000000000aa")
	if err == nil {
		t.Fatal("expected conflict")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestMarkConverted_AlreadyTerminal(t *testing.T) {
	repo := &mockWaitlistRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.WaitlistEntry, error) {
			return &model.WaitlistEntry{ID: id, Status: model.WaitlistExpired}, nil
		},
	}
	svc := newTestService(repo)

	err := svc.MarkConverted(context.Background(), "64f2000000000000000000aa")
	if err == nil {
		t.Fatal("expected conflict")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
}
