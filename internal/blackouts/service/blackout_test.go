package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	blackoutserrors "tably/internal/blackouts/errors"
	"tably/internal/blackouts/validator"
	"tably/pkg/config"
	apperrors "tably/pkg/errors"
	"tably/pkg/logger"
	"tably/pkg/model"
)

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

func newTestService(repo *mockBlackoutRepository) BlackoutService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewBlackoutService(repo, validator.NewBlackoutValidator(cfg.Log), cfg)
}

func TestCreate_Valid(t *testing.T) {
	var created *model.BlackoutDate
	svc := newTestService(&mockBlackoutRepository{
		createFunc: func(ctx context.Context, blackout *model.BlackoutDate) error {
			created = blackout
			return nil
		},
	})

	err := svc.Create(context.Background(), &model.BlackoutDate{
		RestaurantID: "64f000000000000000000009",
		Date:         "2026-12-25",
		Reason:       "  holiday closure ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Reason != "holiday closure" {
		t.Errorf("expected normalized reason, got %q", created.Reason)
	}
}

func TestCreate_RejectsBadDate(t *testing.T) {
	svc := newTestService(&mockBlackoutRepository{})

	err := svc.Create(context.Background(), &model.BlackoutDate{
		RestaurantID: "64f000000000000000000009",
		Date:         "25/12/2026",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestCreate_DuplicateDateIsConflict(t *testing.T) {
	svc := newTestService(&mockBlackoutRepository{
		createFunc: func(ctx context.Context, blackout *model.BlackoutDate) error {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
	})

	err := svc.Create(context.Background(), &model.BlackoutDate{
		RestaurantID: "64f000000000000000000009",
		Date:         "2026-12-25",
	})
	if err == nil {
		t.Fatal("expected conflict")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(&mockBlackoutRepository{
		deleteFunc: func(ctx context.Context, restaurantID, date string) error {
			return blackoutserrors.ErrNotFound
		},
	})

	err := svc.Delete(context.Background(), "64f000000000000000000009", "2026-12-25")
	if err == nil {
		t.Fatal("expected not found")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}
