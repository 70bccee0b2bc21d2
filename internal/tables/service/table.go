package service

import (
	"context"
	"errors"
	"fmt"

	tableserrors "tably/internal/tables/errors"
	"tably/internal/tables/repository"
	"tably/internal/tables/validator"
	"tably/pkg/clock"
	"tably/pkg/config"
	apperrors "tably/pkg/errors"
	"tably/pkg/model"
	"tably/pkg/sanitizer"
	"tably/pkg/timeslot"
)

// ReservationLookup is the narrow slice of the reservations repository the
// table service needs for the maintenance guard.
type ReservationLookup interface {
	FindBlockingByTableOnDate(ctx context.Context, tableID, date string) ([]*model.Reservation, error)
}

type TableService interface {
	Create(ctx context.Context, table *model.Table) error
	GetByID(ctx context.Context, id string) (*model.Table, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*model.Table, error)
	SetStatus(ctx context.Context, id string, status model.TableStatus) error
}

type tableService struct {
	repo         repository.TableRepository
	reservations ReservationLookup
	validator    *validator.TableValidator
	clock        clock.Clock
	cfg          *config.Config
}

func NewTableService(
	repo repository.TableRepository,
	reservations ReservationLookup,
	validator *validator.TableValidator,
	clk clock.Clock,
	cfg *config.Config,
) TableService {
	return &tableService{
		repo:         repo,
		reservations: reservations,
		validator:    validator,
		clock:        clk,
		cfg:          cfg,
	}
}

func (s *tableService) Create(ctx context.Context, table *model.Table) error {
	if table.Status == "" {
		table.Status = model.TableAvailable
	}
	table.Location = sanitizer.TrimAndNormalize(table.Location)
	table.TableNumber = sanitizer.TrimAndNormalize(table.TableNumber)

	if err := s.validator.Validate(table); err != nil {
		s.cfg.Log.Warn("Table validation failed", "error", err)
		return apperrors.Validation("Table validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, table); err != nil {
		s.cfg.Log.Error("Failed to create table", "error", err)
		return apperrors.Internal("Failed to create table", err)
	}

	s.cfg.Log.Info("Table created successfully",
		"id", table.ID,
		"restaurant_id", table.RestaurantID,
		"table_number", table.TableNumber,
		"capacity", table.Capacity,
	)
	return nil
}

func (s *tableService) GetByID(ctx context.Context, id string) (*model.Table, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Table ID cannot be empty")
	}

	table, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, tableserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Table", id)
		}
		if errors.Is(err, tableserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid table ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve table", err)
	}

	return table, nil
}

func (s *tableService) ListByRestaurant(ctx context.Context, restaurantID string) ([]*model.Table, error) {
	if restaurantID == "" {
		return nil, apperrors.InvalidInput("Restaurant ID cannot be empty")
	}

	tables, err := s.repo.FindByRestaurant(ctx, restaurantID)
	if err != nil {
		s.cfg.Log.Error("Failed to list tables", "restaurant_id", restaurantID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve tables", err)
	}

	return tables, nil
}

// SetStatus flips a table between AVAILABLE and MAINTENANCE. Taking a table
// into maintenance is refused while it still holds a confirmed reservation
// today; returning it to service is always allowed.
func (s *tableService) SetStatus(ctx context.Context, id string, status model.TableStatus) error {
	if id == "" {
		return apperrors.InvalidInput("Table ID cannot be empty")
	}
	if !status.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid table status: %s", status))
	}

	table, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if status == model.TableMaintenance {
		today := s.clock.Now().Format(timeslot.DateLayout)
		blocking, err := s.reservations.FindBlockingByTableOnDate(ctx, id, today)
		if err != nil {
			s.cfg.Log.Error("Failed to check reservations before maintenance", "table_id", id, "error", err)
			return apperrors.Internal("Failed to check table reservations", err)
		}
		for _, res := range blocking {
			if res.Status == model.ReservationConfirmed {
				return apperrors.Conflict(fmt.Sprintf(
					"Table %s has a confirmed reservation for %s at %s today",
					table.TableNumber, res.CustomerName, res.StartTime,
				))
			}
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, tableserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Table", id)
		}
		return apperrors.Internal("Failed to update table status", err)
	}

	s.cfg.Log.Info("Table status updated", "id", id, "status", status)
	return nil
}
