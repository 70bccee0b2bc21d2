package service

import (
	"context"
	"errors"
	"fmt"

	"tably/internal/blackouts/repository"
	reservationsrepo "tably/internal/reservations/repository"
	tablesrepo "tably/internal/tables/repository"
	"tably/pkg/clock"
	"tably/pkg/config"
	apperrors "tably/pkg/errors"
	"tably/pkg/model"
	"tably/pkg/timeslot"
)

// AvailabilityRequest asks whether a party can be seated at a given slot.
// ExcludeReservationID is set when re-checking during an update so the
// reservation does not collide with itself.
type AvailabilityRequest struct {
	RestaurantID         string
	Date                 string
	StartTime            string
	GuestCount           int
	ExcludeReservationID string
}

// AvailabilityResult reports the outcome. Candidates holds every free table
// that fits the party, tightest capacity first, so index 0 is the table a
// create would take. Reason is set only when Available is false.
type AvailabilityResult struct {
	Available  bool           `json:"available"`
	Reason     string         `json:"reason,omitempty"`
	EndTime    string         `json:"end_time,omitempty"`
	Candidates []*model.Table `json:"candidates,omitempty"`
}

type AvailabilityService interface {
	Check(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResult, error)
}

type availabilityService struct {
	tables       tablesrepo.TableRepository
	blackouts    repository.BlackoutRepository
	reservations reservationsrepo.ReservationRepository
	clock        clock.Clock
	cfg          *config.Config
}

func NewAvailabilityService(
	tables tablesrepo.TableRepository,
	blackouts repository.BlackoutRepository,
	reservations reservationsrepo.ReservationRepository,
	clk clock.Clock,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		tables:       tables,
		blackouts:    blackouts,
		reservations: reservations,
		clock:        clk,
		cfg:          cfg,
	}
}

// Check resolves a slot request against blackouts, table capacity and
// existing reservations. Checks are ordered cheapest first: calendar policy,
// then blackout, then the candidate scan.
func (s *availabilityService) Check(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResult, error) {
	if req.RestaurantID == "" {
		return nil, apperrors.InvalidInput("Restaurant ID cannot be empty")
	}
	if req.GuestCount < 1 {
		return nil, apperrors.InvalidInput("Guest count must be at least 1")
	}
	if _, err := timeslot.ParseDate(req.Date, s.clock.Now().Location()); err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	endTime, err := timeslot.End(req.StartTime, s.cfg.SlotDuration)
	if err != nil {
		if errors.Is(err, timeslot.ErrCrossesMidnight) {
			return nil, apperrors.InvalidInput("Reservation slot cannot cross midnight")
		}
		return nil, apperrors.InvalidInput("Start time must be in HH:MM format")
	}

	if s.cfg.RejectPastDates {
		past, err := clock.IsPastDate(s.clock, req.Date)
		if err != nil {
			return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
		}
		if past {
			return &AvailabilityResult{
				Available: false,
				Reason:    "reservation date is in the past",
				EndTime:   endTime,
			}, nil
		}
	}

	isBlackout, err := s.blackouts.IsBlackout(ctx, req.RestaurantID, req.Date)
	if err != nil {
		s.cfg.Log.Error("Failed to check blackout date", "restaurant_id", req.RestaurantID, "date", req.Date, "error", err)
		return nil, apperrors.Internal("Failed to check restaurant calendar", err)
	}
	if isBlackout {
		return &AvailabilityResult{
			Available: false,
			Reason:    fmt.Sprintf("restaurant is closed on %s", req.Date),
			EndTime:   endTime,
		}, nil
	}

	candidates, err := s.tables.FindAvailableByCapacity(ctx, req.RestaurantID, req.GuestCount)
	if err != nil {
		s.cfg.Log.Error("Failed to find candidate tables", "restaurant_id", req.RestaurantID, "error", err)
		return nil, apperrors.Internal("Failed to find candidate tables", err)
	}
	if len(candidates) == 0 {
		return &AvailabilityResult{
			Available: false,
			Reason:    fmt.Sprintf("no table fits a party of %d", req.GuestCount),
			EndTime:   endTime,
		}, nil
	}

	var free []*model.Table
	for _, table := range candidates {
		overlapping, err := s.reservations.FindOverlapping(ctx, table.ID, req.Date, req.StartTime, endTime, req.ExcludeReservationID)
		if err != nil {
			s.cfg.Log.Error("Failed to check table conflicts", "table_id", table.ID, "error", err)
			return nil, apperrors.Internal("Failed to check table conflicts", err)
		}
		if len(overlapping) == 0 {
			free = append(free, table)
		}
	}

	if len(free) == 0 {
		return &AvailabilityResult{
			Available: false,
			Reason:    "fully booked for this time slot",
			EndTime:   endTime,
		}, nil
	}

	return &AvailabilityResult{
		Available:  true,
		EndTime:    endTime,
		Candidates: free,
	}, nil
}
