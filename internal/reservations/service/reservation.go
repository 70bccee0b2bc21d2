package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"tably/internal/reservations/events"
	reservationserrors "tably/internal/reservations/errors"
	"tably/internal/reservations/repository"
	"tably/internal/reservations/validator"
	"tably/pkg/clock"
	"tably/pkg/config"
	apperrors "tably/pkg/errors"
	"tably/pkg/model"
	"tably/pkg/sanitizer"
	"tably/pkg/sealer"
	"tably/pkg/timeslot"
)

type ReservationService interface {
	// Create books the best-fitting free table and returns an opaque manage
	// token the guest can later use to modify or cancel without an account.
	Create(ctx context.Context, reservation *model.Reservation) (string, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetByManageToken(ctx context.Context, token string) (*model.Reservation, error)
	Update(ctx context.Context, id string, updates *model.ReservationUpdate) error
	Cancel(ctx context.Context, id string, reason string) error
	MarkCompleted(ctx context.Context, id string) error
	MarkNoShow(ctx context.Context, id string) error
	ListByDate(ctx context.Context, restaurantID, date string, limit int, offset int64) ([]*model.Reservation, int64, error)
	ListByCustomer(ctx context.Context, restaurantID, phone string, limit int, offset int64) ([]*model.Reservation, int64, error)
}

type reservationService struct {
	repo         repository.ReservationRepository
	lockRepo     repository.SlotLockRepository
	availability AvailabilityService
	validator    *validator.ReservationValidator
	publisher    events.Publisher
	clock        clock.Clock
	cfg          *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.SlotLockRepository,
	availability AvailabilityService,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:         repo,
		lockRepo:     lockRepo,
		availability: availability,
		validator:    validator,
		publisher:    publisher,
		clock:        clk,
		cfg:          cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) (string, error) {
	s.applyDefaults(reservation)
	s.sanitize(reservation)

	endTime, err := timeslot.End(reservation.StartTime, s.cfg.SlotDuration)
	if err != nil {
		if errors.Is(err, timeslot.ErrCrossesMidnight) {
			return "", apperrors.InvalidInput("Reservation slot cannot cross midnight")
		}
		return "", apperrors.InvalidInput("Start time must be in HH:MM format")
	}
	reservation.EndTime = endTime

	if err := s.validate(reservation); err != nil {
		return "", err
	}

	result, err := s.availability.Check(ctx, &AvailabilityRequest{
		RestaurantID: reservation.RestaurantID,
		Date:         reservation.ReservationDate,
		StartTime:    reservation.StartTime,
		GuestCount:   reservation.GuestCount,
	})
	if err != nil {
		return "", err
	}
	if !result.Available {
		return "", s.unavailable(result.Reason)
	}
	reservation.TableID = result.Candidates[0].ID

	lockID, err := s.acquireSlotLock(ctx, reservation.TableID, reservation.ReservationDate, reservation.StartTime)
	if err != nil {
		return "", err
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifySlotFree(sessCtx, reservation, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, reservation); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return apperrors.Conflict("Table was just booked for this time slot")
			}
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return "", err
	}

	token, err := sealer.CreateManageToken(reservation.RestaurantID, reservation.ID)
	if err != nil {
		// The booking stands either way; the guest just loses self-service.
		s.cfg.Log.Error("Failed to create manage token", "reservation_id", reservation.ID, "error", err)
	}

	s.publisher.Publish(ctx, events.TypeCreated, reservation, "")
	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"restaurant_id", reservation.RestaurantID,
		"table_id", reservation.TableID,
		"date", reservation.ReservationDate,
		"start_time", reservation.StartTime,
		"guest_count", reservation.GuestCount,
	)
	return token, nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

func (s *reservationService) GetByManageToken(ctx context.Context, token string) (*model.Reservation, error) {
	restaurantID, reservationID, err := sealer.ParseManageToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid manage token")
	}

	reservation, err := s.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.RestaurantID != restaurantID {
		return nil, apperrors.Unauthorized("Invalid manage token")
	}
	return reservation, nil
}

func (s *reservationService) Update(ctx context.Context, id string, updates *model.ReservationUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	if updates.Empty() {
		return apperrors.InvalidInput("No fields to update")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status.Terminal() {
		return apperrors.Conflict(fmt.Sprintf("Reservation is %s and can no longer change", existing.Status))
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	// The cutoff applies to the slot currently held, so a guest cannot dodge
	// it by moving the reservation further out.
	if err := s.checkCutoff(existing); err != nil {
		return err
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)

	if updates.AffectsSlot() {
		endTime, err := timeslot.End(merged.StartTime, s.cfg.SlotDuration)
		if err != nil {
			if errors.Is(err, timeslot.ErrCrossesMidnight) {
				return apperrors.InvalidInput("Reservation slot cannot cross midnight")
			}
			return apperrors.InvalidInput("Start time must be in HH:MM format")
		}
		merged.EndTime = endTime

		if err := s.validate(merged); err != nil {
			return err
		}

		result, err := s.availability.Check(ctx, &AvailabilityRequest{
			RestaurantID:         merged.RestaurantID,
			Date:                 merged.ReservationDate,
			StartTime:            merged.StartTime,
			GuestCount:           merged.GuestCount,
			ExcludeReservationID: id,
		})
		if err != nil {
			return err
		}
		if !result.Available {
			return s.unavailable(result.Reason)
		}

		// Keep the current table when it still works; otherwise reassign to
		// the best fit.
		merged.TableID = result.Candidates[0].ID
		for _, table := range result.Candidates {
			if table.ID == existing.TableID {
				merged.TableID = existing.TableID
				break
			}
		}

		lockID, err := s.acquireSlotLock(ctx, merged.TableID, merged.ReservationDate, merged.StartTime)
		if err != nil {
			return err
		}
		defer func() {
			if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
			}
		}()

		err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := s.verifySlotFree(sessCtx, merged, id); err != nil {
				return err
			}
			if err := s.repo.Update(sessCtx, id, merged); err != nil {
				return apperrors.Internal("Failed to update reservation", err)
			}
			return nil
		})
		if err != nil {
			s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
			return err
		}
	} else {
		if err := s.validate(merged); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, id, merged); err != nil {
			if errors.Is(err, reservationserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Reservation", id)
			}
			return apperrors.Internal("Failed to update reservation", err)
		}
	}

	merged.ID = id
	s.publisher.Publish(ctx, events.TypeUpdated, merged, "")
	s.cfg.Log.Info("Reservation updated successfully", "id", id)
	return nil
}

func (s *reservationService) Cancel(ctx context.Context, id string, reason string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status == model.ReservationCancelled {
		return apperrors.Conflict("Reservation is already cancelled")
	}
	if existing.Status.Terminal() {
		return apperrors.Conflict(fmt.Sprintf("Reservation is %s and can no longer change", existing.Status))
	}
	if err := s.checkCutoff(existing); err != nil {
		return err
	}

	reason = sanitizer.NormalizeNote(reason)
	cancelledAt := s.clock.Now().UTC()

	if err := s.repo.Cancel(ctx, id, reason, cancelledAt); err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to cancel reservation", "id", id, "error", err)
		return apperrors.Internal("Failed to cancel reservation", err)
	}

	existing.Status = model.ReservationCancelled
	existing.CancelReason = reason
	existing.CancelledAt = &cancelledAt
	s.publisher.Publish(ctx, events.TypeCancelled, existing, reason)
	s.cfg.Log.Info("Reservation cancelled", "id", id, "reason", reason)
	return nil
}

func (s *reservationService) MarkCompleted(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.ReservationCompleted)
}

func (s *reservationService) MarkNoShow(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.ReservationNoShow)
}

// transition moves a CONFIRMED reservation to a staff-set terminal state.
// No cutoff here: these are recorded after the slot has come and gone.
func (s *reservationService) transition(ctx context.Context, id string, status model.ReservationStatus) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status != model.ReservationConfirmed {
		return apperrors.Conflict(fmt.Sprintf("Only a CONFIRMED reservation can become %s, current status is %s", status, existing.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to update reservation status", "id", id, "status", status, "error", err)
		return apperrors.Internal("Failed to update reservation status", err)
	}

	existing.Status = status
	s.publisher.Publish(ctx, events.TypeStatusChanged, existing, "")
	s.cfg.Log.Info("Reservation status updated", "id", id, "status", status)
	return nil
}

func (s *reservationService) ListByDate(ctx context.Context, restaurantID, date string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if restaurantID == "" {
		return nil, 0, apperrors.InvalidInput("Restaurant ID cannot be empty")
	}
	if _, err := timeslot.ParseDate(date, time.UTC); err != nil {
		return nil, 0, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	reservations, total, err := s.repo.FindByRestaurantAndDate(ctx, restaurantID, date, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "restaurant_id", restaurantID, "date", date, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return reservations, total, nil
}

func (s *reservationService) ListByCustomer(ctx context.Context, restaurantID, phone string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if restaurantID == "" {
		return nil, 0, apperrors.InvalidInput("Restaurant ID cannot be empty")
	}
	phone = sanitizer.NormalizePhone(phone)
	if phone == "" {
		return nil, 0, apperrors.InvalidInput("Customer phone must be a valid number")
	}

	reservations, total, err := s.repo.FindByCustomerPhone(ctx, restaurantID, phone, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list customer reservations", "restaurant_id", restaurantID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return reservations, total, nil
}

// --- Helpers ---

func (s *reservationService) applyDefaults(r *model.Reservation) {
	if r.Status == "" {
		r.Status = model.ReservationConfirmed
	}
	if r.BookingSource == "" {
		r.BookingSource = model.SourceOnline
	}
}

func (s *reservationService) sanitize(r *model.Reservation) {
	r.CustomerName = sanitizer.NormalizeName(r.CustomerName)
	r.CustomerEmail = sanitizer.NormalizeEmail(r.CustomerEmail)
	if normalized := sanitizer.NormalizePhone(r.CustomerPhone); normalized != "" {
		r.CustomerPhone = normalized
	}
	r.SpecialRequests = sanitizer.NormalizeNote(r.SpecialRequests)
}

func (s *reservationService) validate(r *model.Reservation) error {
	if err := s.validator.Validate(r); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *reservationService) mergeUpdates(existing *model.Reservation, updates *model.ReservationUpdate) *model.Reservation {
	merged := *existing

	if updates.ReservationDate != "" {
		merged.ReservationDate = updates.ReservationDate
	}
	if updates.StartTime != "" {
		merged.StartTime = updates.StartTime
	}
	if updates.GuestCount != nil {
		merged.GuestCount = *updates.GuestCount
	}
	if updates.CustomerName != "" {
		merged.CustomerName = updates.CustomerName
	}
	if updates.CustomerPhone != "" {
		merged.CustomerPhone = updates.CustomerPhone
	}
	if updates.CustomerEmail != "" {
		merged.CustomerEmail = updates.CustomerEmail
	}
	if updates.SpecialRequests != "" {
		merged.SpecialRequests = updates.SpecialRequests
	}

	return &merged
}

func (s *reservationService) checkCutoff(r *model.Reservation) error {
	ok, err := clock.CanModify(s.clock, r.ReservationDate, r.StartTime, s.cfg.ModificationCutoff)
	if err != nil {
		return apperrors.Internal("Failed to evaluate modification cutoff", err)
	}
	if !ok {
		return apperrors.Conflict(fmt.Sprintf(
			"Reservations can no longer be changed within %s of the start time", s.cfg.ModificationCutoff,
		))
	}
	return nil
}

func (s *reservationService) unavailable(reason string) error {
	if reason == "reservation date is in the past" {
		return apperrors.InvalidInput("Reservation date is in the past")
	}
	return apperrors.Conflict(fmt.Sprintf("Slot is not available: %s", reason))
}

// verifySlotFree re-checks the chosen table inside the transaction. The
// advisory lock narrows the race, this closes it.
func (s *reservationService) verifySlotFree(ctx context.Context, r *model.Reservation, excludeID string) error {
	overlapping, err := s.repo.FindOverlapping(ctx, r.TableID, r.ReservationDate, r.StartTime, r.EndTime, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to verify table availability", err)
	}
	if len(overlapping) > 0 {
		conflict := overlapping[0]
		return apperrors.Conflict(fmt.Sprintf(
			"Table is already reserved from %s to %s", conflict.StartTime, conflict.EndTime,
		))
	}
	return nil
}

func (s *reservationService) acquireSlotLock(ctx context.Context, tableID, date, startTime string) (string, error) {
	lockID := fmt.Sprintf("slot_%s_%s_%s", tableID, date, startTime)

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}
