package service

import (
	"context"
	"errors"
	"fmt"

	waitlisterrors "tably/internal/waitlist/errors"
	"tably/internal/waitlist/repository"
	"tably/internal/waitlist/validator"
	"tably/pkg/config"
	apperrors "tably/pkg/errors"
	"tably/pkg/model"
	"tably/pkg/sanitizer"
)

type WaitlistService interface {
	// Join adds a party to the queue and returns its FIFO position,
	// zero-based: position 0 is next in line.
	Join(ctx context.Context, entry *model.WaitlistEntry) (int64, error)
	GetByID(ctx context.Context, id string) (*model.WaitlistEntry, error)
	// Position reports how many WAITING parties joined before this entry.
	Position(ctx context.Context, id string) (int64, error)
	ListByRestaurant(ctx context.Context, restaurantID string, limit int, offset int64) ([]*model.WaitlistEntry, int64, error)
	MarkConverted(ctx context.Context, id string) error
	MarkExpired(ctx context.Context, id string) error
}

type waitlistService struct {
	repo      repository.WaitlistRepository
	validator *validator.WaitlistValidator
	cfg       *config.Config
}

func NewWaitlistService(
	repo repository.WaitlistRepository,
	validator *validator.WaitlistValidator,
	cfg *config.Config,
) WaitlistService {
	return &waitlistService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *waitlistService) Join(ctx context.Context, entry *model.WaitlistEntry) (int64, error) {
	if entry.Status == "" {
		entry.Status = model.WaitlistWaiting
	}
	entry.CustomerName = sanitizer.NormalizeName(entry.CustomerName)
	if normalized := sanitizer.NormalizePhone(entry.CustomerPhone); normalized != "" {
		entry.CustomerPhone = normalized
	}

	if err := s.validator.Validate(entry); err != nil {
		s.cfg.Log.Warn("Waitlist validation failed", "error", err)
		return 0, apperrors.Validation("Waitlist validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.cfg.Log.Error("Failed to create waitlist entry", "error", err)
		return 0, apperrors.Internal("Failed to join waitlist", err)
	}

	position, err := s.repo.CountWaitingBefore(ctx, entry.RestaurantID, entry.CreatedAt)
	if err != nil {
		// The entry is saved; report the tail of the queue rather than fail.
		s.cfg.Log.Warn("Failed to compute waitlist position", "id", entry.ID, "error", err)
		position = 0
	}

	s.cfg.Log.Info("Party joined waitlist",
		"id", entry.ID,
		"restaurant_id", entry.RestaurantID,
		"requested_date", entry.RequestedDate,
		"party_size", entry.PartySize,
		"position", position,
	)
	return position, nil
}

func (s *waitlistService) GetByID(ctx context.Context, id string) (*model.WaitlistEntry, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Waitlist entry ID cannot be empty")
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, waitlisterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Waitlist entry", id)
		}
		if errors.Is(err, waitlisterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid waitlist entry ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve waitlist entry", err)
	}

	return entry, nil
}

func (s *waitlistService) Position(ctx context.Context, id string) (int64, error) {
	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if entry.Status != model.WaitlistWaiting {
		return 0, apperrors.Conflict(fmt.Sprintf("Waitlist entry is %s and holds no queue position", entry.Status))
	}

	position, err := s.repo.CountWaitingBefore(ctx, entry.RestaurantID, entry.CreatedAt)
	if err != nil {
		return 0, apperrors.Internal("Failed to compute waitlist position", err)
	}
	return position, nil
}

func (s *waitlistService) ListByRestaurant(ctx context.Context, restaurantID string, limit int, offset int64) ([]*model.WaitlistEntry, int64, error) {
	if restaurantID == "" {
		return nil, 0, apperrors.InvalidInput("Restaurant ID cannot be empty")
	}

	entries, total, err := s.repo.FindByRestaurant(ctx, restaurantID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list waitlist entries", "restaurant_id", restaurantID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve waitlist entries", err)
	}
	return entries, total, nil
}

func (s *waitlistService) MarkConverted(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.WaitlistConverted)
}

func (s *waitlistService) MarkExpired(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.WaitlistExpired)
}

func (s *waitlistService) transition(ctx context.Context, id string, status model.WaitlistStatus) error {
	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.Status == model.WaitlistConverted || entry.Status == model.WaitlistExpired {
		return apperrors.Conflict(fmt.Sprintf("Waitlist entry is already %s", entry.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, waitlisterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Waitlist entry", id)
		}
		return apperrors.Internal("Failed to update waitlist entry", err)
	}

	s.cfg.Log.Info("Waitlist entry updated", "id", id, "status", status)
	return nil
}
