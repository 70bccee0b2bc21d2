package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	blackoutserrors "tably/internal/blackouts/errors"
	"tably/internal/blackouts/repository"
	"tably/internal/blackouts/validator"
	"tably/pkg/config"
	apperrors "tably/pkg/errors"
	"tably/pkg/model"
	"tably/pkg/sanitizer"
)

type BlackoutService interface {
	Create(ctx context.Context, blackout *model.BlackoutDate) error
	Delete(ctx context.Context, restaurantID, date string) error
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*model.BlackoutDate, error)
}

type blackoutService struct {
	repo      repository.BlackoutRepository
	validator *validator.BlackoutValidator
	cfg       *config.Config
}

func NewBlackoutService(
	repo repository.BlackoutRepository,
	validator *validator.BlackoutValidator,
	cfg *config.Config,
) BlackoutService {
	return &blackoutService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *blackoutService) Create(ctx context.Context, blackout *model.BlackoutDate) error {
	blackout.Reason = sanitizer.NormalizeNote(blackout.Reason)

	if err := s.validator.Validate(blackout); err != nil {
		s.cfg.Log.Warn("Blackout validation failed", "error", err)
		return apperrors.Validation("Blackout validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, blackout); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("Restaurant is already closed on this date")
		}
		s.cfg.Log.Error("Failed to create blackout date", "error", err)
		return apperrors.Internal("Failed to create blackout date", err)
	}

	s.cfg.Log.Info("Blackout date created",
		"id", blackout.ID,
		"restaurant_id", blackout.RestaurantID,
		"date", blackout.Date,
	)
	return nil
}

func (s *blackoutService) Delete(ctx context.Context, restaurantID, date string) error {
	if restaurantID == "" || date == "" {
		return apperrors.InvalidInput("Restaurant ID and date are required")
	}

	if err := s.repo.Delete(ctx, restaurantID, date); err != nil {
		if errors.Is(err, blackoutserrors.ErrNotFound) {
			return apperrors.NotFound("Blackout date")
		}
		s.cfg.Log.Error("Failed to delete blackout date", "restaurant_id", restaurantID, "date", date, "error", err)
		return apperrors.Internal("Failed to delete blackout date", err)
	}

	s.cfg.Log.Info("Blackout date removed", "restaurant_id", restaurantID, "date", date)
	return nil
}

func (s *blackoutService) ListByRestaurant(ctx context.Context, restaurantID string) ([]*model.BlackoutDate, error) {
	if restaurantID == "" {
		return nil, apperrors.InvalidInput("Restaurant ID cannot be empty")
	}

	blackouts, err := s.repo.FindByRestaurant(ctx, restaurantID)
	if err != nil {
		s.cfg.Log.Error("Failed to list blackout dates", "restaurant_id", restaurantID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve blackout dates", err)
	}

	return blackouts, nil
}
