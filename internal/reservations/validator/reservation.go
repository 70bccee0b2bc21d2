package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tably/pkg/logger"
	"tably/pkg/model"
	"tably/pkg/timeslot"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate     *validator.Validate
	logger       *logger.Logger
	maxPartySize int
}

func NewReservationValidator(log *logger.Logger, maxPartySize int) *ReservationValidator {
	v := validator.New()

	if err := v.RegisterValidation("dateonly", validateDateOnly); err != nil {
		log.Fatal("Failed to register 'dateonly' validator", "error", err)
	}
	if err := v.RegisterValidation("timeofday", validateTimeOfDay); err != nil {
		log.Fatal("Failed to register 'timeofday' validator", "error", err)
	}

	log.Info("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate:     v,
		logger:       log,
		maxPartySize: maxPartySize,
	}
}

func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := timeslot.ParseDate(fl.Field().String(), time.UTC)
	return err == nil
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := timeslot.ParseTime(fl.Field().String())
	return err == nil
}

func (v *ReservationValidator) Validate(reservation *model.Reservation) error {
	if err := v.validate.Struct(reservation); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if reservation.GuestCount > v.maxPartySize {
		return ValidationErrors{
			ValidationError{
				Field:   "GuestCount",
				Message: fmt.Sprintf("guest_count must be at most %d", v.maxPartySize),
			},
		}
	}

	if reservation.EndTime != "" && reservation.EndTime <= reservation.StartTime {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	return nil
}

func (v *ReservationValidator) ValidateUpdate(update *model.ReservationUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.GuestCount != nil && *update.GuestCount > v.maxPartySize {
		return ValidationErrors{
			ValidationError{
				Field:   "GuestCount",
				Message: fmt.Sprintf("guest_count must be at most %d", v.maxPartySize),
			},
		}
	}

	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +14155551234)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "dateonly":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "timeofday":
			message = fmt.Sprintf("%s must be a time in HH:MM format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
