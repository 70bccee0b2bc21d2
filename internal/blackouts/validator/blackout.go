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

type BlackoutValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBlackoutValidator(log *logger.Logger) *BlackoutValidator {
	v := validator.New()

	if err := v.RegisterValidation("dateonly", validateDateOnly); err != nil {
		log.Fatal("Failed to register 'dateonly' validator", "error", err)
	}

	return &BlackoutValidator{
		validate: v,
		logger:   log,
	}
}

func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := timeslot.ParseDate(fl.Field().String(), time.UTC)
	return err == nil
}

func (v *BlackoutValidator) Validate(blackout *model.BlackoutDate) error {
	if err := v.validate.Struct(blackout); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BlackoutValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "dateonly":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
