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

type WaitlistValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewWaitlistValidator(log *logger.Logger) *WaitlistValidator {
	v := validator.New()

	if err := v.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		_, err := timeslot.ParseDate(fl.Field().String(), time.UTC)
		return err == nil
	}); err != nil {
		log.Fatal("Failed to register 'dateonly' validator", "error", err)
	}
	if err := v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, err := timeslot.ParseTime(fl.Field().String())
		return err == nil
	}); err != nil {
		log.Fatal("Failed to register 'timeofday' validator", "error", err)
	}

	return &WaitlistValidator{
		validate: v,
		logger:   log,
	}
}

func (v *WaitlistValidator) Validate(entry *model.WaitlistEntry) error {
	if err := v.validate.Struct(entry); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *WaitlistValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
