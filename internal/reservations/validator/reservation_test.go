package validator

import (
	"strings"
	"testing"

	"tably/pkg/logger"
	"tably/pkg/model"
)

func testValidator() *ReservationValidator {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewReservationValidator(log, 50)
}

func valid() *model.Reservation {
	return &model.Reservation{
		RestaurantID:    "64f000000000000000000009",
		CustomerName:    "Dana Levi",
		CustomerPhone:   "+14155550123",
		CustomerEmail:   "dana@example.com",
		ReservationDate: "2026-03-20",
		StartTime:       "19:00",
		EndTime:         "21:00",
		GuestCount:      3,
		Status:          model.ReservationConfirmed,
		BookingSource:   model.SourceOnline,
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := testValidator().Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.Reservation)
		field  string
	}{
		{"bad date format", func(r *model.Reservation) { r.ReservationDate = "20/03/2026" }, "ReservationDate"},
		{"bad time format", func(r *model.Reservation) { r.StartTime = "7pm" }, "StartTime"},
		{"unpadded time", func(r *model.Reservation) { r.StartTime = "9:00" }, "StartTime"},
		{"bad phone", func(r *model.Reservation) { r.CustomerPhone = "call me" }, "CustomerPhone"},
		{"bad email", func(r *model.Reservation) { r.CustomerEmail = "not-an-email" }, "CustomerEmail"},
		{"missing name", func(r *model.Reservation) { r.CustomerName = "" }, "CustomerName"},
		{"bad status", func(r *model.Reservation) { r.Status = "PENDING" }, "Status"},
		{"bad restaurant id", func(r *model.Reservation) { r.RestaurantID = "not-hex" }, "RestaurantID"},
		{"end before start", func(r *model.Reservation) { r.EndTime = "18:00" }, "EndTime"},
	}

	v := testValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)
			err := v.Validate(r)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to mention %s, got: %v", tt.field, err)
			}
		})
	}
}

func TestValidate_PartySizeCeiling(t *testing.T) {
	v := testValidator()
	r := valid()
	r.GuestCount = 51
	if err := v.Validate(r); err == nil {
		t.Fatal("expected validation error for oversized party")
	}
}

func TestValidateUpdate_PartialFieldsOnly(t *testing.T) {
	v := testValidator()

	if err := v.ValidateUpdate(&model.ReservationUpdate{StartTime: "20:00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.ValidateUpdate(&model.ReservationUpdate{StartTime: "20:xx"}); err == nil {
		t.Fatal("expected error for malformed start time")
	}
}
