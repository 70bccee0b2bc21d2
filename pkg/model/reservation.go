package model

import "time"

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
	ReservationNoShow    ReservationStatus = "NO_SHOW"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationConfirmed, ReservationCancelled, ReservationCompleted, ReservationNoShow:
		return true
	}
	return false
}

// Terminal reports whether the reservation can no longer change state.
// Every status except CONFIRMED is terminal.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationCancelled, ReservationCompleted, ReservationNoShow:
		return true
	}
	return false
}

// Blocking reports whether a reservation in this status holds its table for
// the booked window. Only CONFIRMED and COMPLETED rows participate in
// conflict detection.
func (s ReservationStatus) Blocking() bool {
	return s == ReservationConfirmed || s == ReservationCompleted
}

type BookingSource string

const (
	SourceOnline BookingSource = "ONLINE"
	SourcePhone  BookingSource = "PHONE"
	SourceWalkIn BookingSource = "WALK_IN"
	SourceAdmin  BookingSource = "ADMIN"
)

func (s BookingSource) Valid() bool {
	switch s {
	case SourceOnline, SourcePhone, SourceWalkIn, SourceAdmin:
		return true
	}
	return false
}

// Reservation holds a table for a half-open [start_time, end_time) window on
// a single calendar day. Dates are YYYY-MM-DD and times HH:MM, both
// zero-padded so that string comparison matches chronological order.
type Reservation struct {
	ID              string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RestaurantID    string            `json:"restaurant_id" bson:"restaurant_id" validate:"required,mongodb"`
	TableID         string            `json:"table_id" bson:"table_id" validate:"omitempty,mongodb"`
	CustomerID      string            `json:"customer_id,omitempty" bson:"customer_id,omitempty" validate:"omitempty,mongodb"`
	CustomerName    string            `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone   string            `json:"customer_phone" bson:"customer_phone" validate:"required,e164"`
	CustomerEmail   string            `json:"customer_email" bson:"customer_email" validate:"required,email"`
	ReservationDate string            `json:"reservation_date" bson:"reservation_date" validate:"required,dateonly"`
	StartTime       string            `json:"start_time" bson:"start_time" validate:"required,timeofday"`
	EndTime         string            `json:"end_time" bson:"end_time" validate:"omitempty,timeofday"`
	GuestCount      int               `json:"guest_count" bson:"guest_count" validate:"required,min=1,max=50"`
	Status          ReservationStatus `json:"status" bson:"status" validate:"required,oneof=CONFIRMED CANCELLED COMPLETED NO_SHOW"`
	BookingSource   BookingSource     `json:"booking_source" bson:"booking_source" validate:"required,oneof=ONLINE PHONE WALK_IN ADMIN"`
	SpecialRequests string            `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=500"`
	CancelReason    string            `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty" validate:"omitempty"`
}

// ReservationUpdate carries the fields a caller may change. Nil/empty fields
// are left untouched; the service merges, re-validates and persists the
// result in a single write.
type ReservationUpdate struct {
	ReservationDate string `json:"reservation_date,omitempty" validate:"omitempty,dateonly"`
	StartTime       string `json:"start_time,omitempty" validate:"omitempty,timeofday"`
	GuestCount      *int   `json:"guest_count,omitempty" validate:"omitempty,min=1,max=50"`
	CustomerName    string `json:"customer_name,omitempty" validate:"omitempty,min=2,max=100"`
	CustomerPhone   string `json:"customer_phone,omitempty" validate:"omitempty,e164"`
	CustomerEmail   string `json:"customer_email,omitempty" validate:"omitempty,email"`
	SpecialRequests string `json:"special_requests,omitempty" validate:"omitempty,max=500"`
}

// Empty reports whether the update would change nothing.
func (u *ReservationUpdate) Empty() bool {
	return u.ReservationDate == "" && u.StartTime == "" && u.GuestCount == nil &&
		u.CustomerName == "" && u.CustomerPhone == "" && u.CustomerEmail == "" &&
		u.SpecialRequests == ""
}

// AffectsSlot reports whether the update touches date, time or party size and
// therefore requires a fresh availability resolution.
func (u *ReservationUpdate) AffectsSlot() bool {
	return u.ReservationDate != "" || u.StartTime != "" || u.GuestCount != nil
}
