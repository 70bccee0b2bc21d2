package model

import "time"

// BlackoutDate marks a restaurant fully closed on a calendar date. Rows are
// immutable once created; removing a blackout is an explicit delete.
type BlackoutDate struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RestaurantID string    `json:"restaurant_id" bson:"restaurant_id" validate:"required,mongodb"`
	Date         string    `json:"date" bson:"date" validate:"required,dateonly"`
	Reason       string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
	CreatedBy    string    `json:"created_by,omitempty" bson:"created_by,omitempty" validate:"omitempty,mongodb"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
