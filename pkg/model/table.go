package model

import "time"

type TableStatus string

const (
	TableAvailable   TableStatus = "AVAILABLE"
	TableMaintenance TableStatus = "MAINTENANCE"
)

// Valid reports whether the status is one of the closed set. Table status
// drives candidate selection, so an unknown value must never be persisted.
func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableMaintenance:
		return true
	}
	return false
}

type Table struct {
	ID           string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RestaurantID string      `json:"restaurant_id" bson:"restaurant_id" validate:"required,mongodb"`
	TableNumber  string      `json:"table_number" bson:"table_number" validate:"required,min=1,max=20"`
	Capacity     int         `json:"capacity" bson:"capacity" validate:"required,min=1,max=50"`
	Location     string      `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=100"`
	Status       TableStatus `json:"status" bson:"status" validate:"required,oneof=AVAILABLE MAINTENANCE"`
	CreatedAt    time.Time   `json:"created_at" bson:"created_at" validate:"omitempty"`
}
