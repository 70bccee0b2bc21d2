package model

import "time"

type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "WAITING"
	WaitlistNotified  WaitlistStatus = "NOTIFIED"
	WaitlistConverted WaitlistStatus = "CONVERTED"
	WaitlistExpired   WaitlistStatus = "EXPIRED"
)

func (s WaitlistStatus) Valid() bool {
	switch s {
	case WaitlistWaiting, WaitlistNotified, WaitlistConverted, WaitlistExpired:
		return true
	}
	return false
}

// WaitlistEntry queues a party for a slot that had no free table. Entries are
// ordered by creation time; queue position is the count of earlier WAITING
// entries for the same restaurant. Waitlist state never participates in
// table conflict detection.
type WaitlistEntry struct {
	ID            string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RestaurantID  string         `json:"restaurant_id" bson:"restaurant_id" validate:"required,mongodb"`
	RequestedDate string         `json:"requested_date" bson:"requested_date" validate:"required,dateonly"`
	RequestedTime string         `json:"requested_time" bson:"requested_time" validate:"required,timeofday"`
	PartySize     int            `json:"party_size" bson:"party_size" validate:"required,min=1,max=50"`
	CustomerName  string         `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone string         `json:"customer_phone" bson:"customer_phone" validate:"required,e164"`
	Status        WaitlistStatus `json:"status" bson:"status" validate:"required,oneof=WAITING NOTIFIED CONVERTED EXPIRED"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at" validate:"omitempty"`
}
