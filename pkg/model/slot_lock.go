package model

import "time"

// SlotLock is an advisory lock serializing concurrent booking attempts for
// one table slot. The ID encodes (table, date, start time); inserting a
// duplicate fails on the unique _id, which the caller maps to a booking
// conflict. ExpiresAt is TTL-indexed so abandoned locks clean themselves up.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
