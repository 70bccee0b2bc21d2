package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tably"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	// Every reservation occupies a fixed-length slot.
	DefaultSlotDuration = 2 * time.Hour

	// Guests may modify or cancel up to this long before the start time.
	DefaultModificationCutoff = 2 * time.Hour

	DefaultSlotLockTTL = 10 * time.Second

	// The upstream past-date check shipped disabled; here the policy is
	// explicit and on by default. Set REJECT_PAST_DATES=false to backfill
	// walk-in history.
	DefaultRejectPastDates = true

	DefaultMaxPartySize = 50
)
