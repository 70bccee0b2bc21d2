package errors

import "errors"

var (
	ErrNotFound = errors.New("blackout date not found")
)
