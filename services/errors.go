package services

import "errors"

var (
	ErrNegativeExtension   = errors.New("extend minutes must not be negative")
	ErrTableNotFound       = errors.New("table not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrPermissionDenied    = errors.New("notification permission denied")
)
