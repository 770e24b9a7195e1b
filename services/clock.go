package services

import "time"

// Clock supplies the current instant so phase and layout computations are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock always reports the given instant.
type FixedClock struct {
	Instant time.Time
}

func (f FixedClock) Now() time.Time { return f.Instant }
