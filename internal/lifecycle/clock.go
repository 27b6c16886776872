package lifecycle

import "time"

// Clock is the injected time source for all lifecycle computations. Nothing
// in this package reads time.Now directly, so tests and simulations can move
// time without global overrides.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
