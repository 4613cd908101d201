package types

import "time"

// Clock returns the current time. Services take it as a dependency so that
// simulations can be evaluated against a fixed instant.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}
