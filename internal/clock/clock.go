package clock

import "time"

// Clock abstracts time so lifecycle timestamps are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystem returns the wall clock (UTC).
func NewSystem() Clock { return systemClock{} }
