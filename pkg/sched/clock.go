package sched

import "time"

// Clock provides time for frame callbacks. Tests inject a fake clock to
// control frame timestamps deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock uses system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
