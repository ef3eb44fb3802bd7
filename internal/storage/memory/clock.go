package memory

import "time"

// Clock reports the current time in milliseconds since the Unix epoch.
type Clock interface {
	NowMilli() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// NowMilli implements Clock.
func (SystemClock) NowMilli() int64 {
	return time.Now().UnixMilli()
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() int64

// NowMilli implements Clock.
func (f ClockFunc) NowMilli() int64 {
	return f()
}
