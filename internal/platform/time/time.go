// Package time contains time related helpers
package time

import "time"

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Deref returns the zero time when pt is nil, else *pt
func Deref(pt *time.Time) time.Time {
	if pt == nil {
		return time.Time{}
	}
	return *pt
}

// UTC returns t in UTC truncated to microseconds, the resolution
// persisted by timestamptz columns
func UTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
