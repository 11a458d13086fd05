// Package inter defines the shared primitive types used across the staking
// protocol: timestamps, and nothing heavier. Every other package converts
// into and out of these types at its boundary so that protocol arithmetic
// stays integer-exact.
package inter

import (
	"time"
)

// Timestamp is a UNIX timestamp in nanoseconds. All epoch arithmetic
// (epoch end, epoch length, warmup expiry checks) is performed on this
// type with plain integer addition, never on time.Time.
type Timestamp uint64

// FromTime converts a standard library time.Time into a protocol Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

// Time converts the Timestamp back into a time.Time for display purposes.
// Protocol logic must not round-trip through this; it exists for logs and
// CLI output only.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t)/int64(time.Second), int64(t)%int64(time.Second))
}

// String formats the timestamp as RFC3339 for logs.
func (t Timestamp) String() string {
	return t.Time().UTC().Format(time.RFC3339)
}
