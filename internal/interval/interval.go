// Package interval implements the multi-way interval intersection kernel
// used by trace queries to find time windows where several conditions
// held concurrently.
package interval

// Interval is a half-open time range [Start, End) tagged with the row id
// it came from in its owning table.
type Interval struct {
	Start uint64
	End   uint64
	ID    uint32
}

// Overlaps reports whether the interval strictly overlaps [start, end).
// Touching endpoints do not overlap.
func (iv Interval) Overlaps(start, end uint64) bool {
	return iv.Start < end && start < iv.End
}

// SortedIntervals is a sequence of intervals sorted non-decreasing by
// Start. It is produced once by an upstream build step and treated as
// read-only for the duration of a query invocation.
type SortedIntervals []Interval
