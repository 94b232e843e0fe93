package engine

import (
	"fmt"
	"sort"

	"github.com/inodb/vibe-trace/internal/interval"
)

// IntervalSetBuilder is the upstream aggregation step that collects
// (id, ts, dur) rows into a sorted interval set. Rows may arrive in any
// order; Build sorts by start. Ids must be unique within one set, since
// they are the row identifiers the intersection reports back.
type IntervalSetBuilder struct {
	intervals []interval.Interval
	seen      map[uint32]struct{}
}

// NewIntervalSetBuilder creates an empty builder.
func NewIntervalSetBuilder() *IntervalSetBuilder {
	return &IntervalSetBuilder{seen: make(map[uint32]struct{})}
}

// Add appends one row. dur of zero is allowed and produces an instant
// interval.
func (b *IntervalSetBuilder) Add(id uint32, ts, dur uint64) error {
	if _, ok := b.seen[id]; ok {
		return fmt.Errorf("%w: duplicate id %d in interval set", ErrInvalidArgument, id)
	}
	b.seen[id] = struct{}{}
	b.intervals = append(b.intervals, interval.Interval{Start: ts, End: ts + dur, ID: id})
	return nil
}

// Len returns how many rows have been added.
func (b *IntervalSetBuilder) Len() int {
	return len(b.intervals)
}

// Build sorts the collected rows by start and returns the interval-set
// handle. The builder must not be reused afterwards.
func (b *IntervalSetBuilder) Build() Handle {
	sort.SliceStable(b.intervals, func(i, j int) bool {
		return b.intervals[i].Start < b.intervals[j].Start
	})
	return Handle{tag: TagIntervalSet, set: b.intervals}
}
