// Package engine provides the query-engine boundary for trace analysis
// functions: tagged value handles and a registry of table-valued
// functions.
package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/inodb/vibe-trace/internal/interval"
	"github.com/inodb/vibe-trace/internal/table"
)

// ErrInvalidArgument marks usage errors caught at the boundary before any
// computation runs: wrong argument counts, handles with the wrong tag,
// unknown function names.
var ErrInvalidArgument = errors.New("engine: invalid argument")

// Tag identifies what kind of value a Handle carries.
type Tag string

const (
	// TagIntervalSet marks a handle holding a sorted interval set.
	TagIntervalSet Tag = "INTERVAL_SET"
	// TagTable marks a handle holding a result relation, consumable as a
	// virtual table by later query stages.
	TagTable Tag = "TABLE"
)

// Handle is an opaque tagged value exchanged across the engine boundary.
// Handles are only minted by the designated build and materialize entry
// points; callers never see interior state directly.
type Handle struct {
	tag Tag
	set interval.SortedIntervals
	tab *table.Table
}

// Tag returns the handle's type tag.
func (h Handle) Tag() Tag {
	return h.tag
}

// IntervalSet returns the sorted interval set the handle carries, or an
// invalid-argument error if it is tagged as something else.
func (h Handle) IntervalSet() (interval.SortedIntervals, error) {
	if h.tag != TagIntervalSet {
		return nil, fmt.Errorf("%w: handle tagged %q, want %q", ErrInvalidArgument, h.tag, TagIntervalSet)
	}
	return h.set, nil
}

// Table returns the relation the handle carries, or an invalid-argument
// error if it is tagged as something else.
func (h Handle) Table() (*table.Table, error) {
	if h.tag != TagTable {
		return nil, fmt.Errorf("%w: handle tagged %q, want %q", ErrInvalidArgument, h.tag, TagTable)
	}
	return h.tab, nil
}

// BuildIntervalSet copies intervals, sorts them by start and returns an
// interval-set handle. This is the entry point for callers that already
// hold a materialized slice; use IntervalSetBuilder to accumulate rows.
func BuildIntervalSet(intervals []interval.Interval) Handle {
	set := make(interval.SortedIntervals, len(intervals))
	copy(set, intervals)
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].Start < set[j].Start
	})
	return Handle{tag: TagIntervalSet, set: set}
}

func newTableHandle(t *table.Table) Handle {
	return Handle{tag: TagTable, tab: t}
}
