package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-trace/internal/interval"
	"github.com/inodb/vibe-trace/internal/table"
)

// FuncIntervalIntersect is the registered name of the multi-way interval
// intersection function.
const FuncIntervalIntersect = "interval_intersect"

// idxColOffset is where the per-table id columns start, after ts and dur.
const idxColOffset = 2

func registerIntervalIntersect(e *Engine) {
	// New() owns the map, so this cannot collide.
	_ = e.Register(FuncIntervalIntersect, e.intervalIntersect)
}

// intervalIntersect is the table-valued function body. Arguments are
// interval-set handles, at least two of them. The result is a TABLE
// handle with columns ts, dur, id_0..id_{N-1}; its rows are the time
// windows where one interval from every input overlapped, with no row
// ordering guarantee.
func (e *Engine) intervalIntersect(args []Handle) (Handle, error) {
	if len(args) < 2 {
		return Handle{}, fmt.Errorf("%w: interval_intersect needs at least 2 interval sets, got %d",
			ErrInvalidArgument, len(args))
	}

	colNames := intersectColumns(len(args))

	sets := make([]interval.SortedIntervals, len(args))
	empty := false
	for i, arg := range args {
		set, err := arg.IntervalSet()
		if err != nil {
			return Handle{}, fmt.Errorf("argument %d: %w", i, err)
		}
		sets[i] = set
		if len(set) == 0 {
			empty = true
		}
	}

	// Any empty input empties the whole intersection: return a zero-row
	// table that still carries the full schema.
	if empty {
		t, err := table.NewBuilder(colNames).Build(0)
		if err != nil {
			return Handle{}, err
		}
		return newTableHandle(t), nil
	}

	res := interval.Intersector{Workers: e.workers}.Intersect(sets)

	t, err := materialize(res, colNames)
	if err != nil {
		return Handle{}, err
	}

	e.logger.Debug("interval_intersect",
		zap.Int("tables", len(args)),
		zap.Int("rows", t.RowCount()))

	return newTableHandle(t), nil
}

// intersectColumns returns the output schema for tableCount inputs:
// ts, dur, then one id column per input in argument order.
func intersectColumns(tableCount int) []string {
	cols := make([]string, 0, tableCount+idxColOffset)
	cols = append(cols, "ts", "dur")
	for i := 0; i < tableCount; i++ {
		cols = append(cols, fmt.Sprintf("id_%d", i))
	}
	return cols
}

// materialize builds the result relation, one row per witness in the
// order supplied. Row construction failures abort with no partial table.
func materialize(res []interval.MultiIndexInterval, colNames []string) (*table.Table, error) {
	b := table.NewBuilder(colNames)
	for _, m := range res {
		if err := b.AddInteger(0, int64(m.Start)); err != nil {
			return nil, err
		}
		if err := b.AddInteger(1, int64(m.Dur())); err != nil {
			return nil, err
		}
		for k, id := range m.IdxInTable {
			if err := b.AddInteger(k+idxColOffset, int64(id)); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(len(res))
}
