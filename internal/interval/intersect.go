package interval

import "sort"

// MultiIndexInterval is one surviving overlap witness: a time range plus
// the matched row id from every input table, slotted by the table's
// original argument position.
type MultiIndexInterval struct {
	Start      uint64
	End        uint64
	IdxInTable []uint32
}

// Dur returns the witness length.
func (m MultiIndexInterval) Dur() uint64 {
	return m.End - m.Start
}

// Intersector computes the multi-way intersection of sorted interval
// sets. The zero value runs the serial narrowing path; Workers > 1
// partitions each narrowing stage across a worker pool.
type Intersector struct {
	Workers int
}

// Intersect runs the zero-value Intersector over tables.
func Intersect(tables []SortedIntervals) []MultiIndexInterval {
	return Intersector{}.Intersect(tables)
}

// Intersect returns one MultiIndexInterval per combination of intervals,
// one from each table, that mutually overlap. The smallest table seeds
// the candidate list and the remaining tables narrow it in ascending
// size order; each stage builds a fresh tree over its table and clips
// surviving candidates to the matched range. No output order is
// guaranteed. An empty table anywhere makes the whole intersection empty.
func (x Intersector) Intersect(tables []SortedIntervals) []MultiIndexInterval {
	for _, tab := range tables {
		if len(tab) == 0 {
			return nil
		}
	}

	// Process smallest-first so the candidate list starts as small as
	// possible. Stable sort keeps equal-sized tables in argument order.
	order := make([]int, len(tables))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(tables[order[a]]) < len(tables[order[b]])
	})

	seedIdx := order[0]
	res := make([]MultiIndexInterval, 0, len(tables[seedIdx]))
	for _, iv := range tables[seedIdx] {
		m := MultiIndexInterval{
			Start:      iv.Start,
			End:        iv.End,
			IdxInTable: make([]uint32, len(tables)),
		}
		m.IdxInTable[seedIdx] = iv.ID
		res = append(res, m)
	}

	// Double-buffered candidate lists, swapped each stage.
	var next []MultiIndexInterval
	for _, tableIdx := range order[1:] {
		if len(res) == 0 {
			break
		}
		tree := BuildIntervalTree(tables[tableIdx])
		if x.Workers > 1 && len(res) >= parallelBatchSize {
			next = narrowParallel(next[:0], res, tree, tableIdx, x.Workers)
		} else {
			next = narrow(next[:0], res, tree, tableIdx)
		}
		res, next = next, res
	}
	return res
}

// narrow advances every candidate in cur through the tree for table
// tableIdx, appending each survivor to dst with that table's slot filled
// in and its range clipped to the match.
func narrow(dst, cur []MultiIndexInterval, tree *IntervalTree, tableIdx int) []MultiIndexInterval {
	var matches []Interval
	for _, c := range cur {
		matches = tree.AppendTrimmed(matches[:0], c.Start, c.End)
		for _, ov := range matches {
			m := MultiIndexInterval{
				Start:      ov.Start,
				End:        ov.End,
				IdxInTable: append([]uint32(nil), c.IdxInTable...),
			}
			m.IdxInTable[tableIdx] = ov.ID
			dst = append(dst, m)
		}
	}
	return dst
}
