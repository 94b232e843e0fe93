package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersect_PairOverlap(t *testing.T) {
	res := Intersect([]SortedIntervals{
		{{Start: 0, End: 10, ID: 1}},
		{{Start: 5, End: 15, ID: 2}},
	})

	require.Len(t, res, 1)
	assert.Equal(t, uint64(5), res[0].Start)
	assert.Equal(t, uint64(5), res[0].Dur())
	assert.Equal(t, []uint32{1, 2}, res[0].IdxInTable)
}

func TestIntersect_TouchingEndpoints(t *testing.T) {
	// [0,10) and [10,20) share an endpoint but no time.
	res := Intersect([]SortedIntervals{
		{{Start: 0, End: 10, ID: 1}},
		{{Start: 10, End: 20, ID: 2}},
	})
	assert.Empty(t, res)
}

func TestIntersect_EmptyDominance(t *testing.T) {
	big := make(SortedIntervals, 0, 100)
	for i := uint64(0); i < 100; i++ {
		big = append(big, Interval{Start: i * 10, End: i*10 + 5, ID: uint32(i)})
	}

	assert.Empty(t, Intersect([]SortedIntervals{{}, big}))
	assert.Empty(t, Intersect([]SortedIntervals{big, {}}))
	assert.Empty(t, Intersect([]SortedIntervals{big, big, {}}))
}

func TestIntersect_IdenticalSingleInterval(t *testing.T) {
	tab := SortedIntervals{{Start: 3, End: 8, ID: 9}}
	res := Intersect([]SortedIntervals{tab, tab})

	require.Len(t, res, 1)
	assert.Equal(t, uint64(3), res[0].Start)
	assert.Equal(t, uint64(5), res[0].Dur())
	assert.Equal(t, []uint32{9, 9}, res[0].IdxInTable)
}

func TestIntersect_SelfIntersection(t *testing.T) {
	// Intersecting a non-overlapping table with itself gives one row per
	// interval, both id slots equal.
	tab := SortedIntervals{
		{Start: 0, End: 10, ID: 1},
		{Start: 20, End: 30, ID: 2},
		{Start: 50, End: 60, ID: 3},
	}
	res := Intersect([]SortedIntervals{tab, tab})

	require.Len(t, res, len(tab))
	want := []MultiIndexInterval{
		{Start: 0, End: 10, IdxInTable: []uint32{1, 1}},
		{Start: 20, End: 30, IdxInTable: []uint32{2, 2}},
		{Start: 50, End: 60, IdxInTable: []uint32{3, 3}},
	}
	assert.ElementsMatch(t, want, res)
}

func TestIntersect_ThreeTables_WitnessRange(t *testing.T) {
	// A covers everything, B has two windows, C spans across both.
	// Each surviving candidate carries the running intersection of what
	// it matched, so B's [10,20) window against C's [15,55) yields
	// [15,20), and B's [50,60) window yields [50,55).
	res := Intersect([]SortedIntervals{
		{{Start: 0, End: 100, ID: 1}},
		{{Start: 10, End: 20, ID: 2}, {Start: 50, End: 60, ID: 3}},
		{{Start: 15, End: 55, ID: 4}},
	})

	want := []MultiIndexInterval{
		{Start: 15, End: 20, IdxInTable: []uint32{1, 2, 4}},
		{Start: 50, End: 55, IdxInTable: []uint32{1, 3, 4}},
	}
	assert.ElementsMatch(t, want, res)
}

func TestIntersect_MonotonicShrinkage(t *testing.T) {
	tables := []SortedIntervals{
		{{Start: 0, End: 10, ID: 1}, {Start: 20, End: 30, ID: 2}, {Start: 40, End: 50, ID: 3}},
		{{Start: 5, End: 12, ID: 4}, {Start: 22, End: 28, ID: 5}},
		{{Start: 6, End: 8, ID: 6}},
	}
	res := Intersect(tables)

	minSize := len(tables[0])
	for _, tab := range tables[1:] {
		if len(tab) < minSize {
			minSize = len(tab)
		}
	}
	assert.LessOrEqual(t, len(res), minSize)

	require.Len(t, res, 1)
	assert.Equal(t, MultiIndexInterval{Start: 6, End: 8, IdxInTable: []uint32{1, 4, 6}}, res[0])
}

// witnessKey normalizes a row for set comparison across argument
// permutations: ids are re-slotted into a fixed reference order.
type witnessKey struct {
	Start uint64
	End   uint64
	IDs   [3]uint32
}

func TestIntersect_OrderInvariance(t *testing.T) {
	a := SortedIntervals{{Start: 0, End: 100, ID: 1}}
	b := SortedIntervals{{Start: 10, End: 20, ID: 2}, {Start: 50, End: 60, ID: 3}}
	c := SortedIntervals{{Start: 15, End: 55, ID: 4}}

	normalize := func(res []MultiIndexInterval, slotOf [3]int) []witnessKey {
		out := make([]witnessKey, 0, len(res))
		for _, m := range res {
			k := witnessKey{Start: m.Start, End: m.End}
			for ref, slot := range slotOf {
				k.IDs[ref] = m.IdxInTable[slot]
			}
			out = append(out, k)
		}
		return out
	}

	base := normalize(Intersect([]SortedIntervals{a, b, c}), [3]int{0, 1, 2})
	assert.ElementsMatch(t, base, normalize(Intersect([]SortedIntervals{b, c, a}), [3]int{2, 0, 1}))
	assert.ElementsMatch(t, base, normalize(Intersect([]SortedIntervals{c, a, b}), [3]int{1, 2, 0}))
	assert.ElementsMatch(t, base, normalize(Intersect([]SortedIntervals{c, b, a}), [3]int{2, 1, 0}))
}

func TestIntersect_PairwiseOverlap(t *testing.T) {
	tables := []SortedIntervals{
		{{Start: 0, End: 30, ID: 1}, {Start: 25, End: 50, ID: 2}, {Start: 60, End: 90, ID: 3}},
		{{Start: 10, End: 40, ID: 4}, {Start: 45, End: 80, ID: 5}},
		{{Start: 20, End: 70, ID: 6}, {Start: 65, End: 95, ID: 7}},
	}

	byID := make([]map[uint32]Interval, len(tables))
	for i, tab := range tables {
		byID[i] = make(map[uint32]Interval)
		for _, iv := range tab {
			byID[i][iv.ID] = iv
		}
	}

	res := Intersect(tables)
	require.NotEmpty(t, res)

	for _, m := range res {
		for i := 0; i < len(tables); i++ {
			for j := i + 1; j < len(tables); j++ {
				ivI, ok := byID[i][m.IdxInTable[i]]
				require.True(t, ok)
				ivJ, ok := byID[j][m.IdxInTable[j]]
				require.True(t, ok)
				assert.True(t, ivI.Overlaps(ivJ.Start, ivJ.End),
					"row %+v: table %d id %d does not overlap table %d id %d",
					m, i, ivI.ID, j, ivJ.ID)
			}
		}
	}
}

func TestIntersect_ParallelMatchesSerial(t *testing.T) {
	// Large enough that the worker-pool path actually engages.
	const n = 1000
	a := make(SortedIntervals, 0, n)
	b := make(SortedIntervals, 0, n)
	for i := uint64(0); i < n; i++ {
		a = append(a, Interval{Start: 4 * i, End: 4*i + 2, ID: uint32(i)})
		b = append(b, Interval{Start: 4*i + 1, End: 4*i + 3, ID: uint32(n + i)})
	}

	serial := Intersector{}.Intersect([]SortedIntervals{a, b})
	parallel := Intersector{Workers: 4}.Intersect([]SortedIntervals{a, b})

	require.Len(t, serial, n)
	assert.Equal(t, serial, parallel, "batch stitching keeps the serial order")
}
