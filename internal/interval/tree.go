package interval

// IntervalTree answers range-overlap queries over one sorted interval set.
// Nodes live in a flat arena addressed by index and each node carries the
// max End of its subtree, so lookups prune whole subtrees. The tree is
// built once from an already-sorted sequence via median splits and never
// rebalanced or mutated afterwards.
type IntervalTree struct {
	nodes []treeNode
	root  int32
}

type treeNode struct {
	iv          Interval
	maxEnd      uint64 // max End in the subtree rooted here
	left, right int32  // arena indices, -1 if absent
}

// BuildIntervalTree creates an interval tree from a sorted interval set.
// An empty set yields a tree that never matches anything.
func BuildIntervalTree(intervals SortedIntervals) *IntervalTree {
	t := &IntervalTree{root: -1}
	if len(intervals) == 0 {
		return t
	}
	t.nodes = make([]treeNode, 0, len(intervals))
	t.root = t.build(intervals, 0, int32(len(intervals)))
	return t
}

// build constructs the subtree covering intervals[lo:hi) and returns its
// arena index. The median split keeps the shape balanced without rotations.
func (t *IntervalTree) build(intervals SortedIntervals, lo, hi int32) int32 {
	if lo >= hi {
		return -1
	}
	mid := lo + (hi-lo)/2
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, treeNode{
		iv:     intervals[mid],
		maxEnd: intervals[mid].End,
		left:   -1,
		right:  -1,
	})
	left := t.build(intervals, lo, mid)
	right := t.build(intervals, mid+1, hi)

	// Take the pointer only after the recursive appends are done; they
	// may have reallocated the arena.
	n := &t.nodes[idx]
	n.left, n.right = left, right
	if left >= 0 && t.nodes[left].maxEnd > n.maxEnd {
		n.maxEnd = t.nodes[left].maxEnd
	}
	if right >= 0 && t.nodes[right].maxEnd > n.maxEnd {
		n.maxEnd = t.nodes[right].maxEnd
	}
	return idx
}

// Size returns the number of stored intervals.
func (t *IntervalTree) Size() int {
	return len(t.nodes)
}

// FindOverlaps returns all stored intervals overlapping [qStart, qEnd),
// in no particular order.
func (t *IntervalTree) FindOverlaps(qStart, qEnd uint64) []Interval {
	return t.appendOverlaps(nil, qStart, qEnd, false)
}

// AppendTrimmed appends to dst every match for [qStart, qEnd), with each
// match's range clipped to the query range. This is the lookup the
// intersector chains: clipping is what keeps a candidate's range equal to
// the running intersection of everything it has matched so far. dst may
// be a reused buffer.
func (t *IntervalTree) AppendTrimmed(dst []Interval, qStart, qEnd uint64) []Interval {
	return t.appendOverlaps(dst, qStart, qEnd, true)
}

func (t *IntervalTree) appendOverlaps(dst []Interval, qStart, qEnd uint64, trim bool) []Interval {
	if t.root < 0 {
		return dst
	}
	return t.collect(dst, t.root, qStart, qEnd, trim)
}

func (t *IntervalTree) collect(dst []Interval, idx int32, qStart, qEnd uint64, trim bool) []Interval {
	n := t.nodes[idx]
	if n.iv.Overlaps(qStart, qEnd) {
		m := n.iv
		if trim {
			if qStart > m.Start {
				m.Start = qStart
			}
			if qEnd < m.End {
				m.End = qEnd
			}
		}
		dst = append(dst, m)
	}
	// The left subtree can only hold a match if something in it ends
	// after the query starts.
	if n.left >= 0 && t.nodes[n.left].maxEnd > qStart {
		dst = t.collect(dst, n.left, qStart, qEnd, trim)
	}
	// Everything to the right starts at or after this node's start, so
	// once that start reaches the query end nothing there can match.
	if n.right >= 0 && n.iv.Start < qEnd {
		dst = t.collect(dst, n.right, qStart, qEnd, trim)
	}
	return dst
}
