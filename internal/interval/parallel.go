package interval

import (
	"runtime"
	"sync"
)

// parallelBatchSize is how many candidates a worker takes at once. Below
// this the serial path wins anyway.
const parallelBatchSize = 256

// narrowBatch is one contiguous slice of the candidate list.
type narrowBatch struct {
	Seq  int
	Cand []MultiIndexInterval
}

// narrowResult holds the survivors of one batch.
type narrowResult struct {
	Seq int
	Out []MultiIndexInterval
}

// narrowParallel is the worker-pool version of narrow. The candidate list
// is split into fixed-size batches, each worker narrows its batches
// against the shared immutable tree, and the batch outputs are stitched
// back together in sequence order so the result slice is identical to the
// serial path's. If workers is 0, runtime.NumCPU() is used.
func narrowParallel(dst, cur []MultiIndexInterval, tree *IntervalTree, tableIdx, workers int) []MultiIndexInterval {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	batches := make(chan narrowBatch, workers)
	results := make(chan narrowResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for b := range batches {
				results <- narrowResult{
					Seq: b.Seq,
					Out: narrow(nil, b.Cand, tree, tableIdx),
				}
			}
		}()
	}

	go func() {
		seq := 0
		for len(cur) > 0 {
			n := parallelBatchSize
			if n > len(cur) {
				n = len(cur)
			}
			batches <- narrowBatch{Seq: seq, Cand: cur[:n]}
			cur = cur[n:]
			seq++
		}
		close(batches)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Buffer out-of-order batches in a pending map and append them as
	// soon as the next expected sequence number arrives.
	pending := make(map[int][]MultiIndexInterval)
	nextSeq := 0
	for r := range results {
		pending[r.Seq] = r.Out
		for {
			out, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			dst = append(dst, out...)
		}
	}
	return dst
}
