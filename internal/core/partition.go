package core

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of rows one goroutine classifies.
// Sheets at or below this size are classified inline.
const DefaultChunkSize = 2000

// Partition classifies every data row and splits them into kept and excluded
// rows, preserving source order within each. Both sides share header.
func Partition(header Row, rows []Row, c *Classifier) *PartitionResult {
	return PartitionChunked(header, rows, c, DefaultChunkSize)
}

// PartitionChunked is Partition with an explicit chunk size. Chunks are
// classified concurrently; each goroutine owns a disjoint index range of the
// verdict slice, so the final pass sees verdicts in source order.
func PartitionChunked(header Row, rows []Row, c *Classifier, chunkSize int) *PartitionResult {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	verdicts := make([]Verdict, len(rows))
	if len(rows) <= chunkSize {
		for i, row := range rows {
			verdicts[i] = c.Classify(row)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for start := 0; start < len(rows); start += chunkSize {
			end := min(start+chunkSize, len(rows))
			g.Go(func() error {
				for i := start; i < end; i++ {
					verdicts[i] = c.Classify(rows[i])
				}
				return nil
			})
		}
		// Classification cannot fail; Wait only joins the goroutines.
		_ = g.Wait()
	}

	result := &PartitionResult{
		Header:   header,
		Kept:     make([]Row, 0, len(rows)),
		Excluded: make([]Row, 0),
	}
	for i, row := range rows {
		if verdicts[i].Decision == Exclude {
			result.Excluded = append(result.Excluded, row)
			result.ExcludedReasons = append(result.ExcludedReasons, verdicts[i].Reason)
			continue
		}
		result.Kept = append(result.Kept, row)
	}
	return result
}
