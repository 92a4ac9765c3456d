package ingest

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/boltline/purchasing-dash/internal/domain"
	"github.com/boltline/purchasing-dash/internal/recon"
)

// BulkFile is one file from a bulk upload whose record type is not declared.
type BulkFile struct {
	Name  string
	Table Table
}

// BulkResult pairs a file with its classification outcome. Type is empty and
// Unidentified is true when no signature matched; the rest of the batch is
// unaffected.
type BulkResult struct {
	Name         string
	Type         domain.RecordType
	Table        Table
	Unidentified bool
}

// maxClassifyParallel bounds concurrent classification in a bulk upload.
const maxClassifyParallel = 8

// ClassifyBatch identifies every file in a bulk upload concurrently. The
// classifier has no shared mutable state, so files are scored independently
// and results land in input order.
func ClassifyBatch(ctx context.Context, files []BulkFile) []BulkResult {
	results := make([]BulkResult, len(files))
	sem := semaphore.NewWeighted(maxClassifyParallel)

	var wg sync.WaitGroup
	for i, f := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled: mark the remainder unidentified and stop.
			for j := i; j < len(files); j++ {
				results[j] = BulkResult{Name: files[j].Name, Table: files[j].Table, Unidentified: true}
			}
			break
		}

		wg.Add(1)
		go func(i int, f BulkFile) {
			defer wg.Done()
			defer sem.Release(1)

			recordType, ok := recon.Classify(f.Table.Headers)
			results[i] = BulkResult{
				Name:         f.Name,
				Type:         recordType,
				Table:        f.Table,
				Unidentified: !ok,
			}
		}(i, f)
	}
	wg.Wait()

	return results
}
