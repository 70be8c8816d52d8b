package pipeline

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/pbudget/internal/logging"
	"github.com/theirongolddev/pbudget/internal/model"
	"github.com/theirongolddev/pbudget/internal/source"
)

var log = logging.Get()

// LoadResult holds the output of the data loading pipeline.
type LoadResult struct {
	Transactions []model.Transaction
	TotalFiles   int
	ParsedFiles  int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

type fileResult struct {
	txns []model.Transaction
	err  error
}

// Load discovers and parses the spending CSV (or a directory of CSVs).
// Files are parsed by a bounded worker pool; the first failing file in
// name order aborts the load.
func Load(path string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.Discover(path)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{TotalFiles: len(files)}
	results := parseAll(files, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	})

	for i, fr := range results {
		if fr.err != nil {
			return nil, fr.err
		}
		result.ParsedFiles++
		log.WithField("file", files[i]).WithField("rows", len(fr.txns)).Debug("parsed")
		result.Transactions = append(result.Transactions, fr.txns...)
	}

	if err := result.finish(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

// parseAll reads files in parallel, preserving input order in the result.
func parseAll(files []string, tick func(n int)) []fileResult {
	results := make([]fileResult, len(files))
	if len(files) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				txns, err := source.ReadFile(files[idx])
				results[idx] = fileResult{txns: txns, err: err}
				tick(int(processed.Add(1)))
			}
		}()
	}

	wg.Wait()
	return results
}

// finish sorts transactions chronologically.
func (r *LoadResult) finish() error {
	if len(r.Transactions) == 0 {
		return source.ErrNoTransactions
	}
	sort.SliceStable(r.Transactions, func(i, j int) bool {
		return r.Transactions[i].Date.Before(r.Transactions[j].Date)
	})
	return nil
}
