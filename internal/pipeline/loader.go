package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/fsplan/internal/template"
)

// ParseResult is the outcome of parsing one discovered file.
type ParseResult struct {
	File   DiscoveredFile
	Source []byte
	Doc    *template.Document
	Err    error
}

// LoadResult holds the output of the parse stage.
type LoadResult struct {
	// Parsed holds the valid documents in discovery order.
	Parsed      []ParseResult
	Failed      []ParseResult
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// ParseFile reads and validates one template file.
func ParseFile(f DiscoveredFile) ParseResult {
	pr := ParseResult{File: f}
	//nolint:gosec // template paths come from the local user
	src, err := os.ReadFile(f.Path)
	if err != nil {
		pr.Err = fmt.Errorf("reading %s: %w", f.Path, err)
		return pr
	}
	doc, err := template.Parse(src, f.Format)
	if err != nil {
		pr.Err = fmt.Errorf("%s: %w", f.Path, err)
		return pr
	}
	pr.Source, pr.Doc = src, doc
	return pr
}

// Load parses files with a bounded worker pool.
func Load(files []DiscoveredFile, progressFn ProgressFunc) *LoadResult {
	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result
	}

	// Parallel parsing with bounded worker pool
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	// Feed work
	for i := range files {
		work <- i
	}
	close(work)

	// Spawn workers
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()

	// Collect results
	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			result.Failed = append(result.Failed, pr)
			continue
		}
		result.ParsedFiles++
		result.Parsed = append(result.Parsed, pr)
	}

	return result
}
