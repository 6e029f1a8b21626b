package verify

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"hashfile/internal/digest"
	"hashfile/internal/manifest"
	"hashfile/internal/metrics"
	"hashfile/internal/progress"
)

// Check verifies every manifest entry on a pool of opts.Workers goroutines.
// Outcomes are counted in stats; mismatches and per-file errors are
// collected in the Result. Entries tagged with a different algorithm are
// skipped. Cancelling ctx stops dispatch of the remaining entries.
func Check(ctx context.Context, engine *digest.Engine, entries []manifest.Entry, opts Options, stats *metrics.Stats, bar *progress.Bar) *Result {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	if stats == nil {
		stats = &metrics.Stats{}
	}
	res := &Result{}
	var mu sync.Mutex

	fail := func(path string, err error) {
		mu.Lock()
		res.Errors = append(res.Errors, PathError{Path: path, Err: err})
		mu.Unlock()
	}

	jobs := make(chan manifest.Entry)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()

		for e := range jobs {
			if e.HasAlgorithm && e.Algorithm != engine.Algorithm() {
				atomic.AddInt64(&stats.Skipped, 1)
				atomic.AddInt64(&stats.Processed, 1)
				continue
			}

			info, err := statRegular(e.Path)
			if err != nil {
				atomic.AddInt64(&stats.StatErrors, 1)
				atomic.AddInt64(&stats.Processed, 1)
				fail(e.Path, err)
				continue
			}

			var sent int64
			computed, err := engine.FileProgress(e.Path, func(n int64) {
				atomic.AddInt64(&stats.BytesHashed, n)
				sent += n
				bar.AddBytes(n)
			})
			if err != nil {
				atomic.AddInt64(&stats.HashErrors, 1)
				atomic.AddInt64(&stats.Processed, 1)
				bar.AddBytes(info.Size() - sent)
				fail(e.Path, err)
				continue
			}

			if !Matches(computed, e.Hash) {
				atomic.AddInt64(&stats.HashMismatches, 1)

				mu.Lock()
				res.Mismatches = append(res.Mismatches, Mismatch{
					Path:     e.Path,
					Expected: e.Hash,
					Computed: computed,
				})
				mu.Unlock()

				atomic.AddInt64(&stats.Processed, 1)
				continue
			}

			atomic.AddInt64(&stats.OK, 1)
			atomic.AddInt64(&stats.Processed, 1)
		}
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go worker()
	}

	for i, e := range entries {
		if ctx.Err() == nil {
			select {
			case jobs <- e:
				continue
			case <-ctx.Done():
			}
		}
		for _, rest := range entries[i:] {
			atomic.AddInt64(&stats.Skipped, 1)
			atomic.AddInt64(&stats.Processed, 1)
			fail(rest.Path, ctx.Err())
		}
		break
	}
	close(jobs)

	wg.Wait()
	return res
}

func statRegular(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file", path)
	}
	return info, nil
}
