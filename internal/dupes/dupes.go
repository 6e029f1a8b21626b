// Package dupes groups files by content digest.
package dupes

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/udhos/equalfile"

	"hashfile/internal/digest"
	"hashfile/internal/metrics"
)

// ErrContentMismatch marks a path whose digest matched its group but whose
// bytes did not.
var ErrContentMismatch = errors.New("digest collision: content differs")

// Groups maps a digest to the paths sharing it. Every value has at least
// two paths.
type Groups map[string][]string

type Pair struct {
	Digest string
	Path   string
}

type Skip struct {
	Path string
	Err  error
}

type Report struct {
	Groups  Groups
	Skipped []Skip
}

// SortedGroup is one duplicate group in presentation order.
type SortedGroup struct {
	Digest string
	Paths  []string
}

type options struct {
	workers    int
	onProgress func(n int64)
	stats      *metrics.Stats
	confirm    bool
}

type Option func(*options)

// WithWorkers bounds the number of files hashed at once.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithProgress receives hashed byte counts. It is called from many
// goroutines.
func WithProgress(fn func(n int64)) Option {
	return func(o *options) { o.onProgress = fn }
}

func WithStats(s *metrics.Stats) Option {
	return func(o *options) { o.stats = s }
}

// WithConfirm compares group members byte for byte before reporting them.
func WithConfirm(confirm bool) Option {
	return func(o *options) { o.confirm = confirm }
}

// Find returns the duplicate groups among paths. Paths that cannot be hashed
// are left out without error.
func Find(engine *digest.Engine, paths []string, opts ...Option) Groups {
	return FindReport(context.Background(), engine, paths, opts...).Groups
}

type result struct {
	Pair
	err error
}

// FindReport is Find with the skipped paths kept for diagnostics. Once ctx is
// done no new paths are hashed; the undispatched ones are reported skipped.
func FindReport(ctx context.Context, engine *digest.Engine, paths []string, opts ...Option) Report {
	o := options{workers: runtime.NumCPU()}
	for _, fn := range opts {
		fn(&o)
	}
	stats := o.stats
	if stats == nil {
		stats = &metrics.Stats{}
	}

	jobs := make(chan string)
	results := make(chan result)

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for p := range jobs {
			d, err := engine.FileProgress(p, func(n int64) {
				atomic.AddInt64(&stats.BytesHashed, n)
				if o.onProgress != nil {
					o.onProgress(n)
				}
			})
			results <- result{Pair: Pair{Digest: d, Path: p}, err: err}
		}
	}

	wg.Add(o.workers)
	for i := 0; i < o.workers; i++ {
		go worker()
	}

	collected := make(chan Report)
	go func() {
		var pairs []Pair
		var skipped []Skip
		for r := range results {
			atomic.AddInt64(&stats.Processed, 1)
			if r.err != nil {
				atomic.AddInt64(&stats.HashErrors, 1)
				skipped = append(skipped, Skip{Path: r.Path, Err: r.err})
				continue
			}
			pairs = append(pairs, r.Pair)
		}
		collected <- Report{Groups: Group(pairs), Skipped: skipped}
	}()

	var cancelled []Skip
	for i, p := range paths {
		if ctx.Err() == nil {
			select {
			case jobs <- p:
				continue
			case <-ctx.Done():
			}
		}
		for _, rest := range paths[i:] {
			cancelled = append(cancelled, Skip{Path: rest, Err: ctx.Err()})
		}
		break
	}
	close(jobs)
	wg.Wait()
	close(results)

	rep := <-collected
	atomic.AddInt64(&stats.Skipped, int64(len(cancelled)))
	atomic.AddInt64(&stats.Processed, int64(len(cancelled)))
	rep.Skipped = append(rep.Skipped, cancelled...)

	if o.confirm {
		rep.Skipped = append(rep.Skipped, confirm(rep.Groups)...)
	}

	for _, members := range rep.Groups {
		atomic.AddInt64(&stats.Groups, 1)
		atomic.AddInt64(&stats.Duplicates, int64(len(members)))
	}
	return rep
}

// Group merges digest/path pairs and drops digests seen only once. Path order
// within a group follows pairs.
func Group(pairs []Pair) Groups {
	all := make(map[string][]string)
	for _, p := range pairs {
		all[p.Digest] = append(all[p.Digest], p.Path)
	}

	groups := make(Groups)
	for d, members := range all {
		if len(members) > 1 {
			groups[d] = members
		}
	}
	return groups
}

// confirm keeps only the members whose bytes equal the group's first member.
func confirm(groups Groups) []Skip {
	var dropped []Skip
	cmp := equalfile.New(nil, equalfile.Options{})

	for d, members := range groups {
		kept := []string{members[0]}
		for _, p := range members[1:] {
			equal, err := cmp.CompareFile(members[0], p)
			switch {
			case err != nil:
				dropped = append(dropped, Skip{Path: p, Err: err})
			case !equal:
				dropped = append(dropped, Skip{Path: p, Err: ErrContentMismatch})
			default:
				kept = append(kept, p)
			}
		}
		if len(kept) < 2 {
			delete(groups, d)
			continue
		}
		groups[d] = kept
	}
	return dropped
}

// Sorted orders groups by digest and paths within each group by name.
func Sorted(groups Groups) []SortedGroup {
	out := make([]SortedGroup, 0, len(groups))
	for d, members := range groups {
		paths := append([]string(nil), members...)
		sort.Strings(paths)
		out = append(out, SortedGroup{Digest: d, Paths: paths})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Digest < out[j].Digest })
	return out
}
