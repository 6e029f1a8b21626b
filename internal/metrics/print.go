package metrics

import (
	"fmt"
	"io"
	"sync/atomic"
)

type Snapshot struct {
	DurationMs     int64
	Total          int64
	Processed      int64
	OK             int64
	Skipped        int64
	StatErrors     int64
	HashErrors     int64
	HashMismatches int64
	Groups         int64
	Duplicates     int64
	BytesHashed    int64
	TotalBytes     int64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		DurationMs:     s.Duration().Milliseconds(),
		Total:          atomic.LoadInt64(&s.Total),
		Processed:      atomic.LoadInt64(&s.Processed),
		OK:             atomic.LoadInt64(&s.OK),
		Skipped:        atomic.LoadInt64(&s.Skipped),
		StatErrors:     atomic.LoadInt64(&s.StatErrors),
		HashErrors:     atomic.LoadInt64(&s.HashErrors),
		HashMismatches: atomic.LoadInt64(&s.HashMismatches),
		Groups:         atomic.LoadInt64(&s.Groups),
		Duplicates:     atomic.LoadInt64(&s.Duplicates),
		BytesHashed:    atomic.LoadInt64(&s.BytesHashed),
		TotalBytes:     atomic.LoadInt64(&s.TotalBytes),
	}
}

func Print(w io.Writer, s *Stats) {
	snap := s.Snapshot()

	fmt.Fprintln(w, "--- stats ---")
	fmt.Fprintln(w, "duration_ms:", snap.DurationMs)
	fmt.Fprintln(w, "total:", snap.Total)
	fmt.Fprintln(w, "processed:", snap.Processed)
	fmt.Fprintln(w, "ok:", snap.OK)
	fmt.Fprintln(w, "skipped:", snap.Skipped)
	fmt.Fprintln(w, "stat_errors:", snap.StatErrors)
	fmt.Fprintln(w, "hash_errors:", snap.HashErrors)
	fmt.Fprintln(w, "hash_mismatches:", snap.HashMismatches)
	if snap.Groups > 0 {
		fmt.Fprintln(w, "duplicate_groups:", snap.Groups)
		fmt.Fprintln(w, "duplicate_files:", snap.Duplicates)
	}
	fmt.Fprintln(w, "bytes_hashed:", snap.BytesHashed)
	fmt.Fprintln(w, "total_bytes:", snap.TotalBytes)

	if snap.DurationMs > 0 {
		secs := float64(snap.DurationMs) / 1000.0
		bps := float64(snap.BytesHashed) / secs
		fmt.Fprintln(w, "throughput_bytes_per_sec:", bps)
		fmt.Fprintln(w, "throughput_mb_per_sec:", bps/1_000_000.0)
	}
}
