package metrics

import (
	"sync/atomic"
	"time"
)

// Stats is shared by workers; counters must be touched with sync/atomic.
type Stats struct {
	Total      int64
	TotalBytes int64

	Processed      int64
	OK             int64
	Skipped        int64
	StatErrors     int64
	HashErrors     int64
	HashMismatches int64

	Groups     int64
	Duplicates int64

	BytesHashed int64
	Started     time.Time
	Finished    time.Time
}

func (s *Stats) Start() { s.Started = time.Now() }
func (s *Stats) Stop()  { s.Finished = time.Now() }
func (s *Stats) Duration() time.Duration {
	if s.Started.IsZero() {
		return 0
	}
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}

// Failed counts every processed entry that did not end OK or Skipped.
func (s *Stats) Failed() int64 {
	return atomic.LoadInt64(&s.StatErrors) +
		atomic.LoadInt64(&s.HashErrors) +
		atomic.LoadInt64(&s.HashMismatches)
}
