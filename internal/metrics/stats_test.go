package metrics

import (
	"bytes"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_ConcurrentCounters(t *testing.T) {
	s := &Stats{}
	s.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				atomic.AddInt64(&s.Processed, 1)
				atomic.AddInt64(&s.BytesHashed, 10)
			}
		}()
	}
	wg.Wait()
	s.Stop()

	snap := s.Snapshot()
	assert.Equal(t, int64(8000), snap.Processed)
	assert.Equal(t, int64(80000), snap.BytesHashed)
	assert.GreaterOrEqual(t, snap.DurationMs, int64(0))
}

func TestFailed(t *testing.T) {
	s := &Stats{StatErrors: 1, HashErrors: 2, HashMismatches: 3, OK: 10, Skipped: 4}
	assert.Equal(t, int64(6), s.Failed())
}

func TestDuration(t *testing.T) {
	var s Stats
	assert.Zero(t, s.Duration())

	s.Started = time.Now().Add(-2 * time.Second)
	s.Finished = s.Started.Add(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, s.Duration())
}

func TestPrint(t *testing.T) {
	s := &Stats{Total: 3, Processed: 3, OK: 2, HashMismatches: 1, Groups: 1, Duplicates: 2}
	var buf bytes.Buffer
	Print(&buf, s)

	out := buf.String()
	assert.Contains(t, out, "--- stats ---")
	assert.Contains(t, out, "hash_mismatches: 1")
	assert.Contains(t, out, "duplicate_groups: 1")
	assert.NotContains(t, out, "throughput")
}
