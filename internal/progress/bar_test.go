package progress

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashfile/internal/metrics"
)

func TestBar_ConcurrentAddBytes(t *testing.T) {
	var out bytes.Buffer
	b, err := New(&out, "hashing", 4000, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.AddBytes(10)
			}
		}()
	}
	wg.Wait()
	b.Close()

	assert.True(t, b.bar.IsFinished())
}

func TestBar_NilIsNoop(t *testing.T) {
	var b *Bar
	b.AddBytes(10)
	b.Close()
}

func TestDescribe(t *testing.T) {
	got := describe("checking", metrics.Snapshot{Processed: 2, Total: 5, OK: 1, HashMismatches: 1, HashErrors: 1}, 1.5)
	assert.Equal(t, "checking 2/5 files | ok=1 hash_mismatches=1 err=1 skip=0 | 1.5 MB/s", got)

	got = describe("scanning", metrics.Snapshot{Processed: 4, Total: 4, Groups: 1, Duplicates: 2}, 0)
	assert.Equal(t, "scanning 4/4 files | groups=1 dup=2 err=0 | 0.0 MB/s", got)
}
