package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"hashfile/internal/metrics"
)

type SnapshotFn func() metrics.Snapshot

// Bar renders hashed bytes. AddBytes may be called from many goroutines;
// a single goroutine owns the underlying progress bar.
type Bar struct {
	bar  *progressbar.ProgressBar
	ch   chan int64
	done chan struct{}
	stop chan struct{}

	label  string
	snap   SnapshotFn
	lastB  int64
	lastAt time.Time
}

func New(w io.Writer, label string, totalBytes int64, snap SnapshotFn) (*Bar, error) {
	b := &Bar{
		ch:     make(chan int64, 16384),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
		label:  label,
		snap:   snap,
		lastAt: time.Now(),
	}

	b.bar = progressbar.NewOptions64(
		totalBytes,
		progressbar.OptionSetWriter(w),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120*time.Millisecond),
	)

	if err := b.bar.RenderBlank(); err != nil {
		return nil, fmt.Errorf("render progress: %w", err)
	}
	go func() {
		defer close(b.done)
		for n := range b.ch {
			_ = b.bar.Add64(n)
		}
		_ = b.bar.Finish()
	}()

	go func() {
		t := time.NewTicker(1 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				b.updateDescription()
			case <-b.stop:
				return
			}
		}
	}()

	return b, nil
}

// AddBytes is a no-op on a nil Bar so callers can pass nil to disable output.
func (b *Bar) AddBytes(n int64) {
	if b == nil || n <= 0 {
		return
	}
	b.ch <- n
}

func (b *Bar) Close() {
	if b == nil {
		return
	}
	close(b.stop)
	close(b.ch)
	<-b.done
}

func (b *Bar) updateDescription() {
	if b.snap == nil {
		return
	}
	s := b.snap()

	now := time.Now()
	dt := now.Sub(b.lastAt).Seconds()

	mbps := 0.0
	if dt > 0 {
		mbps = (float64(s.BytesHashed-b.lastB) / 1_000_000.0) / dt
	}

	b.lastB = s.BytesHashed
	b.lastAt = now

	b.bar.Describe(describe(b.label, s, mbps))
}

func describe(label string, s metrics.Snapshot, mbps float64) string {
	errc := s.StatErrors + s.HashErrors
	if s.Groups > 0 {
		return fmt.Sprintf("%s %d/%d files | groups=%d dup=%d err=%d | %.1f MB/s",
			label, s.Processed, s.Total, s.Groups, s.Duplicates, errc, mbps,
		)
	}
	return fmt.Sprintf("%s %d/%d files | ok=%d hash_mismatches=%d err=%d skip=%d | %.1f MB/s",
		label, s.Processed, s.Total, s.OK, s.HashMismatches, errc, s.Skipped, mbps,
	)
}
