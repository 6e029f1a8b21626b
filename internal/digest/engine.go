package digest

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

const (
	DefaultChunkSize = 8 << 10 // 8 KiB

	progressEvery = 1 << 20 // 1 MiB
)

// Engine computes digests with one algorithm. It keeps no state between
// calls and may be shared across goroutines.
type Engine struct {
	alg       Algorithm
	newHash   func() hash.Hash
	chunkSize int
}

type Option func(*Engine)

// WithChunkSize sets the read buffer size. Values <= 0 keep the default.
func WithChunkSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.chunkSize = n
		}
	}
}

func New(alg Algorithm, opts ...Option) (*Engine, error) {
	nh, err := alg.newHash()
	if err != nil {
		return nil, err
	}
	e := &Engine{
		alg:       alg,
		newHash:   nh,
		chunkSize: DefaultChunkSize,
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

func (e *Engine) Algorithm() Algorithm { return e.alg }

func (e *Engine) ChunkSize() int { return e.chunkSize }

// Compute streams r through a fresh hash and returns the lowercase hex digest.
func (e *Engine) Compute(r io.Reader) (string, error) {
	return e.ComputeProgress(r, nil)
}

// ComputeProgress is Compute with a byte counter callback. The callback is
// batched and receives every byte exactly once.
func (e *Engine) ComputeProgress(r io.Reader, onProgress func(n int64)) (string, error) {
	sum, err := e.stream(r, onProgress)
	if err != nil {
		return "", &IOError{Op: "read", Err: err}
	}
	return sum, nil
}

// File hashes the file at path.
func (e *Engine) File(path string) (string, error) {
	return e.FileProgress(path, nil)
}

func (e *Engine) FileProgress(path string, onProgress func(n int64)) (string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", &IOError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	sum, err := e.stream(f, onProgress)
	if err != nil {
		return "", &IOError{Op: "read", Path: path, Err: err}
	}
	return sum, nil
}

func (e *Engine) stream(r io.Reader, onProgress func(n int64)) (string, error) {
	h := e.newHash()
	buf := make([]byte, e.chunkSize)

	var pending int64
	flush := func() {
		if pending > 0 && onProgress != nil {
			onProgress(pending)
		}
		pending = 0
	}

	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return "", werr
			}
			pending += int64(n)
			if pending >= progressEvery {
				flush()
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", rerr
		}
	}
	flush()

	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileRange hashes exactly length bytes of path starting at start.
func (e *Engine) FileRange(path string, start, length int64, onProgress func(n int64)) (string, error) {
	if start < 0 || length < 0 {
		return "", fmt.Errorf("invalid range: start=%d length=%d", start, length)
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", &IOError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	cr := &countingReader{r: io.NewSectionReader(f, start, length)}
	sum, err := e.stream(cr, onProgress)
	if err != nil {
		return "", &IOError{Op: "read", Path: path, Err: err}
	}

	// SectionReader stops quietly at EOF, so a short file shows up here.
	if cr.n != length {
		return "", &IOError{
			Op:   "read",
			Path: path,
			Err:  fmt.Errorf("offset %d: %w", start+cr.n, io.ErrUnexpectedEOF),
		}
	}
	return sum, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
