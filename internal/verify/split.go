package verify

import (
	"fmt"
	"os"

	"hashfile/internal/digest"
)

// CompareFileSplitsMany hashes the common prefix of every file in splits
// near-equal ranges and reports which ranges differ. Bytes past the shortest
// file are reported as tails.
func CompareFileSplitsMany(engine *digest.Engine, paths []string, splits int) (*MultiSplitResult, error) {
	if len(paths) < 2 {
		return nil, fmt.Errorf("need at least 2 files")
	}
	if splits <= 0 {
		return nil, fmt.Errorf("splits must be > 0")
	}

	res := &MultiSplitResult{
		Algorithm:       engine.Algorithm().String(),
		Splits:          splits,
		Paths:           paths,
		Sizes:           make([]int64, len(paths)),
		SplitHashes:     make([][]string, splits),
		DifferingSplits: make([]int, 0),
		TailBytes:       make([]int64, len(paths)),
	}

	for i, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, &digest.IOError{Op: "stat", Path: p, Err: err}
		}
		sz := st.Size()
		res.Sizes[i] = sz

		if i == 0 {
			res.MinSize, res.MaxSize = sz, sz
			continue
		}
		res.MinSize = min(res.MinSize, sz)
		res.MaxSize = max(res.MaxSize, sz)
	}

	for sp := range res.SplitHashes {
		start, end := res.SplitRange(sp)
		hashes := make([]string, len(paths))
		for fi, p := range paths {
			hx, err := engine.FileRange(p, start, end-start, nil)
			if err != nil {
				return nil, err
			}
			hashes[fi] = hx
		}
		res.SplitHashes[sp] = hashes

		for _, hx := range hashes[1:] {
			if hx != hashes[0] {
				res.DifferingSplits = append(res.DifferingSplits, sp)
				break
			}
		}
	}

	for i, sz := range res.Sizes {
		res.TailBytes[i] = sz - res.MinSize
	}
	return res, nil
}

// SplitRange returns the byte range [start, end) covered by split s. The
// first MinSize%Splits splits are one byte longer than the rest.
func (r *MultiSplitResult) SplitRange(s int) (start, end int64) {
	base := r.MinSize / int64(r.Splits)
	rem := r.MinSize % int64(r.Splits)
	i := int64(s)
	start = i*base + min(i, rem)
	end = start + base
	if i < rem {
		end++
	}
	return start, end
}
