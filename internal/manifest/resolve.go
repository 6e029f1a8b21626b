package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hashfile/internal/digest"
)

// Expectation is the resolved value of a --verify argument: either a literal
// digest or the entries of a checksum file.
type Expectation struct {
	literal string
	entries []Entry
}

// Resolve treats expected as a checksum file when it names a regular file,
// and as a literal digest otherwise.
func Resolve(expected string) (Expectation, error) {
	trimmed := strings.TrimSpace(expected)
	st, err := os.Stat(trimmed)
	if err != nil || !st.Mode().IsRegular() {
		return Expectation{literal: trimmed}, nil
	}

	entries, err := Load(trimmed)
	if err != nil {
		return Expectation{}, err
	}
	if len(entries) == 0 {
		return Expectation{}, ErrEmpty
	}
	return Expectation{entries: entries}, nil
}

func (x Expectation) IsFile() bool { return x.entries != nil }

// For returns the expected digest for path under alg. Checksum file
// entries match on the cleaned path first, then on the base name; a
// single-entry file matches any path. An entry tagged with another
// algorithm yields ErrAlgorithmMismatch.
func (x Expectation) For(path string, alg digest.Algorithm) (string, error) {
	if x.entries == nil {
		return x.literal, nil
	}

	e, ok := x.lookup(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoEntry, path)
	}
	if e.HasAlgorithm && e.Algorithm != alg {
		return "", fmt.Errorf("%w: entry is %s, hashing with %s", ErrAlgorithmMismatch, e.Algorithm, alg)
	}
	return e.Hash, nil
}

func (x Expectation) lookup(path string) (Entry, bool) {
	clean := filepath.Clean(path)
	for _, e := range x.entries {
		if filepath.Clean(e.Path) == clean {
			return e, true
		}
	}
	base := filepath.Base(path)
	for _, e := range x.entries {
		if filepath.Base(e.Path) == base {
			return e, true
		}
	}
	if len(x.entries) == 1 {
		return x.entries[0], true
	}
	return Entry{}, false
}
