package verify

import (
	"io"
	"strings"

	"hashfile/internal/digest"
)

// Verifier checks byte sources against expected digests using one engine.
type Verifier struct {
	engine *digest.Engine
}

func New(engine *digest.Engine) *Verifier {
	return &Verifier{engine: engine}
}

func (v *Verifier) Engine() *digest.Engine { return v.engine }

// Reader reports whether r hashes to expected. Read failures come back as
// *digest.IOError.
func (v *Verifier) Reader(r io.Reader, expected string) (bool, error) {
	computed, err := v.engine.Compute(r)
	if err != nil {
		return false, err
	}
	return Matches(computed, expected), nil
}

func (v *Verifier) File(path, expected string) (bool, error) {
	computed, err := v.engine.File(path)
	if err != nil {
		return false, err
	}
	return Matches(computed, expected), nil
}

// Matches compares a computed digest with an expected one, ignoring case and
// surrounding whitespace on the expected side.
func Matches(computed, expected string) bool {
	return strings.EqualFold(computed, strings.TrimSpace(expected))
}
