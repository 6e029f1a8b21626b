package manifest

import "hashfile/internal/digest"

// Entry is one line of a checksum file.
type Entry struct {
	Path string
	Hash string

	// Algorithm is only known for BSD style lines.
	Algorithm    digest.Algorithm
	HasAlgorithm bool

	Binary bool
	Line   int
}
