package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"hashfile/internal/digest"
)

var (
	ErrMalformedLine = errors.New("malformed checksum line")
	ErrEmpty         = errors.New("checksum file has no entries")

	ErrNoEntry           = errors.New("no checksum entry")
	ErrAlgorithmMismatch = errors.New("checksum entry uses a different algorithm")
)

var (
	gnuLine = regexp.MustCompile(`^([0-9a-fA-F]+) ([ *]?)(.+)$`)
	bsdLine = regexp.MustCompile(`^([A-Za-z0-9-]+) ?\((.+)\) ?= ?([0-9a-fA-F]+)$`)
)

// Parse reads GNU ("hash  path", "hash *path") and BSD ("ALG (path) = hash")
// checksum lines. Blank lines and lines starting with '#' are ignored.
func Parse(r io.Reader) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)

	entries := make([]Entry, 0)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		e, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		e.Line = lineNo
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseLine(line string) (Entry, error) {
	escaped := strings.HasPrefix(line, `\`)
	if escaped {
		line = line[1:]
	}

	if m := bsdLine.FindStringSubmatch(line); m != nil {
		alg, err := digest.ParseAlgorithm(m[1])
		if err != nil {
			return Entry{}, err
		}
		return Entry{
			Path:         unescape(m[2], escaped),
			Hash:         strings.ToLower(m[3]),
			Algorithm:    alg,
			HasAlgorithm: true,
		}, nil
	}

	if m := gnuLine.FindStringSubmatch(line); m != nil {
		return Entry{
			Path:   unescape(m[3], escaped),
			Hash:   strings.ToLower(m[1]),
			Binary: m[2] == "*",
		}, nil
	}

	return Entry{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
}

func unescape(s string, escaped bool) string {
	if !escaped {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Load parses the checksum file at path. Relative entry paths are resolved
// against the checksum file's directory.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range entries {
		if !filepath.IsAbs(entries[i].Path) {
			entries[i].Path = filepath.Join(dir, entries[i].Path)
		}
	}
	return entries, nil
}
