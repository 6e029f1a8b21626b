// Package collect turns command line arguments and stdin path lists into a
// flat list of regular files.
package collect

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrDirectory marks a directory argument given without recursion.
var ErrDirectory = errors.New("is a directory (use --recursive)")

// Paths keeps regular files from args. Directories are walked when
// recursive is set and skipped otherwise. Arguments or walk entries that
// cannot be read are returned as errors alongside the files found.
func Paths(args []string, recursive bool) ([]string, []error) {
	var files []string
	var errs []error

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		switch {
		case info.Mode().IsRegular():
			files = append(files, arg)
		case info.IsDir() && recursive:
			werr := filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					errs = append(errs, err)
					return nil
				}
				if d.Type().IsRegular() {
					files = append(files, p)
				}
				return nil
			})
			if werr != nil {
				errs = append(errs, werr)
			}
		case info.IsDir():
			errs = append(errs, fmt.Errorf("%s: %w", arg, ErrDirectory))
		}
	}
	return files, errs
}

// Lines reads one path per line, skipping blank lines.
func Lines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)

	var paths []string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		paths = append(paths, line)
	}
	return paths, sc.Err()
}

// TotalSize sums the sizes of paths that can be stat'ed.
func TotalSize(paths []string) int64 {
	var total int64
	for _, p := range paths {
		if st, err := os.Stat(p); err == nil {
			total += st.Size()
		}
	}
	return total
}
