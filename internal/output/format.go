package output

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrUnknownFormat = errors.New("unknown output format")

type Format string

const (
	Plain Format = "plain"
	BSD   Format = "bsd"
	GNU   Format = "gnu"
	JSON  Format = "json"
)

var Formats = []Format{Plain, BSD, GNU, JSON}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// line templates; tags are {hash}, {path}, {alg} and {ALG}
var lineTemplates = map[Format]string{
	Plain: "{hash} {path}",
	GNU:   "{hash} *{path}",
	BSD:   "{ALG}({path}) = {hash}",
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ColorEnabled decides whether status words are colored on f.
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(f)
}
