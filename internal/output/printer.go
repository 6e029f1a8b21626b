// Package output renders digests, verification results and duplicate
// groups for the terminal or for machines.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mitchellh/colorstring"
	"github.com/valyala/fasttemplate"

	"hashfile/internal/digest"
	"hashfile/internal/dupes"
)

type Options struct {
	Format    Format
	Algorithm digest.Algorithm
	Quiet     bool
	Color     bool

	// Template replaces the format's line layout for text formats.
	Template string
}

type Printer struct {
	w    io.Writer
	opts Options
	line *fasttemplate.Template
	enc  *json.Encoder
	ansi colorstring.Colorize
}

func NewPrinter(w io.Writer, opts Options) (*Printer, error) {
	if opts.Format == "" {
		opts.Format = Plain
	}
	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return nil, err
	}

	p := &Printer{
		w:    w,
		opts: opts,
		enc:  json.NewEncoder(w),
		ansi: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !opts.Color,
			Reset:   true,
		},
	}

	if opts.Format != JSON {
		tmpl := lineTemplates[opts.Format]
		if opts.Template != "" {
			tmpl = opts.Template
		}
		t, err := fasttemplate.NewTemplate(tmpl, "{", "}")
		if err != nil {
			return nil, fmt.Errorf("line template %q: %w", tmpl, err)
		}
		p.line = t
	}
	return p, nil
}

type hashRecord struct {
	Path      string `json:"path"`
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

type statusRecord struct {
	Path      string `json:"path"`
	Algorithm string `json:"algorithm"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

type groupRecord struct {
	Algorithm string   `json:"algorithm"`
	Digest    string   `json:"digest"`
	Paths     []string `json:"paths"`
}

// Hash prints one digest line.
func (p *Printer) Hash(path, sum string) error {
	if p.opts.Quiet {
		_, err := fmt.Fprintln(p.w, sum)
		return err
	}
	if p.opts.Format == JSON {
		return p.enc.Encode(hashRecord{Path: path, Algorithm: p.opts.Algorithm.String(), Digest: sum})
	}

	line := p.line.ExecuteString(map[string]any{
		"hash": sum,
		"path": path,
		"alg":  p.opts.Algorithm.String(),
		"ALG":  p.opts.Algorithm.Label(),
	})
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// Status prints a verification outcome. A non-nil failure means the file
// could not be hashed at all.
func (p *Printer) Status(path string, ok bool, failure error) error {
	if p.opts.Format == JSON {
		rec := statusRecord{Path: path, Algorithm: p.opts.Algorithm.String(), OK: ok && failure == nil}
		if failure != nil {
			rec.Error = failure.Error()
		}
		return p.enc.Encode(rec)
	}

	var word string
	switch {
	case failure != nil:
		word = p.ansi.Color("[red]ERROR") + " - " + failure.Error()
	case ok:
		word = p.ansi.Color("[green]OK")
	default:
		word = p.ansi.Color("[red]FAILED")
	}
	_, err := fmt.Fprintf(p.w, "%s: %s\n", path, word)
	return err
}

// Duplicates prints each group as a header followed by its paths.
func (p *Printer) Duplicates(groups []dupes.SortedGroup) error {
	for _, g := range groups {
		if p.opts.Format == JSON {
			if err := p.enc.Encode(groupRecord{Algorithm: p.opts.Algorithm.String(), Digest: g.Digest, Paths: g.Paths}); err != nil {
				return err
			}
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "\n%s (%s)\n", p.ansi.Color("[yellow]Duplicate files:"), g.Digest)
		for _, path := range g.Paths {
			fmt.Fprintf(&b, "  %s\n", path)
		}
		if _, err := io.WriteString(p.w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// Colorize applies colorstring markup such as "[red]text", or strips it when
// color is off.
func (p *Printer) Colorize(s string) string {
	return p.ansi.Color(s)
}
