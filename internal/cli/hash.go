package cli

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"hashfile/internal/collect"
	"hashfile/internal/digest"
	"hashfile/internal/dupes"
	"hashfile/internal/logging"
	"hashfile/internal/manifest"
	"hashfile/internal/metrics"
	"hashfile/internal/progress"
	"hashfile/internal/verify"
)

type rootOptions struct {
	verify     string
	recursive  bool
	duplicates bool
	confirm    bool
	stdin      bool
	stats      bool
}

func runRoot(cmd *cobra.Command, g *globalOptions, r *rootOptions, args []string) error {
	ctx := cmd.Context()
	lg := logging.FromContext(ctx)

	engine, err := g.engine()
	if err != nil {
		return err
	}

	var files []string
	var collectErrs []error
	switch {
	case r.stdin:
		files, err = collect.Lines(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	case r.verify != "" && !r.recursive:
		// unreadable arguments must show up as ERROR lines
		files = args
	default:
		files, collectErrs = collect.Paths(args, r.recursive)
	}

	switch {
	case r.verify != "":
		for _, e := range collectErrs {
			lg.Warn("skipping argument", "err", e)
		}
		if len(files) == 0 {
			return errors.New("no files specified for verification")
		}
		return runVerify(cmd, g, engine, r.verify, files)
	case r.duplicates:
		for _, e := range collectErrs {
			lg.Warn("skipping argument", "err", e)
		}
		return runDuplicates(ctx, cmd, g, r, engine, files)
	default:
		if len(files) == 0 && len(args) == 0 && !r.stdin {
			return cmd.Help()
		}
		return runHash(cmd, g, engine, files, collectErrs)
	}
}

// runHash prints one line per file. Unreadable arguments count as failures;
// directories given without --recursive are only logged.
func runHash(cmd *cobra.Command, g *globalOptions, engine *digest.Engine, files []string, collectErrs []error) error {
	lg := logging.FromContext(cmd.Context())
	p, err := g.printer(cmd.OutOrStdout(), engine.Algorithm())
	if err != nil {
		return err
	}

	failed := 0
	for _, e := range collectErrs {
		if errors.Is(e, collect.ErrDirectory) {
			lg.Warn("skipping argument", "err", e)
			continue
		}
		failed++
		fmt.Fprintln(cmd.ErrOrStderr(), p.Colorize("[red]"+e.Error()))
	}
	for _, path := range files {
		sum, err := engine.File(path)
		if err != nil {
			failed++
			lg.Debug("hash failed", "path", path, "err", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, p.Colorize("[red]"+err.Error()))
			continue
		}
		if err := p.Hash(path, sum); err != nil {
			return err
		}
	}
	if failed > 0 {
		return &FailedError{Failed: failed}
	}
	return nil
}

func runVerify(cmd *cobra.Command, g *globalOptions, engine *digest.Engine, expected string, files []string) error {
	x, err := manifest.Resolve(expected)
	if err != nil {
		return fmt.Errorf("resolve checksum: %w", err)
	}

	p, err := g.printer(cmd.OutOrStdout(), engine.Algorithm())
	if err != nil {
		return err
	}

	v := verify.New(engine)
	failed := 0
	for _, path := range files {
		want, err := x.For(path, engine.Algorithm())
		if err != nil {
			failed++
			if err := p.Status(path, false, err); err != nil {
				return err
			}
			continue
		}

		match, verr := v.File(path, want)
		if verr != nil || !match {
			failed++
		}
		if err := p.Status(path, match, verr); err != nil {
			return err
		}
	}
	if failed > 0 {
		return &FailedError{Failed: failed}
	}
	return nil
}

func runDuplicates(ctx context.Context, cmd *cobra.Command, g *globalOptions, r *rootOptions, engine *digest.Engine, files []string) error {
	lg := logging.FromContext(ctx)

	stats := &metrics.Stats{}
	stats.Start()
	atomic.StoreInt64(&stats.Total, int64(len(files)))

	var bar *progress.Bar
	if w := g.progressOut(cmd); w != nil {
		total := collect.TotalSize(files)
		atomic.StoreInt64(&stats.TotalBytes, total)

		var err error
		bar, err = progress.New(w, "scanning", total, stats.Snapshot)
		if err != nil {
			return err
		}
	}

	rep := dupes.FindReport(ctx, engine, files,
		dupes.WithWorkers(g.workerCount()),
		dupes.WithStats(stats),
		dupes.WithProgress(bar.AddBytes),
		dupes.WithConfirm(r.confirm),
	)
	bar.Close()
	stats.Stop()

	for _, s := range rep.Skipped {
		lg.Warn("skipped", "path", s.Path, "err", s.Err)
	}

	p, err := g.printer(cmd.OutOrStdout(), engine.Algorithm())
	if err != nil {
		return err
	}
	if err := p.Duplicates(dupes.Sorted(rep.Groups)); err != nil {
		return err
	}
	if r.stats {
		metrics.Print(cmd.ErrOrStderr(), stats)
	}
	return ctx.Err()
}
