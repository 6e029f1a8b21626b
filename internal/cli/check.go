package cli

import (
	"sync/atomic"

	"github.com/spf13/cobra"

	"hashfile/internal/collect"
	"hashfile/internal/logging"
	"hashfile/internal/manifest"
	"hashfile/internal/metrics"
	"hashfile/internal/progress"
	"hashfile/internal/verify"
)

func newCheckCmd(g *globalOptions) *cobra.Command {
	var showStats bool

	cmd := &cobra.Command{
		Use:   "check <checksum-file>...",
		Short: "Verify every entry of one or more checksum files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lg := logging.FromContext(ctx)

			engine, err := g.engine()
			if err != nil {
				return err
			}

			var entries []manifest.Entry
			for _, path := range args {
				es, err := manifest.Load(path)
				if err != nil {
					return err
				}
				lg.Info("loaded checksum file", "path", path, "entries", len(es))
				entries = append(entries, es...)
			}

			stats := &metrics.Stats{}
			stats.Start()
			atomic.StoreInt64(&stats.Total, int64(len(entries)))

			var bar *progress.Bar
			if w := g.progressOut(cmd); w != nil {
				paths := make([]string, len(entries))
				for i, e := range entries {
					paths[i] = e.Path
				}
				total := collect.TotalSize(paths)
				atomic.StoreInt64(&stats.TotalBytes, total)

				bar, err = progress.New(w, "checking", total, stats.Snapshot)
				if err != nil {
					return err
				}
			}

			res := verify.Check(ctx, engine, entries, verify.Options{Workers: g.workerCount()}, stats, bar)
			bar.Close()
			stats.Stop()

			p, err := g.printer(cmd.OutOrStdout(), engine.Algorithm())
			if err != nil {
				return err
			}
			for _, m := range res.Mismatches {
				lg.Debug("mismatch", "path", m.Path, "expected", m.Expected, "computed", m.Computed)
				if err := p.Status(m.Path, false, nil); err != nil {
					return err
				}
			}
			for _, pe := range res.Errors {
				if err := p.Status(pe.Path, false, pe.Err); err != nil {
					return err
				}
			}
			if showStats {
				metrics.Print(cmd.ErrOrStderr(), stats)
			}

			if failed := stats.Failed(); failed > 0 {
				return &FailedError{Failed: int(failed)}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStats, "stats", false, "print run statistics to stderr")
	return cmd
}
