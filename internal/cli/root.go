// Package cli wires the hashfile commands to the digest, verify and dupes
// packages.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"hashfile/internal/config"
	"hashfile/internal/digest"
	"hashfile/internal/logging"
	"hashfile/internal/output"
)

var Version = "dev"

type globalOptions struct {
	configPath string
	algorithm  string
	format     string
	template   string
	quiet      bool
	workers    int
	chunkSize  int
	noColor    bool
	progress   bool
	logLevel   string
	logJSON    bool

	color *bool
}

// FailedError is returned when the command ran but some files failed. The
// details have already been printed.
type FailedError struct {
	Failed int
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%d file(s) failed", e.Failed)
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var failed *FailedError
	if errors.As(err, &failed) {
		return 1
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "hashfile:", err)
	return 2
}

func NewRootCmd() *cobra.Command {
	g := &globalOptions{}
	r := &rootOptions{}

	defaults := config.Default()

	cmd := &cobra.Command{
		Use:           "hashfile [paths...]",
		Short:         "Calculate and verify file checksums and find duplicate files",
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, g, r, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "YAML config file (default "+config.DefaultPath()+")")
	pf.StringVarP(&g.algorithm, "algorithm", "a", defaults.Algorithm, "hash algorithm: md5, sha1, sha256, sha512, blake3")
	pf.StringVarP(&g.format, "format", "f", defaults.Format, "output format: plain, bsd, gnu, json")
	pf.StringVar(&g.template, "template", "", "custom line layout using {hash}, {path}, {alg}, {ALG}")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "print only the hash value")
	pf.IntVarP(&g.workers, "workers", "j", defaults.Workers, "parallel workers (0 = number of CPUs)")
	pf.IntVar(&g.chunkSize, "chunk-size", defaults.ChunkSize, "read buffer size in bytes")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&g.progress, "progress", defaults.Progress, "show a progress bar on stderr")
	pf.StringVar(&g.logLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	pf.BoolVar(&g.logJSON, "log-json", defaults.LogJSON, "log as JSON")

	f := cmd.Flags()
	f.StringVarP(&r.verify, "verify", "v", "", "verify against a checksum (hash value or checksum file)")
	f.BoolVarP(&r.recursive, "recursive", "r", false, "process directories recursively")
	f.BoolVar(&r.duplicates, "duplicates", false, "find duplicate files")
	f.BoolVar(&r.confirm, "confirm", defaults.Confirm, "compare duplicate candidates byte for byte")
	f.BoolVar(&r.stdin, "stdin", false, "read the file list from stdin")
	f.BoolVar(&r.stats, "stats", false, "print run statistics to stderr")

	cmd.AddCommand(newCheckCmd(g), newCompareCmd(g))
	return cmd
}

func (g *globalOptions) setup(cmd *cobra.Command) error {
	path, explicit := g.configPath, g.configPath != ""
	if !explicit {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return err
	}
	g.merge(cmd, cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !logging.HasLogger(ctx) {
		lg := logging.New(logging.Config{
			Out:   cmd.ErrOrStderr(),
			Level: logging.ParseLevel(g.logLevel),
			JSON:  g.logJSON,
		})
		ctx = logging.WithLogger(ctx, lg)
	}
	cmd.SetContext(ctx)

	logging.FromContext(ctx).Debug("configured",
		"algorithm", g.algorithm,
		"format", g.format,
		"workers", g.workerCount(),
		"chunk_size", g.chunkSize,
	)
	return nil
}

// merge copies config values into every flag the user did not set.
func (g *globalOptions) merge(cmd *cobra.Command, cfg config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("algorithm") {
		g.algorithm = cfg.Algorithm
	}
	if !flags.Changed("format") {
		g.format = cfg.Format
	}
	if !flags.Changed("workers") {
		g.workers = cfg.Workers
	}
	if !flags.Changed("chunk-size") {
		g.chunkSize = cfg.ChunkSize
	}
	if !flags.Changed("progress") {
		g.progress = cfg.Progress
	}
	if !flags.Changed("log-level") {
		g.logLevel = cfg.LogLevel
	}
	if !flags.Changed("log-json") {
		g.logJSON = cfg.LogJSON
	}
	if r := flags.Lookup("confirm"); r != nil && !r.Changed && cfg.Confirm {
		_ = r.Value.Set("true")
	}
	g.color = cfg.Color
}

func (g *globalOptions) workerCount() int {
	if g.workers > 0 {
		return g.workers
	}
	return runtime.NumCPU()
}

func (g *globalOptions) engine() (*digest.Engine, error) {
	alg, err := digest.ParseAlgorithm(g.algorithm)
	if err != nil {
		return nil, err
	}
	return digest.New(alg, digest.WithChunkSize(g.chunkSize))
}

func (g *globalOptions) printer(w io.Writer, alg digest.Algorithm) (*output.Printer, error) {
	format, err := output.ParseFormat(g.format)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(w, output.Options{
		Format:    format,
		Algorithm: alg,
		Quiet:     g.quiet,
		Color:     g.colorOn(w),
		Template:  g.template,
	})
}

func (g *globalOptions) colorOn(w io.Writer) bool {
	if g.noColor || (g.color != nil && !*g.color) {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return g.color != nil && *g.color
	}
	return output.ColorEnabled(f, false)
}

// progressOut returns the stream to draw a progress bar on, or nil.
func (g *globalOptions) progressOut(cmd *cobra.Command) io.Writer {
	if !g.progress {
		return nil
	}
	w := cmd.ErrOrStderr()
	if f, ok := w.(*os.File); ok && !output.IsTerminal(f) {
		return nil
	}
	return w
}
