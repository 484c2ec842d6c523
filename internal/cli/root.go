// Package cli implements the pdfextract command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfextract/deps"
	"github.com/tsawler/pdfextract/internal/command"
	"github.com/tsawler/pdfextract/internal/config"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3"
var version = "dev"

// app is the state shared by every command of one invocation
type app struct {
	configPath string
	verbose    bool
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
	runner command.Runner
	errOut io.Writer
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{runner: command.Exec{}, errOut: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, deps.Error(err.Error()))
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pdfextract",
		Short: "Extract text, tables and images from PDF files",
		Long: `pdfextract partitions PDF files into titles, narrative text, list items,
tables and images, and writes each document to its own directory with a
JSON metadata file. OCR is used for scanned pages when the binary is built
with the ocr tag and tesseract is installed.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $"+config.EnvVar+" or ~/.pdfextract/config.toml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		a.extractCmd(),
		a.depsCmd(),
		a.watchCmd(),
		a.historyCmd(),
		a.configCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(a.logFormat, a.verbose, a.errOut)
	if err != nil {
		return err
	}
	a.logger = logger

	path, err := config.Path(a.configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("cli: config loaded", "path", path, "command", cmd.Name())
	return nil
}

func newLogger(format string, verbose bool, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = io.Discard
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
	}
}
