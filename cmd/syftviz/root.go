package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spboyer/syftviz/internal/chart"
	"github.com/spboyer/syftviz/internal/input"
	"github.com/spboyer/syftviz/internal/projectconfig"
	"github.com/spboyer/syftviz/internal/timing"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

type rootOptions struct {
	debug      bool
	configPath string
	width      int
	threshold  float64
	maxName    int
	format     string
	noColor    bool
	noTotal    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "syftviz [path]",
		Short: "Chart where syft spends its time",
		Long: `syftviz reads syft's verbose log output and charts the elapsed time of
every "task completed" entry, longest first.

The log is read from path, or from standard input when it is piped:

  syft -vv alpine:latest 2>&1 | syftviz
  syftviz syft.log.gz

Gzip and zstd compressed logs are decompressed automatically. Defaults can be
set in a .syftviz.yaml file in the working directory or any parent.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Config file (default: nearest "+projectconfig.FileName+")")
	f.IntVarP(&opts.width, "width", "w", projectconfig.DefaultWidth, "Bar length, in cells, of a task taking all the time")
	f.Float64Var(&opts.threshold, "threshold", projectconfig.DefaultThreshold, "Hide tasks below this share, in percent")
	f.IntVar(&opts.maxName, "max-name", projectconfig.DefaultMaxNameWidth, "Truncate task names wider than this; 0 disables")
	f.StringVarP(&opts.format, "format", "f", projectconfig.DefaultFormat, "Output format: table or json")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	f.BoolVar(&opts.noTotal, "no-total", false, "Hide the summary line in table output")

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

func runChart(cmd *cobra.Command, args []string, opts *rootOptions) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.debug)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, opts)
	if cfg.Output.Format != "table" && cfg.Output.Format != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", cfg.Output.Format)
	}
	if cfg.Chart.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", cfg.Chart.Width)
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	rc, err := input.Open(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer rc.Close() //nolint:errcheck

	records, err := timing.NewParser(logger).Parse(rc)
	if err != nil {
		return err
	}
	logger.Debug("Parsed log", "path", path, "records", len(records))

	c, err := chart.Build(records, chart.Options{
		Width:     cfg.Chart.Width,
		Threshold: *cfg.Chart.Threshold,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Output.Format == "json" {
		return chart.WriteJSON(out, c)
	}
	r := &chart.Renderer{
		Color:        useColor(cfg.Output.Color, out),
		MaxNameWidth: cfg.Chart.MaxNameWidth,
		ShowTotal:    *cfg.Output.ShowTotal,
	}
	return r.Render(out, c)
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadConfig(path string) (*projectconfig.Config, error) {
	if path != "" {
		return projectconfig.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}
	return projectconfig.Load(wd)
}

// applyFlags lets flags given on the command line win over the config file.
func applyFlags(cmd *cobra.Command, cfg *projectconfig.Config, opts *rootOptions) {
	f := cmd.Flags()
	if f.Changed("width") {
		cfg.Chart.Width = opts.width
	}
	if f.Changed("threshold") {
		cfg.Chart.Threshold = &opts.threshold
	}
	if f.Changed("max-name") {
		cfg.Chart.MaxNameWidth = opts.maxName
	}
	if f.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if opts.noColor {
		off := false
		cfg.Output.Color = &off
	}
	if opts.noTotal {
		off := false
		cfg.Output.ShowTotal = &off
	}
}

// useColor honours an explicit setting, otherwise colours only a terminal
// that has not opted out through NO_COLOR.
func useColor(setting *bool, out io.Writer) bool {
	if setting != nil {
		return *setting
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) && !color.NoColor
}
