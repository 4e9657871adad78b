package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mcncl/jsonify/internal/config"
	"github.com/mcncl/jsonify/internal/errors"
	"github.com/mcncl/jsonify/internal/extractor"
	"github.com/mcncl/jsonify/internal/generator"
	"github.com/mcncl/jsonify/internal/models"
	"github.com/mcncl/jsonify/internal/parser"
	"github.com/mcncl/jsonify/internal/progress"
)

// stdio is the path that stands for stdin or stdout
const stdio = "-"

// CLI defines the command-line interface
var CLI struct {
	Input    string           `arg:"" help:"Log file to scan for events. Use - for stdin."`
	Output   string           `arg:"" help:"File to write the JSON array to. Use - for stdout."`
	Config   string           `help:"Path to config file. Defaults to the nearest .jsonify.yml." short:"c" type:"path"`
	NoRepair bool             `help:"Write events as extracted, without the JSON repair pass."`
	OnError  string           `help:"Policy for events that cannot be repaired: skip, abort or passthrough." placeholder:"POLICY"`
	Quiet    bool             `help:"Do not draw the progress bar." short:"q"`
	Debug    bool             `help:"Enable debug logging." short:"d"`
	Version  kong.VersionFlag `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	app := kong.Must(&CLI,
		kong.Name("jsonify"),
		kong.Description("Extract {\"ts\":...} events from noisy log text into a JSON array"),
		kong.UsageOnError(),
		kong.Vars{"version": "jsonify version " + Version},
	)

	_, err := app.Parse(os.Args[1:])
	app.FatalIfErrorf(err)

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, config.Overrides{
		NoRepair: CLI.NoRepair,
		OnError:  CLI.OnError,
		Quiet:    CLI.Quiet,
		Debug:    CLI.Debug,
	})
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}

	ctx := &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	if err := run(ctx); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError reports a fatal error followed by the help hint
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s\n", errors.UserFriendlyError(err))
	fmt.Fprintf(w, "\nFor help, run: jsonify --help\n")
}

// run executes the main program logic
func run(ctx *Context) error {
	if CLI.Input == "" || CLI.Output == "" {
		return errors.NewInputError("input and output are required", errors.ErrNoInput)
	}
	logger := newLogger(ctx)

	// 1. Read and split the input
	segments, err := readInput(ctx)
	if err != nil {
		return err
	}
	logger.Debug("input read", "path", CLI.Input, "segments", len(segments))

	// 2. Extract and repair events
	result, err := newExtractor(ctx, logger).Extract(segments)
	if err != nil {
		return err
	}
	logger.Debug("extraction done", "events", len(result.Events), "dropped", result.Dropped, "defects", len(result.Defects))

	// 3. Write the array
	if err := writeOutput(ctx, result.Events); err != nil {
		return err
	}

	reportDefects(ctx, result)
	if CLI.Output != stdio {
		fmt.Fprintf(ctx.Stderr, "\nWrote to %s\n", CLI.Output)
	}
	return nil
}

func newLogger(ctx *Context) *slog.Logger {
	if !ctx.Debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(ctx.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newExtractor(ctx *Context, logger *slog.Logger) *extractor.Extractor {
	var reporter progress.Reporter = progress.Nop{}
	if ctx.Config.Progress.Enabled {
		reporter = progress.NewBar(ctx.Stderr, "scanning")
	}
	return extractor.NewExtractorWithConfig(ctx.Config,
		extractor.WithReporter(reporter),
		extractor.WithLogger(logger),
	)
}

// readInput reads segments from the input file or stdin
func readInput(ctx *Context) ([]string, error) {
	if CLI.Input == stdio {
		return parser.Parse(ctx.Stdin, ctx.Config.SegmentDelimiter)
	}
	return parser.ParseFile(CLI.Input, ctx.Config.SegmentDelimiter)
}

// writeOutput writes the array to the output file or stdout
func writeOutput(ctx *Context, events []models.Event) error {
	gen := generator.NewGenerator()
	if CLI.Output == stdio {
		if err := gen.Write(ctx.Stdout, events); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
		return nil
	}
	return gen.WriteFile(CLI.Output, events)
}

func reportDefects(ctx *Context, result models.Result) {
	if len(result.Defects) == 0 {
		return
	}
	action := "skipped"
	if ctx.Config.Repair.OnError == config.PolicyPassthrough {
		action = "written unrepaired"
	}
	fmt.Fprintf(ctx.Stderr, "\n%d event(s) could not be repaired and were %s\n", len(result.Defects), action)
	for _, d := range result.Defects {
		fmt.Fprintf(ctx.Stderr, "  segment %d, offset %d: %v\n", d.Segment, d.Offset, d.Err)
	}
}
