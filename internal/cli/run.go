package cli

import (
	"context"
	"io"

	"github.com/aretw0/tandem/internal/config"
	"github.com/aretw0/tandem/internal/presentation/tui"
	"github.com/aretw0/tandem/pkg/runner"
)

// RunOptions configures the interactive session.
type RunOptions struct {
	ConfigPath string
	JSON       bool // NDJSON input and output
	Plain      bool // plain text even on a terminal
	Debug      bool
	Signals    bool
}

// RunSession runs the two-list view over in and out until the input ends.
func RunSession(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg, opts.Debug, true)
	if err != nil {
		return err
	}

	stack, err := NewStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	handler, interactive, err := createHandler(opts, in, out)
	if err != nil {
		return err
	}

	runnerOpts := []runner.Option{
		runner.WithInputHandler(handler),
		runner.WithLogger(logger),
		runner.WithSignals(opts.Signals),
	}
	if interactive {
		tui.PrintBanner(out)
		runnerOpts = append(runnerOpts, runner.WithBanner("Type help for commands."))
	}

	return runner.NewRunner(runnerOpts...).Run(ctx, stack.Coordinator)
}

// createHandler picks NDJSON, glamour-rendered markdown on a terminal, or
// plain text. interactive reports whether a person is likely watching.
func createHandler(opts RunOptions, in io.Reader, out io.Writer) (runner.IOHandler, bool, error) {
	if opts.JSON {
		return runner.NewJSONHandler(in, out), false, nil
	}

	if opts.Plain || !tui.IsTerminal(out) {
		return runner.NewTextHandler(in, out), false, nil
	}

	render, err := tui.NewRenderer(tui.WithWordWrap(tui.Width(out, 80)))
	if err != nil {
		return nil, false, err
	}
	return runner.NewTextHandler(in, out, runner.WithTextHandlerRenderer(render)), true, nil
}
