// Command yoinker fetches scripture passages from BibleGateway or a
// language model.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pevans/yoinker"
	"github.com/pevans/yoinker/config"
	"github.com/pevans/yoinker/diagnostics"
	"github.com/pevans/yoinker/logging"
	"github.com/pevans/yoinker/passage"
)

const version = "1.0.0"

// CLI defines the command-line interface for yoinker.
var CLI struct {
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`

	Fetch   FetchCmd   `cmd:"" help:"Fetch one passage"`
	Batch   BatchCmd   `cmd:"" help:"Fetch every passage listed in a file"`
	Serve   ServeCmd   `cmd:"" help:"Start the HTTP API server"`
	History HistoryCmd `cmd:"" help:"List recent lookups"`
	VOTD    VOTDCmd    `cmd:"" name:"votd" help:"Print the verse of the day"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// passageSource is the part of the service the fetch commands use.
type passageSource interface {
	Yoink(ctx context.Context, method yoinker.Method, ref passage.Reference, sel passage.Selector) (string, error)
}

// session is bound into every command's Run method.
type session struct {
	ctx     context.Context
	app     *yoinker.App
	source  passageSource
	stdout  io.Writer
	stderr  io.Writer
	dumpDir string
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("yoinker"),
		kong.Description("Fetch scripture passages from BibleGateway or a language model"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	ctx.FatalIfErrorf(err)

	if CLI.LogLevel != "" {
		cfg.LogLevel = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		cfg.LogFormat = CLI.LogFormat
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	rt := &session{
		ctx:     context.Background(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		dumpDir: cfg.DumpDir,
	}

	// Version needs nothing wired
	if ctx.Command() != "version" {
		app, err := yoinker.NewApp(rt.ctx, cfg)
		ctx.FatalIfErrorf(err)

		rt.app = app
		rt.source = app.Service
	}

	err = ctx.Run(rt)
	if rt.app != nil {
		err = closeAfter(err, rt.app)
	}
	ctx.FatalIfErrorf(err)
}

// closeAfter closes c once a command has run, keeping both the command's
// error and the close error.
func closeAfter(runErr error, c io.Closer) error {
	if err := c.Close(); err != nil {
		return errors.Join(runErr, fmt.Errorf("failed to close: %w", err))
	}
	return runErr
}

// explain adds what the user can do about err, and dumps the page markup
// when the passage container was missing.
func (rt *session) explain(err error, ref passage.Reference) error {
	var notFound *passage.ContentNotFoundError
	if errors.As(err, &notFound) && notFound.Markup != "" {
		path, dumpErr := diagnostics.Dump(rt.dumpDir, ref, notFound.Markup)
		if dumpErr != nil {
			logging.Warn("failed to write diagnostic dump", "error", dumpErr)
			return err
		}
		return fmt.Errorf("%w (page markup saved to %s)", err, path)
	}

	if errors.Is(err, yoinker.ErrLLMNotConfigured) && rt.app != nil && rt.app.LLMErr != nil {
		return fmt.Errorf("%w: %w", err, rt.app.LLMErr)
	}

	return err
}

// VersionCmd prints version information.
type VersionCmd struct{}

// Run prints the yoinker version.
func (c *VersionCmd) Run(rt *session) error {
	fmt.Fprintf(rt.stdout, "yoinker version %s\n", version)
	return nil
}
