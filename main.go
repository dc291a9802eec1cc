package main

import (
	"fmt"
	"log/slog"
	"os"

	"pixview/compare"
	"pixview/convert"
	"pixview/inspect"
	"pixview/parallel"

	"github.com/alecthomas/kong"
)

type CLI struct {
	LogLevel  string `help:"Minimum level of logged messages" enum:"debug,info,warn,error" default:"info"`
	LogFormat string `help:"Log output format" enum:"text,json" default:"text"`
	Workers   int    `help:"Number of files processed in parallel, 0 uses all CPUs" default:"0"`

	Inspect inspect.CLICmd `cmd:"" help:"Report the pixel layout of images, optionally dumping them as .dynv files"`
	Convert convert.CLICmd `cmd:"" help:"Convert, realign and resize the images of a folder"`
	Compare compare.CLICmd `cmd:"" help:"Compare the raw pixel content of two images or folders"`
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pixview"),
		kong.Description("Inspect, convert and compare images through strided pixel views."),
		kong.UsageOnError(),
	)

	logger, err := newLogger(cli.LogLevel, cli.LogFormat)
	kctx.FatalIfErrorf(err)
	slog.SetDefault(logger)

	slog.Debug("running", "command", kctx.Command(), "workers", cli.Workers)
	err = kctx.Run(parallel.Start(cli.Workers))
	kctx.FatalIfErrorf(err)
}
