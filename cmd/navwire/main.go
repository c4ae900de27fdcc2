package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

type CLI struct {
	LogLevel string `help:"Log level (debug, info, warn, error). Overrides log.level from the config." placeholder:"LEVEL"`

	Run     runCmd     `cmd:"" default:"1" help:"Decode the configured inputs and write records."`
	Detect  detectCmd  `cmd:"" help:"Count CRC-valid GDL90 frames in a capture under each CRC mode."`
	Summary summaryCmd `cmd:"" help:"Summarize a recorded chunk log."`
}

type globals struct {
	logLevel string
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("navwire"),
		kong.Description("GDL90 and NMEA/AIS stream decoder."),
		kong.UsageOnError(),
	)
	slog.SetDefault(newLogger(os.Stderr, slog.LevelInfo))
	if err := ctx.Run(&globals{logLevel: cli.LogLevel}); err != nil {
		slog.Error("navwire failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(f *os.File, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(f, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(f.Fd()),
	}))
}

// resolveLevel picks the CLI level over the configured one.
func resolveLevel(cli, configured string) (slog.Level, error) {
	s := configured
	if cli != "" {
		s = cli
	}
	if s == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
