package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"github.com/wb-go/wbf/zlog"

	"github.com/yourwellnessgirly/site-tools/internal/config"
	"github.com/yourwellnessgirly/site-tools/internal/processor"
	"github.com/yourwellnessgirly/site-tools/internal/service/converter"
	"github.com/yourwellnessgirly/site-tools/internal/storage/file"
)

func main() {
	// Context & signals: a batch stops between files on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	zlog.Logger = zlog.Logger.With().Str("run_id", uuid.NewString()).Logger()

	app := &cli.Command{
		Name:      "convert-webp",
		Usage:     "convert recipe photos to WebP next to their sources",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: config.DefaultPath, Usage: "config file path"},
			&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Usage: "WebP quality (overrides config)"},
		},
		Action: run,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		zlog.Logger.Error().Err(err).Msg("conversion failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	if cmd.IsSet("quality") {
		cfg.Converter.Quality = int(cmd.Int("quality"))
	}
	dir := cfg.Converter.Dir
	if cmd.NArg() > 0 {
		dir = cmd.Args().First()
	}

	zlog.Logger.Info().
		Str("dir", dir).
		Int("quality", cfg.Converter.Quality).
		Strs("extensions", cfg.Converter.Extensions).
		Msg("converting images")

	conv := converter.New(file.NewOSStorage(""), processor.NewWebPEncoder(cfg.Converter.Quality), cfg.Converter.Extensions)

	report, err := conv.Run(ctx, dir)
	if err != nil {
		return err
	}

	zlog.Logger.Info().
		Int("converted", len(report.Converted)).
		Int("skipped", len(report.Skipped)).
		Int("failed", len(report.Failed)).
		Int64("source_kb", report.SourceBytes()/1024).
		Int64("output_kb", report.OutputBytes()/1024).
		Float64("savings_pct", report.Savings()).
		Msg("conversion complete")

	return nil
}
