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
	"github.com/yourwellnessgirly/site-tools/internal/model"
	"github.com/yourwellnessgirly/site-tools/internal/sitemap"
	"github.com/yourwellnessgirly/site-tools/internal/storage/file"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	zlog.Logger = zlog.Logger.With().Str("run_id", uuid.NewString()).Logger()

	app := &cli.Command{
		Name:  "generate-sitemap",
		Usage: "write sitemap.xml from the static pages and the recipes document",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: config.DefaultPath, Usage: "config file path"},
			&cli.StringFlag{Name: "recipes", Aliases: []string{"r"}, Usage: "recipes JSON path (overrides config)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "sitemap output path (overrides config)"},
			&cli.StringFlag{Name: "base-url", Usage: "site base URL (overrides config)"},
		},
		Action: run,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		zlog.Logger.Error().Err(err).Msg("sitemap generation failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	if cmd.IsSet("recipes") {
		cfg.Sitemap.RecipesPath = cmd.String("recipes")
	}
	if cmd.IsSet("out") {
		cfg.Sitemap.OutputPath = cmd.String("out")
	}
	if cmd.IsSet("base-url") {
		cfg.Sitemap.BaseURL = cmd.String("base-url")
	}

	static, err := sitemap.StaticEntries(cfg.Sitemap.StaticPages)
	if err != nil {
		return err
	}
	freq, err := model.ParseChangeFreq(cfg.Sitemap.RecipeChangeFreq)
	if err != nil {
		return err
	}

	builder := sitemap.NewBuilder(sitemap.Options{
		BaseURL:          cfg.Sitemap.BaseURL,
		StaticPages:      static,
		RecipeChangeFreq: freq,
		RecipePriority:   cfg.Sitemap.RecipePriority,
	})
	gen := sitemap.NewGenerator(file.NewOSStorage(""), builder)

	summary, err := gen.Run(ctx, cfg.Sitemap.RecipesPath, cfg.Sitemap.OutputPath)
	if err != nil {
		return err
	}

	zlog.Logger.Info().
		Str("output", summary.Output).
		Int("recipes", len(summary.RecipePaths)).
		Int("static", summary.StaticCount).
		Msg("sitemap generated")
	for _, p := range summary.RecipePaths {
		zlog.Logger.Info().Str("path", p).Msg("recipe")
	}

	return nil
}
