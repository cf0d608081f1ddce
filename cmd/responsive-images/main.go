package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/yourwellnessgirly/site-tools/internal/config"
	"github.com/yourwellnessgirly/site-tools/internal/markup"
	"github.com/yourwellnessgirly/site-tools/internal/processor"
	"github.com/yourwellnessgirly/site-tools/internal/profile"
	"github.com/yourwellnessgirly/site-tools/internal/service/responsive"
	"github.com/yourwellnessgirly/site-tools/internal/storage/file"
	"github.com/yourwellnessgirly/site-tools/internal/storage/object"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	zlog.Logger = zlog.Logger.With().Str("run_id", uuid.NewString()).Logger()

	app := &cli.Command{
		Name:      "responsive-images",
		Usage:     "generate JPEG and WebP size variants of a recipe photo",
		ArgsUsage: "<input> <recipe>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: config.DefaultPath, Usage: "config file path"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: profile.Hero, Usage: "size profile: hero, card, process or gallery"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output root (overrides config)"},
			&cli.StringFlag{Name: "alt", Usage: "alt text for the example markup"},
			&cli.IntFlag{Name: "width", Usage: "width attribute for the example markup"},
			&cli.IntFlag{Name: "height", Usage: "height attribute for the example markup"},
			&cli.StringFlag{Name: "loading", Usage: "loading attribute for the example markup"},
			&cli.StringFlag{Name: "fetchpriority", Usage: "fetchpriority attribute for the example markup"},
			&cli.BoolFlag{Name: "publish", Usage: "upload variants to the configured bucket"},
		},
		Action: run,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to generate responsive images")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 2 {
		return fmt.Errorf("expected <input> <recipe>, got %d arguments", cmd.NArg())
	}
	input, recipe := cmd.Args().Get(0), cmd.Args().Get(1)

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.IsSet("out") {
		cfg.Responsive.OutputRoot = cmd.String("out")
	}
	if cmd.IsSet("publish") {
		cfg.Publish.Enabled = cmd.Bool("publish")
	}

	outputs := file.NewOSStorage(cfg.Responsive.OutputRoot)
	p := processor.New(outputs,
		processor.NewJPEGEncoder(cfg.Responsive.JPEGQuality),
		processor.NewWebPEncoder(cfg.Responsive.WebPQuality),
	)
	service := responsive.NewService(file.NewOSStorage(""), outputs, p)

	if cfg.Publish.Enabled {
		strategy := retry.Strategy{
			Attempts: cfg.Retry.Attempts,
			Delay:    cfg.Retry.Delay,
			Backoff:  cfg.Retry.Backoff,
		}

		remote, err := object.NewStorage(ctx, cfg.Publish.Endpoint, cfg.Publish.AccessKey, cfg.Publish.SecretKey,
			cfg.Publish.Bucket, cfg.Publish.UseSSL, cfg.Publish.Prefix, strategy)
		if err != nil {
			return fmt.Errorf("connect to storage: %w", err)
		}
		service.WithPublisher(remote)
	}

	res, err := service.Generate(ctx, responsive.Request{
		Input:   input,
		Recipe:  recipe,
		Profile: cmd.String("type"),
	})
	if err != nil {
		return err
	}

	zlog.Logger.Info().
		Str("profile", res.Profile.Name).
		Int("variants", len(res.Variants)).
		Int("published", len(res.Remote)).
		Msg("responsive images generated")

	html, err := markup.Render(examplePicture(cmd, cfg.Responsive.URLPrefix, res))
	if err != nil {
		return err
	}

	fmt.Println("\nExample HTML:")
	fmt.Println(html)

	return nil
}

// examplePicture fills the markup attributes, hero images defaulting to an
// eagerly loaded, high priority portrait.
func examplePicture(cmd *cli.Command, urlPrefix string, res responsive.Result) markup.Picture {
	recipe := res.Recipe

	pic := markup.Picture{
		URLPrefix: urlPrefix,
		Recipe:    recipe,
		BaseName:  res.BaseName,
		Profile:   res.Profile,
		Alt:       "Descriptive alt text for " + recipe,
		Width:     600,
		Height:    450,
		Loading:   "lazy",
	}
	if res.Profile.Name == profile.Hero {
		pic.Width, pic.Height = 1600, 2000
		pic.Loading = "eager"
		pic.FetchPriority = "high"
	}

	if cmd.IsSet("alt") {
		pic.Alt = cmd.String("alt")
	}
	if cmd.IsSet("width") {
		pic.Width = int(cmd.Int("width"))
	}
	if cmd.IsSet("height") {
		pic.Height = int(cmd.Int("height"))
	}
	if cmd.IsSet("loading") {
		pic.Loading = cmd.String("loading")
	}
	if cmd.IsSet("fetchpriority") {
		pic.FetchPriority = cmd.String("fetchpriority")
	}

	return pic
}
