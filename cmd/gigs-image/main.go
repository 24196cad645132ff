package main

import (
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/dbell559/gigsinbrighton/pkg/config"
	"github.com/dbell559/gigsinbrighton/pkg/render"
	"github.com/dbell559/gigsinbrighton/pkg/snapshot"
)

var cli struct {
	Config string `help:"Path to JSON config file." default:"config.json"`
	Out    string `help:"Output PNG path." default:"todays_gigs_table.png"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("gigs-image"),
		kong.Description("Render today's gigs from the snapshot as a table image."),
	)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()

	cfg, err := config.Load(cli.Config)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	gigs, err := snapshot.NewStore(cfg.Snapshot.Path).Read()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to read snapshot")
	}

	img, err := render.NewTableRenderer().Render(gigs, time.Now())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to render gigs table")
	}

	out, err := os.Create(cli.Out)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create output file")
	}
	defer out.Close()

	if err := render.WritePNG(out, img); err != nil {
		logger.Fatal().Err(err).Msg("failed to encode image")
	}

	logger.Info().Str("path", cli.Out).Msg("image saved")
}
