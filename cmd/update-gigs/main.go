package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/dbell559/gigsinbrighton/pkg/config"
	"github.com/dbell559/gigsinbrighton/pkg/domain"
	"github.com/dbell559/gigsinbrighton/pkg/integrations"
	"github.com/dbell559/gigsinbrighton/pkg/pipeline"
	"github.com/dbell559/gigsinbrighton/pkg/scraper"
	"github.com/dbell559/gigsinbrighton/pkg/snapshot"
)

var cli struct {
	Config   string `help:"Path to JSON config file." default:"config.json"`
	Snapshot string `help:"Override the snapshot output path."`
	Debug    bool   `help:"Enable debug logging."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("update-gigs"),
		kong.Description("Fetch, enrich and publish the upcoming gigs snapshot."),
	)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
	if cli.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cli.Snapshot != "" {
		cfg.Snapshot.Path = cli.Snapshot
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	listings, err := scraper.NewListingsScraper(scraper.Config{
		ListingsURL: cfg.Scraper.ListingsURL,
		UserAgent:   cfg.Scraper.UserAgent,
		Timeout:     time.Duration(cfg.Scraper.Timeout) * time.Second,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create listings scraper")
	}

	spotify, err := integrations.NewSpotifyClient(integrations.SpotifyConfig{
		ClientID:     cfg.APIs.Spotify.ClientID,
		ClientSecret: cfg.APIs.Spotify.ClientSecret,
		Market:       cfg.APIs.Spotify.Market,
		Timeout:      time.Duration(cfg.Scraper.Timeout) * time.Second,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create spotify client")
	}

	lastfm, err := integrations.NewLastFMClient(integrations.LastFMConfig{
		APIKey:  cfg.APIs.LastFM.APIKey,
		Timeout: time.Duration(cfg.Scraper.Timeout) * time.Second,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create last.fm client")
	}

	enricher := pipeline.NewEnricher(spotify, lastfm, pipeline.Config{
		MaxGigs:     cfg.Pipeline.MaxGigs,
		MaxWeekdays: cfg.Pipeline.MaxWeekdays,
		CacheTTL:    time.Duration(cfg.Pipeline.CacheTTLMinutes) * time.Minute,
	}, logger)

	ctx := context.Background()

	logger.Info().Str("url", cfg.Scraper.ListingsURL).Msg("fetching gigs")
	raws, err := listings.FetchGigs(ctx)
	if errors.Is(err, domain.ErrNoListingsTable) {
		logger.Warn().Msg("no listings table found, publishing empty snapshot")
	} else if err != nil {
		logger.Fatal().Err(err).Msg("failed to fetch listings page")
	}

	gigs, err := enricher.Run(ctx, raws)
	if err != nil {
		// Leaves the previous snapshot in place.
		logger.Fatal().Err(err).Msg("enrichment run failed")
	}

	store := snapshot.NewStore(cfg.Snapshot.Path)
	if err := store.Write(gigs); err != nil {
		logger.Fatal().Err(err).Msg("failed to write snapshot")
	}

	logger.Info().Int("gigs", len(gigs)).Str("path", cfg.Snapshot.Path).Msg("snapshot updated")
}
