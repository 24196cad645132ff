package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `json:"server"`
	APIs     APIConfig      `json:"apis"`
	Scraper  ScraperConfig  `json:"scraper"`
	Pipeline PipelineConfig `json:"pipeline"`
	Snapshot SnapshotConfig `json:"snapshot"`
}

// ServerConfig for the web view HTTP server
type ServerConfig struct {
	Port         string `json:"port"`
	ReadTimeout  int    `json:"read_timeout_seconds"`
	WriteTimeout int    `json:"write_timeout_seconds"`
}

// APIConfig holds the external API credentials
type APIConfig struct {
	Spotify SpotifyConfig `json:"spotify"`
	LastFM  LastFMConfig  `json:"lastfm"`
}

// SpotifyConfig for the artist-catalog service
type SpotifyConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Market       string `json:"market"`
}

// LastFMConfig for the social-metadata service
type LastFMConfig struct {
	APIKey string `json:"api_key"`
}

// ScraperConfig for the listings page fetch
type ScraperConfig struct {
	ListingsURL string `json:"listings_url"`
	UserAgent   string `json:"user_agent"`
	Timeout     int    `json:"timeout_seconds"`
}

// PipelineConfig bounds the enrichment run
type PipelineConfig struct {
	MaxGigs         int `json:"max_gigs"`
	MaxWeekdays     int `json:"max_weekdays"`
	CacheTTLMinutes int `json:"cache_ttl_minutes"`
}

// SnapshotConfig locates the published snapshot
type SnapshotConfig struct {
	Path string `json:"path"`
}

// Load reads configuration from an optional .env file, an optional JSON
// config file, and environment variables. Environment variables override
// file values using the pattern GIGS_SECTION_KEY.
func Load(configPath string) (*Config, error) {
	// Best effort; a missing .env file is the normal case in production.
	_ = godotenv.Load()

	config := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyDefaults(config)
	applyEnvOverrides(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "5000"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30
	}
	if config.APIs.Spotify.Market == "" {
		config.APIs.Spotify.Market = "US"
	}
	if config.Scraper.ListingsURL == "" {
		config.Scraper.ListingsURL = "https://www.rivalcults.com/gigs"
	}
	if config.Scraper.UserAgent == "" {
		config.Scraper.UserAgent = "GigsInBrighton-Bot/1.0"
	}
	if config.Scraper.Timeout == 0 {
		config.Scraper.Timeout = 5
	}
	if config.Pipeline.MaxGigs == 0 {
		config.Pipeline.MaxGigs = 100
	}
	if config.Pipeline.MaxWeekdays == 0 {
		config.Pipeline.MaxWeekdays = 10
	}
	if config.Pipeline.CacheTTLMinutes == 0 {
		config.Pipeline.CacheTTLMinutes = 60
	}
	if config.Snapshot.Path == "" {
		config.Snapshot.Path = "cached_gigs.json"
	}
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("GIGS_SERVER_PORT"); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv("GIGS_SPOTIFY_CLIENT_ID"); v != "" {
		config.APIs.Spotify.ClientID = v
	}
	if v := os.Getenv("GIGS_SPOTIFY_CLIENT_SECRET"); v != "" {
		config.APIs.Spotify.ClientSecret = v
	}
	if v := os.Getenv("GIGS_SPOTIFY_MARKET"); v != "" {
		config.APIs.Spotify.Market = v
	}
	if v := os.Getenv("GIGS_LASTFM_API_KEY"); v != "" {
		config.APIs.LastFM.APIKey = v
	}
	if v := os.Getenv("GIGS_LISTINGS_URL"); v != "" {
		config.Scraper.ListingsURL = v
	}
	if v := os.Getenv("GIGS_SCRAPER_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Scraper.Timeout = n
		}
	}
	if v := os.Getenv("GIGS_SNAPSHOT_PATH"); v != "" {
		config.Snapshot.Path = v
	}
}

// Validate checks if required configurations are present
func (c *Config) Validate() error {
	var missing []string

	if c.Scraper.ListingsURL == "" {
		missing = append(missing, "scraper.listings_url")
	}
	if c.APIs.Spotify.ClientID == "" {
		missing = append(missing, "apis.spotify.client_id")
	}
	if c.APIs.Spotify.ClientSecret == "" {
		missing = append(missing, "apis.spotify.client_secret")
	}
	if c.APIs.LastFM.APIKey == "" {
		missing = append(missing, "apis.lastfm.api_key")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}
