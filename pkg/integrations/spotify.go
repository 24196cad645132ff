package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dbell559/gigsinbrighton/pkg/domain"
)

type SpotifyClient struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	market       string
	httpClient   *http.Client
	accessToken  string
	tokenExpiry  time.Time
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	Market       string
	Timeout      time.Duration
}

func NewSpotifyClient(config SpotifyConfig) (*SpotifyClient, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret are required")
	}
	if config.Market == "" {
		config.Market = "US"
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}

	return &SpotifyClient{
		baseURL:      "https://api.spotify.com/v1",
		tokenURL:     "https://accounts.spotify.com/api/token",
		clientID:     config.ClientID,
		clientSecret: config.ClientSecret,
		market:       config.Market,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Authenticate exchanges client credentials for a bearer token. A cached
// token is reused until shortly before expiry. Auth failure is fatal to
// the whole enrichment batch, so unlike the lookup calls this error is
// never swallowed by callers.
func (c *SpotifyClient) Authenticate(ctx context.Context) error {
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}

	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to get access token: status %d", resp.StatusCode)
	}

	var tokenResp spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return fmt.Errorf("token response missing access_token")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second).Add(-5 * time.Minute)

	return nil
}

type spotifyArtist struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Genres       []string `json:"genres"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifySearchResponse struct {
	Artists struct {
		Items []spotifyArtist `json:"items"`
	} `json:"artists"`
}

// FindArtist resolves a band name to a catalog identity. The single
// search result is accepted only when it matches the queried name after
// normalization; anything looser is treated as not found. On acceptance
// a second request fetches the full artist detail for genre tags.
func (c *SpotifyClient) FindArtist(ctx context.Context, name string) (*domain.ArtistMatch, error) {
	if err := c.Authenticate(ctx); err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf("%s/search?q=%s&type=artist&limit=1", c.baseURL, url.QueryEscape(name))

	var searchResp spotifySearchResponse
	if err := c.get(ctx, searchURL, &searchResp); err != nil {
		return nil, fmt.Errorf("spotify search failed: %w", err)
	}

	items := searchResp.Artists.Items
	if len(items) == 0 {
		return nil, domain.ErrArtistNotFound
	}
	if domain.NormalizeArtistName(items[0].Name) != domain.NormalizeArtistName(name) {
		return nil, domain.ErrArtistNotFound
	}

	detailURL := fmt.Sprintf("%s/artists/%s", c.baseURL, items[0].ID)

	var detail spotifyArtist
	if err := c.get(ctx, detailURL, &detail); err != nil {
		return nil, fmt.Errorf("spotify artist detail failed: %w", err)
	}

	return &domain.ArtistMatch{
		ID:         items[0].ID,
		Name:       items[0].Name,
		ProfileURL: items[0].ExternalURLs.Spotify,
		Genres:     detail.Genres,
	}, nil
}

type spotifyTopTracksResponse struct {
	Tracks []struct {
		Name         string `json:"name"`
		ExternalURLs struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
	} `json:"tracks"`
}

// TopTrack returns the artist's first ranked track for the configured
// market. The track ID is the permalink path segment between "/track/"
// and the query string.
func (c *SpotifyClient) TopTrack(ctx context.Context, artistID string) (*domain.Track, error) {
	if err := c.Authenticate(ctx); err != nil {
		return nil, err
	}

	tracksURL := fmt.Sprintf("%s/artists/%s/top-tracks?market=%s", c.baseURL, artistID, url.QueryEscape(c.market))

	var tracksResp spotifyTopTracksResponse
	if err := c.get(ctx, tracksURL, &tracksResp); err != nil {
		return nil, fmt.Errorf("spotify top tracks failed: %w", err)
	}

	if len(tracksResp.Tracks) == 0 {
		return nil, domain.ErrTrackNotFound
	}

	top := tracksResp.Tracks[0]
	return &domain.Track{
		Name: top.Name,
		URL:  top.ExternalURLs.Spotify,
		ID:   trackIDFromURL(top.ExternalURLs.Spotify),
	}, nil
}

func (c *SpotifyClient) get(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func trackIDFromURL(permalink string) string {
	_, after, found := strings.Cut(permalink, "/track/")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "?")
	return id
}
