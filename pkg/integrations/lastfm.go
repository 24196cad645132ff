package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/dbell559/gigsinbrighton/pkg/domain"
)

type LastFMClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type LastFMConfig struct {
	APIKey  string
	Timeout time.Duration
}

func NewLastFMClient(config LastFMConfig) (*LastFMClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("last.fm API key is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}

	return &LastFMClient{
		baseURL: "http://ws.audioscrobbler.com/2.0",
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

var socialDomains = map[domain.SocialKind]string{
	domain.SocialInstagram: "instagram.com",
	domain.SocialYouTube:   "youtube.com",
}

// Links to the provider's own official accounts, which its artist pages
// carry in the footer. A match here means the artist has no link.
var bannedPrefixes = map[domain.SocialKind][]string{
	domain.SocialInstagram: {
		"https://www.instagram.com/last_fm",
	},
	domain.SocialYouTube: {
		"https://www.youtube.com/@lastfm",
		"https://www.youtube.com/user/lastfm",
	},
}

type lastFMArtistInfoResponse struct {
	Artist struct {
		Name string `json:"name"`
		URL  string `json:"url"`
		Tags struct {
			Tag []struct {
				Name string `json:"name"`
			} `json:"tag"`
		} `json:"tags"`
	} `json:"artist"`
}

// ArtistTags returns the artist's tags comma-joined in provider order,
// or "" when the artist has none.
func (c *LastFMClient) ArtistTags(ctx context.Context, artistName string) (string, error) {
	info, err := c.artistInfo(ctx, artistName)
	if err != nil {
		return "", err
	}

	tags := make([]string, 0, len(info.Artist.Tags.Tag))
	for _, tag := range info.Artist.Tags.Tag {
		if tag.Name != "" {
			tags = append(tags, tag.Name)
		}
	}
	return strings.Join(tags, ", "), nil
}

// SocialLink resolves an outbound platform link by scraping the artist's
// profile page for the first anchor pointing at the platform's domain.
// Links to the provider's own official account count as absent.
func (c *LastFMClient) SocialLink(ctx context.Context, artistName string, kind domain.SocialKind) (string, error) {
	platformDomain, ok := socialDomains[kind]
	if !ok {
		return "", fmt.Errorf("unsupported social kind %q", kind)
	}

	info, err := c.artistInfo(ctx, artistName)
	if err != nil {
		return "", err
	}
	if info.Artist.URL == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", info.Artist.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create artist page request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch artist page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("artist page fetch failed: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse artist page: %w", err)
	}

	link := findLink(doc, platformDomain)
	if link == "" || isBanned(link, kind) {
		return "", nil
	}
	return link, nil
}

func (c *LastFMClient) artistInfo(ctx context.Context, artistName string) (*lastFMArtistInfoResponse, error) {
	infoURL := fmt.Sprintf("%s/?method=artist.getinfo&artist=%s&api_key=%s&format=json",
		c.baseURL,
		url.QueryEscape(artistName),
		c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, "GET", infoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create artist info request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get artist info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("last.fm get artist failed: status %d", resp.StatusCode)
	}

	var infoResp lastFMArtistInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&infoResp); err != nil {
		return nil, fmt.Errorf("failed to decode artist info response: %w", err)
	}

	return &infoResp, nil
}

// findLink returns the href of the first anchor whose href contains the
// given domain.
func findLink(doc *html.Node, platformDomain string) string {
	var link string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if link != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && strings.Contains(strings.ToLower(attr.Val), platformDomain) {
					link = attr.Val
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return link
}

func isBanned(link string, kind domain.SocialKind) bool {
	lower := strings.ToLower(link)
	for _, prefix := range bannedPrefixes[kind] {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
