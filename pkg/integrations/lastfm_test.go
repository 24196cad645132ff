package integrations

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dbell559/gigsinbrighton/pkg/domain"
)

func TestNewLastFMClient(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		client, err := NewLastFMClient(LastFMConfig{APIKey: "test-api-key"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client.apiKey != "test-api-key" {
			t.Errorf("expected test-api-key, got %s", client.apiKey)
		}
	})

	t.Run("missing API key", func(t *testing.T) {
		if _, err := NewLastFMClient(LastFMConfig{}); err == nil {
			t.Error("expected error for missing API key")
		}
	})
}

// lastFMTestServer serves the artist.getinfo endpoint and an artist
// profile page whose body is given by pageHTML.
func lastFMTestServer(t *testing.T, tags []string, pageHTML string) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/music/test-artist" {
			w.Write([]byte(pageHTML))
			return
		}
		if r.URL.Query().Get("method") != "artist.getinfo" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		tagJSON := make([]string, 0, len(tags))
		for _, tag := range tags {
			tagJSON = append(tagJSON, fmt.Sprintf(`{"name":%q}`, tag))
		}
		body := fmt.Sprintf(`{"artist":{"name":"Test Artist","url":"%s/music/test-artist","tags":{"tag":[%s]}}}`,
			server.URL, strings.Join(tagJSON, ","))
		w.Write([]byte(body))
	}))
	return server
}

func newTestLastFMClient(serverURL string) *LastFMClient {
	return &LastFMClient{
		baseURL:    serverURL,
		apiKey:     "test-api-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestLastFMClient_ArtistTags(t *testing.T) {
	t.Run("tags joined in provider order", func(t *testing.T) {
		server := lastFMTestServer(t, []string{"shoegaze", "dream pop"}, "")
		defer server.Close()

		client := newTestLastFMClient(server.URL)
		tags, err := client.ArtistTags(context.Background(), "Test Artist")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tags != "shoegaze, dream pop" {
			t.Errorf("expected joined tags, got %q", tags)
		}
	})

	t.Run("no tags", func(t *testing.T) {
		server := lastFMTestServer(t, nil, "")
		defer server.Close()

		client := newTestLastFMClient(server.URL)
		tags, err := client.ArtistTags(context.Background(), "Test Artist")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tags != "" {
			t.Errorf("expected empty tags, got %q", tags)
		}
	})
}

func TestLastFMClient_SocialLink(t *testing.T) {
	t.Run("instagram link found", func(t *testing.T) {
		page := `<html><body>
			<a href="https://twitter.com/band">twitter</a>
			<a href="https://www.instagram.com/the_band/">instagram</a>
		</body></html>`
		server := lastFMTestServer(t, nil, page)
		defer server.Close()

		client := newTestLastFMClient(server.URL)
		link, err := client.SocialLink(context.Background(), "Test Artist", domain.SocialInstagram)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if link != "https://www.instagram.com/the_band/" {
			t.Errorf("unexpected link %q", link)
		}
	})

	t.Run("banned instagram account treated as absent", func(t *testing.T) {
		page := `<html><body><a href="https://www.instagram.com/last_fm">follow us</a></body></html>`
		server := lastFMTestServer(t, nil, page)
		defer server.Close()

		client := newTestLastFMClient(server.URL)
		link, err := client.SocialLink(context.Background(), "Test Artist", domain.SocialInstagram)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if link != "" {
			t.Errorf("expected banned link to be discarded, got %q", link)
		}
	})

	t.Run("banned prefix check is case-insensitive", func(t *testing.T) {
		page := `<html><body><a href="https://www.YouTube.com/@LastFM">subscribe</a></body></html>`
		server := lastFMTestServer(t, nil, page)
		defer server.Close()

		client := newTestLastFMClient(server.URL)
		link, err := client.SocialLink(context.Background(), "Test Artist", domain.SocialYouTube)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if link != "" {
			t.Errorf("expected banned link to be discarded, got %q", link)
		}
	})

	t.Run("youtube fallback target present", func(t *testing.T) {
		page := `<html><body><a href="https://www.youtube.com/@theband">videos</a></body></html>`
		server := lastFMTestServer(t, nil, page)
		defer server.Close()

		client := newTestLastFMClient(server.URL)
		link, err := client.SocialLink(context.Background(), "Test Artist", domain.SocialYouTube)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if link != "https://www.youtube.com/@theband" {
			t.Errorf("unexpected link %q", link)
		}
	})

	t.Run("no platform link on page", func(t *testing.T) {
		page := `<html><body><a href="https://bandcamp.com/theband">bandcamp</a></body></html>`
		server := lastFMTestServer(t, nil, page)
		defer server.Close()

		client := newTestLastFMClient(server.URL)
		link, err := client.SocialLink(context.Background(), "Test Artist", domain.SocialInstagram)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if link != "" {
			t.Errorf("expected no link, got %q", link)
		}
	})
}
