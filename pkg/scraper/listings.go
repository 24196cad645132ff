package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/dbell559/gigsinbrighton/pkg/domain"
)

// Config controls the listings page fetch.
type Config struct {
	ListingsURL string
	UserAgent   string
	Timeout     time.Duration
}

// ListingsScraper retrieves the gigs page and parses its first table
// into raw listing records.
type ListingsScraper struct {
	config     Config
	httpClient *http.Client
}

func NewListingsScraper(config Config) (*ListingsScraper, error) {
	if config.ListingsURL == "" {
		return nil, fmt.Errorf("listings URL is required")
	}
	if config.UserAgent == "" {
		config.UserAgent = "GigsInBrighton-Bot/1.0"
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}

	return &ListingsScraper{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// FetchGigs performs a single bounded-timeout GET of the listings page.
// A transport failure or non-success status is fatal to the run. A page
// without a table yields an empty slice and domain.ErrNoListingsTable,
// which callers treat as a warning.
func (s *ListingsScraper) FetchGigs(ctx context.Context) ([]domain.RawGig, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.config.ListingsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create listings request: %w", err)
	}

	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("listings fetch failed: status %d", resp.StatusCode)
	}

	return ParseListings(resp.Body, s.config.ListingsURL)
}

// ParseListings extracts raw gigs from the first table in the document.
// Each row with at least 4 data cells yields one record: date, title and
// location as trimmed text from cells 0-2, and an optional details link
// from the first anchor in cell 3. Rows with fewer cells (including
// th-only header rows) are skipped.
func ParseListings(r io.Reader, pageURL string) ([]domain.RawGig, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listings HTML: %w", err)
	}

	table := findFirst(doc, "table")
	if table == nil {
		return []domain.RawGig{}, domain.ErrNoListingsTable
	}

	gigs := []domain.RawGig{}
	for _, row := range findAll(table, "tr") {
		cells := findAll(row, "td")
		if len(cells) < 4 {
			continue
		}

		gigs = append(gigs, domain.RawGig{
			DateText:   nodeText(cells[0]),
			Title:      nodeText(cells[1]),
			Location:   nodeText(cells[2]),
			DetailsURL: anchorHref(cells[3], pageURL),
		})
	}

	return gigs, nil
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			nodes = append(nodes, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return nodes
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// anchorHref returns the href of the first anchor under the cell,
// resolved against the page URL, or "" when the cell has no link.
func anchorHref(cell *html.Node, pageURL string) string {
	anchor := findFirst(cell, "a")
	if anchor == nil {
		return ""
	}

	var href string
	for _, attr := range anchor.Attr {
		if attr.Key == "href" {
			href = attr.Val
			break
		}
	}
	if href == "" {
		return ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	rel, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(rel).String()
}
