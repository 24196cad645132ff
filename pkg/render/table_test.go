package render

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/dbell559/gigsinbrighton/pkg/domain"
)

// Wednesday 11 June 2025.
var testNow = time.Date(2025, time.June, 11, 15, 0, 0, 0, time.UTC)

func TestSelectDay(t *testing.T) {
	t.Run("today preferred when present", func(t *testing.T) {
		gigs := []domain.Gig{
			{DisplayDate: "Wed, 11 June 2025", Title: "Tonight"},
			{DisplayDate: "Fri, 13 June 2025", Title: "Later"},
		}

		day, rows, err := SelectDay(gigs, testNow)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if day.Day() != 11 {
			t.Errorf("expected today selected, got %v", day)
		}
		if len(rows) != 1 || rows[0].Title != "Tonight" {
			t.Errorf("unexpected rows %+v", rows)
		}
	})

	t.Run("nearest future day otherwise", func(t *testing.T) {
		gigs := []domain.Gig{
			{DisplayDate: "Sat, 14 June 2025", Title: "Far"},
			{DisplayDate: "Fri, 13 June 2025", Title: "Near"},
		}

		day, rows, err := SelectDay(gigs, testNow)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if day.Day() != 13 {
			t.Errorf("expected nearest future day, got %v", day)
		}
		if len(rows) != 1 || rows[0].Title != "Near" {
			t.Errorf("unexpected rows %+v", rows)
		}
	})

	t.Run("groups multiple gigs on one day", func(t *testing.T) {
		gigs := []domain.Gig{
			{DisplayDate: "Fri, 13 June 2025", Title: "First"},
			{DisplayDate: "Fri, 13 June 2025", Title: "Second"},
		}

		_, rows, err := SelectDay(gigs, testNow)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 {
			t.Errorf("expected both gigs grouped, got %d", len(rows))
		}
	})

	t.Run("only past days", func(t *testing.T) {
		gigs := []domain.Gig{{DisplayDate: "Tue, 10 June 2025", Title: "Gone"}}

		_, _, err := SelectDay(gigs, testNow)
		if !errors.Is(err, domain.ErrNoUpcomingGigs) {
			t.Errorf("expected ErrNoUpcomingGigs, got %v", err)
		}
	})

	t.Run("empty snapshot", func(t *testing.T) {
		_, _, err := SelectDay(nil, testNow)
		if !errors.Is(err, domain.ErrNoUpcomingGigs) {
			t.Errorf("expected ErrNoUpcomingGigs, got %v", err)
		}
	})
}

func TestRender(t *testing.T) {
	t.Run("produces a PNG for the selected day", func(t *testing.T) {
		gigs := []domain.Gig{
			{
				DisplayDate: "Fri, Friday 13th June",
				Title:       "A Band With A Fairly Long Billing That Wraps",
				Location:    "Concorde 2",
				Genre:       "shoegaze, dream pop",
			},
			{
				DisplayDate: "Fri, Friday 13th June",
				Title:       "Unknown Obscure Band",
				Location:    "Prince Albert",
			},
		}

		img, err := NewTableRenderer().Render(gigs, testNow)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		bounds := img.Bounds()
		if bounds.Dx() != imgWidth {
			t.Errorf("expected width %d, got %d", imgWidth, bounds.Dx())
		}
		if bounds.Dy() <= 2*margin {
			t.Errorf("expected non-trivial height, got %d", bounds.Dy())
		}

		var buf bytes.Buffer
		if err := WritePNG(&buf, img); err != nil {
			t.Fatalf("expected no error encoding, got %v", err)
		}
		if buf.Len() == 0 {
			t.Error("expected PNG bytes")
		}
	})

	t.Run("fails without current or future gigs", func(t *testing.T) {
		gigs := []domain.Gig{{DisplayDate: "Tue, 10 June 2025", Title: "Gone"}}
		if _, err := NewTableRenderer().Render(gigs, testNow); !errors.Is(err, domain.ErrNoUpcomingGigs) {
			t.Errorf("expected ErrNoUpcomingGigs, got %v", err)
		}
	})
}

func TestWrap(t *testing.T) {
	r := NewTableRenderer()

	t.Run("short text stays on one line", func(t *testing.T) {
		lines := r.wrap("Chalk", 200)
		if len(lines) != 1 || lines[0] != "Chalk" {
			t.Errorf("unexpected lines %v", lines)
		}
	})

	t.Run("long text wraps", func(t *testing.T) {
		lines := r.wrap("a very long venue name that cannot possibly fit", 80)
		if len(lines) < 2 {
			t.Errorf("expected wrapping, got %v", lines)
		}
	})

	t.Run("empty text yields one empty line", func(t *testing.T) {
		lines := r.wrap("", 80)
		if len(lines) != 1 || lines[0] != "" {
			t.Errorf("unexpected lines %v", lines)
		}
	})
}
