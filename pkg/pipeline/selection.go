package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dbell559/gigsinbrighton/pkg/domain"
)

type datedGig struct {
	raw  domain.RawGig
	date time.Time
}

// Run applies the full selection policy over the raw listings: drop
// records without a legible date, sort chronologically, drop past dates,
// then enrich one gig at a time while the weekday and count caps allow.
// The loop is deliberately sequential; whether a later gig is processed
// at all depends on the weekdays accumulated before it.
//
// A failed service authentication aborts the run before any enrichment,
// leaving the previous snapshot in place.
func (e *Enricher) Run(ctx context.Context, raws []domain.RawGig) ([]domain.Gig, error) {
	now := e.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	dated := make([]datedGig, 0, len(raws))
	for _, raw := range raws {
		date, err := domain.ParseListingDate(raw.DateText, now)
		if err != nil {
			e.logger.Warn().Str("date", raw.DateText).Str("title", raw.Title).Msg("dropping gig with unparseable date")
			continue
		}
		dated = append(dated, datedGig{raw: raw, date: date})
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].date.Before(dated[j].date)
	})

	if err := e.catalog.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("service authentication failed: %w", err)
	}

	gigs := []domain.Gig{}
	seenWeekdays := make(map[string]struct{})

	for _, dg := range dated {
		if dg.date.Before(today) {
			e.logger.Debug().Str("date", dg.raw.DateText).Msg("skipping past gig")
			continue
		}

		gig := e.enrich(ctx, dg.raw, dg.date)

		if _, seen := seenWeekdays[gig.Weekday]; !seen {
			if len(seenWeekdays) >= e.config.MaxWeekdays {
				// This gig would put an extra distinct weekday in the
				// output; end the run without it.
				break
			}
			seenWeekdays[gig.Weekday] = struct{}{}
		}

		gigs = append(gigs, gig)
		if len(gigs) >= e.config.MaxGigs {
			break
		}
	}

	e.logger.Info().Int("gigs", len(gigs)).Int("weekdays", len(seenWeekdays)).Msg("finished processing gigs")
	return gigs, nil
}
