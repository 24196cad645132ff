package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/dbell559/gigsinbrighton/pkg/domain"
)

// ArtistCatalog resolves artist identity, genres and a representative
// track. Implemented by integrations.SpotifyClient.
type ArtistCatalog interface {
	Authenticate(ctx context.Context) error
	FindArtist(ctx context.Context, name string) (*domain.ArtistMatch, error)
	TopTrack(ctx context.Context, artistID string) (*domain.Track, error)
}

// SocialMetadata resolves genre tags and outbound platform links.
// Implemented by integrations.LastFMClient.
type SocialMetadata interface {
	ArtistTags(ctx context.Context, name string) (string, error)
	SocialLink(ctx context.Context, name string, kind domain.SocialKind) (string, error)
}

type Config struct {
	MaxGigs     int
	MaxWeekdays int
	CacheTTL    time.Duration
}

// Enricher attaches artist metadata to raw listings and applies the
// selection policy. Lookup results are memoized per headliner, so a band
// appearing on several listings costs one round of service calls.
type Enricher struct {
	catalog ArtistCatalog
	social  SocialMetadata
	config  Config
	logger  zerolog.Logger
	cache   *gocache.Cache
	now     func() time.Time
}

func NewEnricher(catalog ArtistCatalog, social SocialMetadata, config Config, logger zerolog.Logger) *Enricher {
	if config.MaxGigs == 0 {
		config.MaxGigs = 100
	}
	if config.MaxWeekdays == 0 {
		config.MaxWeekdays = 10
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = time.Hour
	}

	return &Enricher{
		catalog: catalog,
		social:  social,
		config:  config,
		logger:  logger,
		cache:   gocache.New(config.CacheTTL, 2*config.CacheTTL),
		now:     time.Now,
	}
}

// artistLookup is the memoized outcome of one headliner's metadata
// lookups. Zero values mean the corresponding field degraded to absent.
type artistLookup struct {
	genre      string
	socialLink string
	topTrackID string
}

func (e *Enricher) lookupHeadliner(ctx context.Context, name string) artistLookup {
	if cached, ok := e.cache.Get(name); ok {
		return cached.(artistLookup)
	}

	lookup := e.doLookup(ctx, name)
	e.cache.Set(name, lookup, gocache.DefaultExpiration)
	return lookup
}

func (e *Enricher) doLookup(ctx context.Context, name string) artistLookup {
	var lookup artistLookup

	match, err := e.catalog.FindArtist(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrArtistNotFound) {
			e.logger.Info().Str("artist", name).Msg("no catalog match")
		} else {
			e.logger.Warn().Err(err).Str("artist", name).Msg("artist lookup failed")
		}
		return lookup
	}

	lookup.genre = strings.Join(match.Genres, ", ")

	track, err := e.catalog.TopTrack(ctx, match.ID)
	if err != nil {
		e.logger.Warn().Err(err).Str("artist", name).Msg("top track lookup failed")
	} else {
		lookup.topTrackID = track.ID
	}

	// Social and genre fallback are gated on a resolved catalog identity.
	if match.ProfileURL == "" {
		return lookup
	}

	tags, err := e.social.ArtistTags(ctx, name)
	if err != nil {
		e.logger.Warn().Err(err).Str("artist", name).Msg("tag lookup failed")
	} else if lookup.genre == "" {
		lookup.genre = tags
	}

	link, err := e.social.SocialLink(ctx, name, domain.SocialInstagram)
	if err != nil {
		e.logger.Warn().Err(err).Str("artist", name).Msg("instagram lookup failed")
		link = ""
	}
	if link == "" {
		link, err = e.social.SocialLink(ctx, name, domain.SocialYouTube)
		if err != nil {
			e.logger.Warn().Err(err).Str("artist", name).Msg("youtube lookup failed")
			link = ""
		}
	}
	lookup.socialLink = link

	return lookup
}

// enrich builds one complete gig record from a raw listing and its
// already-parsed date.
func (e *Enricher) enrich(ctx context.Context, raw domain.RawGig, date time.Time) domain.Gig {
	headliner := domain.Headliner(raw.Title)
	lookup := e.lookupHeadliner(ctx, headliner)

	return domain.Gig{
		DisplayDate: date.Format("Mon") + ", " + raw.DateText,
		FullDate:    domain.FormatFullDate(date),
		Weekday:     date.Weekday().String(),
		Title:       raw.Title,
		Location:    raw.Location,
		DetailsURL:  raw.DetailsURL,
		Genre:       lookup.genre,
		SocialLink:  lookup.socialLink,
		TopTrackID:  lookup.topTrackID,
		Date:        date,
	}
}
