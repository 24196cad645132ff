package domain

// ArtistMatch is a resolved artist identity from the catalog service.
type ArtistMatch struct {
	ID         string
	Name       string
	ProfileURL string
	Genres     []string
}

// Track is one entry from an artist's ranked track list.
type Track struct {
	Name string
	URL  string
	ID   string
}

// SocialKind selects which outbound platform link to look for on an
// artist's profile page.
type SocialKind string

const (
	SocialInstagram SocialKind = "instagram"
	SocialYouTube   SocialKind = "youtube"
)
