package domain

import (
	"time"
)

// RawGig is one listing row exactly as scraped from the gigs page.
// All fields are plain strings; DetailsURL may be empty when the row
// carries no ticket/venue link.
type RawGig struct {
	DateText   string `json:"date_text"`
	Title      string `json:"title"`
	Location   string `json:"location"`
	DetailsURL string `json:"details_url,omitempty"`
}

// Gig is a fully enriched listing. The json tags define the snapshot
// record format consumed by the web view and the image renderer, so
// optional fields use omitempty to round-trip absence losslessly.
type Gig struct {
	DisplayDate string `json:"date"`
	FullDate    string `json:"full_date"`
	Weekday     string `json:"day"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	DetailsURL  string `json:"details_url,omitempty"`
	Genre       string `json:"genre,omitempty"`
	SocialLink  string `json:"social_link,omitempty"`
	TopTrackID  string `json:"top_track_id,omitempty"`

	// Date is the parsed listing date, used only while the batch is
	// running. It is never serialized; consumers re-derive the calendar
	// date from DisplayDate.
	Date time.Time `json:"-"`
}
