package domain

import (
	"errors"
)

var (
	ErrArtistNotFound  = errors.New("artist not found")
	ErrTrackNotFound   = errors.New("track not found")
	ErrNoListingsTable = errors.New("no listings table found")
	ErrNoUpcomingGigs  = errors.New("no current or future gigs in snapshot")
)
