package booking

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Venue is a place that hosts shows.
type Venue struct {
	ID                 int64
	Name               string
	Genres             []string
	City               string
	State              string
	Address            string
	Phone              string
	Website            string
	FacebookLink       string
	ImageLink          string
	SeekingTalent      bool
	SeekingDescription string
}

// Artist performs at shows.
type Artist struct {
	ID                 int64
	Name               string
	Genres             []string
	City               string
	State              string
	Phone              string
	Website            string
	FacebookLink       string
	ImageLink          string
	SeekingVenue       bool
	SeekingDescription string
}

// Show books an artist at a venue.
type Show struct {
	ID        int64
	VenueID   int64
	ArtistID  int64
	StartTime time.Time
}

// ShowListing is a show joined with its venue and artist.
type ShowListing struct {
	Show
	VenueName       string
	VenueImageLink  string
	ArtistName      string
	ArtistImageLink string
}

// Upcoming reports whether the show starts at or after now.
func (s Show) Upcoming(now time.Time) bool {
	return !s.StartTime.Before(now)
}

// SplitShows partitions shows into past and upcoming relative to now,
// preserving order.
func SplitShows(shows []ShowListing, now time.Time) (past, upcoming []ShowListing) {
	past, upcoming = []ShowListing{}, []ShowListing{}
	for _, s := range shows {
		if s.Upcoming(now) {
			upcoming = append(upcoming, s)
		} else {
			past = append(past, s)
		}
	}
	return past, upcoming
}

// Area is a city/state pair and the venues located there.
type Area struct {
	City   string
	State  string
	Venues []*Venue
}

// GroupByArea buckets venues by (city, state). Areas are ordered by state
// then city; venues keep their input order.
func GroupByArea(venues []*Venue) []Area {
	idx := make(map[[2]string]int)
	var areas []Area
	for _, v := range venues {
		key := [2]string{v.City, v.State}
		i, ok := idx[key]
		if !ok {
			i = len(areas)
			idx[key] = i
			areas = append(areas, Area{City: v.City, State: v.State})
		}
		areas[i].Venues = append(areas[i].Venues, v)
	}
	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].State != areas[j].State {
			return areas[i].State < areas[j].State
		}
		return areas[i].City < areas[j].City
	})
	return areas
}

// NewVenue validates required venue fields.
func NewVenue(v Venue) (*Venue, error) {
	if err := requireNameAndGenres(v.Name, v.Genres); err != nil {
		return nil, err
	}
	v.ID = 0
	return &v, nil
}

// NewArtist validates required artist fields.
func NewArtist(a Artist) (*Artist, error) {
	if err := requireNameAndGenres(a.Name, a.Genres); err != nil {
		return nil, err
	}
	a.ID = 0
	return &a, nil
}

// NewShow validates a booking.
func NewShow(venueID, artistID int64, start time.Time) (*Show, error) {
	if venueID <= 0 || artistID <= 0 {
		return nil, fmt.Errorf("venue and artist are required")
	}
	if start.IsZero() {
		return nil, fmt.Errorf("start time is required")
	}
	return &Show{VenueID: venueID, ArtistID: artistID, StartTime: start.UTC()}, nil
}

func requireNameAndGenres(name string, genres []string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(genres) == 0 {
		return fmt.Errorf("at least one genre is required")
	}
	return nil
}

// ParseStartTime accepts RFC3339 and the "2006-01-02 15:04:05" form used by
// the booking forms.
func ParseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start time %q", s)
}
