package booking

import (
	"context"
	"errors"
	"time"

	"fullstack/internal/apperr"
	"fullstack/internal/domain/booking"
	"fullstack/internal/listing"
	"fullstack/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

var (
	venueFields = listing.Fields[*booking.Venue]{
		ID:   func(v *booking.Venue) int64 { return v.ID },
		Text: func(v *booking.Venue) string { return v.Name },
	}
	artistFields = listing.Fields[*booking.Artist]{
		ID:   func(a *booking.Artist) int64 { return a.ID },
		Text: func(a *booking.Artist) string { return a.Name },
	}
)

// Summary is a venue or artist with its number of upcoming shows.
type Summary struct {
	ID               int64
	Name             string
	NumUpcomingShows int
}

// AreaSummary lists the venues of one city.
type AreaSummary struct {
	City   string
	State  string
	Venues []Summary
}

// SearchResult is one page of matching venues or artists.
type SearchResult struct {
	Items []Summary
	// Total counts every match, not just this page.
	Total int
}

type VenueDetail struct {
	Venue         *booking.Venue
	PastShows     []booking.ShowListing
	UpcomingShows []booking.ShowListing
}

type ArtistDetail struct {
	Artist        *booking.Artist
	PastShows     []booking.ShowListing
	UpcomingShows []booking.ShowListing
}

// Service handles venues, artists and the shows booked between them
type Service struct {
	store repositories.Store
	now   func() time.Time
}

// NewService creates a booking service. now decides which shows are
// upcoming; nil uses the wall clock.
func NewService(store repositories.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// upcomingCounts returns upcoming show counts keyed by venue or artist id.
func (s *Service) upcomingCounts(ctx context.Context, key func(booking.ShowListing) int64) (map[int64]int, error) {
	shows, err := s.store.Shows().FindAll(ctx, repositories.ShowFilter{})
	if err != nil {
		return nil, err
	}
	now := s.now()
	counts := make(map[int64]int)
	for _, sh := range shows {
		if sh.Upcoming(now) {
			counts[key(sh)]++
		}
	}
	return counts, nil
}

func byVenue(sh booking.ShowListing) int64  { return sh.VenueID }
func byArtist(sh booking.ShowListing) int64 { return sh.ArtistID }

// Areas groups every venue by city and state.
func (s *Service) Areas(ctx context.Context) ([]AreaSummary, error) {
	const op = "booking.areas"
	venues, err := s.store.Venues().FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	counts, err := s.upcomingCounts(ctx, byVenue)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}

	areas := booking.GroupByArea(venues)
	out := make([]AreaSummary, 0, len(areas))
	for _, a := range areas {
		sum := AreaSummary{City: a.City, State: a.State, Venues: make([]Summary, 0, len(a.Venues))}
		for _, v := range a.Venues {
			sum.Venues = append(sum.Venues, Summary{ID: v.ID, Name: v.Name, NumUpcomingShows: counts[v.ID]})
		}
		out = append(out, sum)
	}
	return out, nil
}

// SearchVenues pages through venues whose name contains term.
func (s *Service) SearchVenues(ctx context.Context, term string, page int) (SearchResult, error) {
	const op = "booking.search_venues"
	venues, err := s.store.Venues().FindAll(ctx)
	if err != nil {
		return SearchResult{}, apperr.Internal(op, err)
	}
	counts, err := s.upcomingCounts(ctx, byVenue)
	if err != nil {
		return SearchResult{}, apperr.Internal(op, err)
	}
	res := listing.List(listing.NewCriteria(page).WithSearch(term), venues, venueFields)
	items := make([]Summary, 0, res.Count)
	for _, v := range res.Items {
		items = append(items, Summary{ID: v.ID, Name: v.Name, NumUpcomingShows: counts[v.ID]})
	}
	return SearchResult{Items: items, Total: res.Total}, nil
}

// SearchArtists pages through artists whose name contains term.
func (s *Service) SearchArtists(ctx context.Context, term string, page int) (SearchResult, error) {
	const op = "booking.search_artists"
	artists, err := s.store.Artists().FindAll(ctx)
	if err != nil {
		return SearchResult{}, apperr.Internal(op, err)
	}
	counts, err := s.upcomingCounts(ctx, byArtist)
	if err != nil {
		return SearchResult{}, apperr.Internal(op, err)
	}
	res := listing.List(listing.NewCriteria(page).WithSearch(term), artists, artistFields)
	items := make([]Summary, 0, res.Count)
	for _, a := range res.Items {
		items = append(items, Summary{ID: a.ID, Name: a.Name, NumUpcomingShows: counts[a.ID]})
	}
	return SearchResult{Items: items, Total: res.Total}, nil
}

func (s *Service) Venue(ctx context.Context, id int64) (*VenueDetail, error) {
	const op = "booking.venue"
	v, err := s.store.Venues().FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(op, "venue", err)
	}
	shows, err := s.store.Shows().FindAll(ctx, repositories.ShowFilter{VenueID: &id})
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	past, upcoming := booking.SplitShows(shows, s.now())
	return &VenueDetail{Venue: v, PastShows: past, UpcomingShows: upcoming}, nil
}

// Artists lists every artist ordered by id.
func (s *Service) Artists(ctx context.Context) ([]*booking.Artist, error) {
	artists, err := s.store.Artists().FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("booking.artists", err)
	}
	return artists, nil
}

func (s *Service) Artist(ctx context.Context, id int64) (*ArtistDetail, error) {
	const op = "booking.artist"
	a, err := s.store.Artists().FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(op, "artist", err)
	}
	shows, err := s.store.Shows().FindAll(ctx, repositories.ShowFilter{ArtistID: &id})
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	past, upcoming := booking.SplitShows(shows, s.now())
	return &ArtistDetail{Artist: a, PastShows: past, UpcomingShows: upcoming}, nil
}

// CreateVenue validates and stores a new venue.
func (s *Service) CreateVenue(ctx context.Context, in booking.Venue) (*booking.Venue, error) {
	const op = "booking.create_venue"
	v, err := booking.NewVenue(in)
	if err != nil {
		return nil, apperr.BadRequest(op, err.Error())
	}
	err = s.inTx(ctx, op, func(tx repositories.Transaction) error {
		return tx.VenueRepository().Save(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("venue_id", v.ID).Str("name", v.Name).Msg("venue listed")
	return v, nil
}

// UpdateVenue overwrites every editable field of venue id.
func (s *Service) UpdateVenue(ctx context.Context, id int64, in booking.Venue) (*booking.Venue, error) {
	const op = "booking.update_venue"
	var v *booking.Venue
	err := s.inTx(ctx, op, func(tx repositories.Transaction) error {
		repo := tx.VenueRepository()
		if _, err := repo.FindByID(ctx, id); err != nil {
			return lookupErr(op, "venue", err)
		}
		var err error
		if v, err = booking.NewVenue(in); err != nil {
			return apperr.BadRequest(op, err.Error())
		}
		v.ID = id
		return repo.Save(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("venue_id", id).Msg("venue updated")
	return v, nil
}

// DeleteVenue removes a venue. Venues with booked shows cannot be removed.
func (s *Service) DeleteVenue(ctx context.Context, id int64) error {
	const op = "booking.delete_venue"
	err := s.inTx(ctx, op, func(tx repositories.Transaction) error {
		repo := tx.VenueRepository()
		if _, err := repo.FindByID(ctx, id); err != nil {
			return lookupErr(op, "venue", err)
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Info().Int64("venue_id", id).Msg("venue deleted")
	return nil
}

func (s *Service) CreateArtist(ctx context.Context, in booking.Artist) (*booking.Artist, error) {
	const op = "booking.create_artist"
	a, err := booking.NewArtist(in)
	if err != nil {
		return nil, apperr.BadRequest(op, err.Error())
	}
	err = s.inTx(ctx, op, func(tx repositories.Transaction) error {
		return tx.ArtistRepository().Save(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("artist_id", a.ID).Str("name", a.Name).Msg("artist listed")
	return a, nil
}

func (s *Service) UpdateArtist(ctx context.Context, id int64, in booking.Artist) (*booking.Artist, error) {
	const op = "booking.update_artist"
	var a *booking.Artist
	err := s.inTx(ctx, op, func(tx repositories.Transaction) error {
		repo := tx.ArtistRepository()
		if _, err := repo.FindByID(ctx, id); err != nil {
			return lookupErr(op, "artist", err)
		}
		var err error
		if a, err = booking.NewArtist(in); err != nil {
			return apperr.BadRequest(op, err.Error())
		}
		a.ID = id
		return repo.Save(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("artist_id", id).Msg("artist updated")
	return a, nil
}

func (s *Service) DeleteArtist(ctx context.Context, id int64) error {
	const op = "booking.delete_artist"
	err := s.inTx(ctx, op, func(tx repositories.Transaction) error {
		repo := tx.ArtistRepository()
		if _, err := repo.FindByID(ctx, id); err != nil {
			return lookupErr(op, "artist", err)
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Info().Int64("artist_id", id).Msg("artist deleted")
	return nil
}

// Shows lists every show ordered by start time.
func (s *Service) Shows(ctx context.Context) ([]booking.ShowListing, error) {
	shows, err := s.store.Shows().FindAll(ctx, repositories.ShowFilter{})
	if err != nil {
		return nil, apperr.Internal("booking.shows", err)
	}
	return shows, nil
}

// CreateShow books artistID at venueID. Both must exist.
func (s *Service) CreateShow(ctx context.Context, venueID, artistID int64, start time.Time) (*booking.Show, error) {
	const op = "booking.create_show"
	sh, err := booking.NewShow(venueID, artistID, start)
	if err != nil {
		return nil, apperr.BadRequest(op, err.Error())
	}
	err = s.inTx(ctx, op, func(tx repositories.Transaction) error {
		if _, err := tx.VenueRepository().FindByID(ctx, venueID); err != nil {
			return refErr(op, "venue", err)
		}
		if _, err := tx.ArtistRepository().FindByID(ctx, artistID); err != nil {
			return refErr(op, "artist", err)
		}
		return tx.ShowRepository().Save(ctx, sh)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("show_id", sh.ID).Int64("venue_id", venueID).Int64("artist_id", artistID).Msg("show listed")
	return sh, nil
}

// inTx runs fn in a transaction. Untagged errors from fn are store
// failures and become Unprocessable.
func (s *Service) inTx(ctx context.Context, op string, fn func(tx repositories.Transaction) error) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return apperr.Internal(op, err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		var tagged *apperr.Error
		if errors.As(err, &tagged) {
			return err
		}
		return apperr.Unprocessable(op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Unprocessable(op, err)
	}
	return nil
}

func lookupErr(op, what string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(op, what+" does not exist")
	}
	return apperr.Internal(op, err)
}

// refErr reports a missing referenced record as bad input.
func refErr(op, what string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.BadRequest(op, what+" does not exist")
	}
	return apperr.Internal(op, err)
}
