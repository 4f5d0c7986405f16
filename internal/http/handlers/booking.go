package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fullstack/internal/apperr"
	domain "fullstack/internal/domain/booking"
	"fullstack/internal/services/booking"
)

type summaryView struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

type areaView struct {
	City   string        `json:"city"`
	State  string        `json:"state"`
	Venues []summaryView `json:"venues"`
}

type venueView struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Genres             []string `json:"genres"`
	City               string   `json:"city"`
	State              string   `json:"state"`
	Address            string   `json:"address"`
	Phone              string   `json:"phone"`
	Website            string   `json:"website"`
	FacebookLink       string   `json:"facebook_link"`
	ImageLink          string   `json:"image_link"`
	SeekingTalent      bool     `json:"seeking_talent"`
	SeekingDescription string   `json:"seeking_description"`
}

type artistView struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Genres             []string `json:"genres"`
	City               string   `json:"city"`
	State              string   `json:"state"`
	Phone              string   `json:"phone"`
	Website            string   `json:"website"`
	FacebookLink       string   `json:"facebook_link"`
	ImageLink          string   `json:"image_link"`
	SeekingVenue       bool     `json:"seeking_venue"`
	SeekingDescription string   `json:"seeking_description"`
}

type showView struct {
	ID              int64     `json:"id"`
	VenueID         int64     `json:"venue_id"`
	VenueName       string    `json:"venue_name,omitempty"`
	VenueImageLink  string    `json:"venue_image_link,omitempty"`
	ArtistID        int64     `json:"artist_id"`
	ArtistName      string    `json:"artist_name,omitempty"`
	ArtistImageLink string    `json:"artist_image_link,omitempty"`
	StartTime       time.Time `json:"start_time"`
}

type venueDetailView struct {
	venueView
	PastShows          []showView `json:"past_shows"`
	PastShowsCount     int        `json:"past_shows_count"`
	UpcomingShows      []showView `json:"upcoming_shows"`
	UpcomingShowsCount int        `json:"upcoming_shows_count"`
}

type artistDetailView struct {
	artistView
	PastShows          []showView `json:"past_shows"`
	PastShowsCount     int        `json:"past_shows_count"`
	UpcomingShows      []showView `json:"upcoming_shows"`
	UpcomingShowsCount int        `json:"upcoming_shows_count"`
}

type areasResponse struct {
	Success bool       `json:"success"`
	Areas   []areaView `json:"areas"`
}

type searchResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Data    []summaryView `json:"data"`
}

type venueResponse struct {
	Success bool      `json:"success"`
	Venue   venueView `json:"venue"`
}

type venueDetailResponse struct {
	Success bool            `json:"success"`
	Venue   venueDetailView `json:"venue"`
}

type artistResponse struct {
	Success bool       `json:"success"`
	Artist  artistView `json:"artist"`
}

type artistDetailResponse struct {
	Success bool             `json:"success"`
	Artist  artistDetailView `json:"artist"`
}

type artistItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type artistsResponse struct {
	Success bool         `json:"success"`
	Artists []artistItem `json:"artists"`
}

type showsResponse struct {
	Success bool       `json:"success"`
	Shows   []showView `json:"shows"`
}

type showResponse struct {
	Success bool     `json:"success"`
	Show    showView `json:"show"`
}

type deletedResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

func summaryViews(in []booking.Summary) []summaryView {
	out := make([]summaryView, 0, len(in))
	for _, s := range in {
		out = append(out, summaryView{ID: s.ID, Name: s.Name, NumUpcomingShows: s.NumUpcomingShows})
	}
	return out
}

func genresOf(g []string) []string {
	if g == nil {
		return []string{}
	}
	return g
}

func toVenueView(v *domain.Venue) venueView {
	return venueView{
		ID:                 v.ID,
		Name:               v.Name,
		Genres:             genresOf(v.Genres),
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		Website:            v.Website,
		FacebookLink:       v.FacebookLink,
		ImageLink:          v.ImageLink,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
	}
}

func toArtistView(a *domain.Artist) artistView {
	return artistView{
		ID:                 a.ID,
		Name:               a.Name,
		Genres:             genresOf(a.Genres),
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		Website:            a.Website,
		FacebookLink:       a.FacebookLink,
		ImageLink:          a.ImageLink,
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
	}
}

func toShowView(s domain.ShowListing) showView {
	return showView{
		ID:              s.ID,
		VenueID:         s.VenueID,
		VenueName:       s.VenueName,
		VenueImageLink:  s.VenueImageLink,
		ArtistID:        s.ArtistID,
		ArtistName:      s.ArtistName,
		ArtistImageLink: s.ArtistImageLink,
		StartTime:       s.StartTime,
	}
}

func showViews(in []domain.ShowListing) []showView {
	out := make([]showView, 0, len(in))
	for _, s := range in {
		out = append(out, toShowView(s))
	}
	return out
}

// bookingForm is the union of venue and artist fields. JSON bodies decode
// directly into it; form bodies are copied field by field.
type bookingForm struct {
	Name               string   `json:"name"`
	Genres             []string `json:"genres"`
	City               string   `json:"city"`
	State              string   `json:"state"`
	Address            string   `json:"address"`
	Phone              string   `json:"phone"`
	Website            string   `json:"website"`
	FacebookLink       string   `json:"facebook_link"`
	ImageLink          string   `json:"image_link"`
	SeekingTalent      bool     `json:"seeking_talent"`
	SeekingVenue       bool     `json:"seeking_venue"`
	SeekingDescription string   `json:"seeking_description"`
}

// readBookingForm decodes a JSON or form body. Checkbox fields are true
// when present in a form.
func readBookingForm(r *http.Request, op string) (bookingForm, error) {
	var f bookingForm
	if isJSON(r) {
		err := decodeJSON(r, op, &f)
		return f, err
	}
	if err := r.ParseForm(); err != nil {
		return f, apperr.BadRequest(op, "invalid form body")
	}
	pf := r.PostForm
	f = bookingForm{
		Name:               pf.Get("name"),
		Genres:             pf["genres"],
		City:               pf.Get("city"),
		State:              pf.Get("state"),
		Address:            pf.Get("address"),
		Phone:              pf.Get("phone"),
		Website:            pf.Get("website"),
		FacebookLink:       pf.Get("facebook_link"),
		ImageLink:          pf.Get("image_link"),
		SeekingDescription: pf.Get("seeking_description"),
	}
	_, f.SeekingTalent = pf["seeking_talent"]
	_, f.SeekingVenue = pf["seeking_venue"]
	return f, nil
}

func (f bookingForm) venue() domain.Venue {
	return domain.Venue{
		Name:               f.Name,
		Genres:             f.Genres,
		City:               f.City,
		State:              f.State,
		Address:            f.Address,
		Phone:              f.Phone,
		Website:            f.Website,
		FacebookLink:       f.FacebookLink,
		ImageLink:          f.ImageLink,
		SeekingTalent:      f.SeekingTalent,
		SeekingDescription: f.SeekingDescription,
	}
}

func (f bookingForm) artist() domain.Artist {
	return domain.Artist{
		Name:               f.Name,
		Genres:             f.Genres,
		City:               f.City,
		State:              f.State,
		Phone:              f.Phone,
		Website:            f.Website,
		FacebookLink:       f.FacebookLink,
		ImageLink:          f.ImageLink,
		SeekingVenue:       f.SeekingVenue,
		SeekingDescription: f.SeekingDescription,
	}
}

type searchRequest struct {
	SearchTerm string `json:"search_term"`
}

func readSearchTerm(r *http.Request, op string) (string, error) {
	if isJSON(r) {
		var req searchRequest
		err := decodeJSON(r, op, &req)
		return req.SearchTerm, err
	}
	if err := r.ParseForm(); err != nil {
		return "", apperr.BadRequest(op, "invalid form body")
	}
	return r.PostForm.Get("search_term"), nil
}

func ListAreas(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		areas, err := svc.Areas(r.Context())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		out := make([]areaView, 0, len(areas))
		for _, a := range areas {
			out = append(out, areaView{City: a.City, State: a.State, Venues: summaryViews(a.Venues)})
		}
		writeJSON(w, http.StatusOK, areasResponse{Success: true, Areas: out})
	}
}

// search adapts a venue or artist search to the shared handler shape.
func search(op string, find func(r *http.Request, term string, page int) (booking.SearchResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := readSearchTerm(r, op)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		res, err := find(r, term, pageParam(r))
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, searchResponse{Success: true, Count: res.Total, Data: summaryViews(res.Items)})
	}
}

func SearchVenues(svc *booking.Service) http.HandlerFunc {
	return search("handlers.search_venues", func(r *http.Request, term string, page int) (booking.SearchResult, error) {
		return svc.SearchVenues(r.Context(), term, page)
	})
}

func SearchArtists(svc *booking.Service) http.HandlerFunc {
	return search("handlers.search_artists", func(r *http.Request, term string, page int) (booking.SearchResult, error) {
		return svc.SearchArtists(r.Context(), term, page)
	})
}

func GetVenue(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "handlers.get_venue")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		d, err := svc.Venue(r.Context(), id)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, venueDetailResponse{
			Success: true,
			Venue: venueDetailView{
				venueView:          toVenueView(d.Venue),
				PastShows:          showViews(d.PastShows),
				PastShowsCount:     len(d.PastShows),
				UpcomingShows:      showViews(d.UpcomingShows),
				UpcomingShowsCount: len(d.UpcomingShows),
			},
		})
	}
}

func CreateVenue(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := readBookingForm(r, "handlers.create_venue")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		v, err := svc.CreateVenue(r.Context(), f.venue())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, venueResponse{Success: true, Venue: toVenueView(v)})
	}
}

func UpdateVenue(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.update_venue"

		id, err := idParam(r, op)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		f, err := readBookingForm(r, op)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		v, err := svc.UpdateVenue(r.Context(), id, f.venue())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, venueResponse{Success: true, Venue: toVenueView(v)})
	}
}

func DeleteVenue(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "handlers.delete_venue")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		if err := svc.DeleteVenue(r.Context(), id); err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, deletedResponse{Success: true, Deleted: id})
	}
}

func ListArtists(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artists, err := svc.Artists(r.Context())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		out := make([]artistItem, 0, len(artists))
		for _, a := range artists {
			out = append(out, artistItem{ID: a.ID, Name: a.Name})
		}
		writeJSON(w, http.StatusOK, artistsResponse{Success: true, Artists: out})
	}
}

func GetArtist(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "handlers.get_artist")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		d, err := svc.Artist(r.Context(), id)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, artistDetailResponse{
			Success: true,
			Artist: artistDetailView{
				artistView:         toArtistView(d.Artist),
				PastShows:          showViews(d.PastShows),
				PastShowsCount:     len(d.PastShows),
				UpcomingShows:      showViews(d.UpcomingShows),
				UpcomingShowsCount: len(d.UpcomingShows),
			},
		})
	}
}

func CreateArtist(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := readBookingForm(r, "handlers.create_artist")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		a, err := svc.CreateArtist(r.Context(), f.artist())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, artistResponse{Success: true, Artist: toArtistView(a)})
	}
}

func UpdateArtist(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.update_artist"

		id, err := idParam(r, op)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		f, err := readBookingForm(r, op)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		a, err := svc.UpdateArtist(r.Context(), id, f.artist())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, artistResponse{Success: true, Artist: toArtistView(a)})
	}
}

func DeleteArtist(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "handlers.delete_artist")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		if err := svc.DeleteArtist(r.Context(), id); err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, deletedResponse{Success: true, Deleted: id})
	}
}

func ListShows(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shows, err := svc.Shows(r.Context())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, showsResponse{Success: true, Shows: showViews(shows)})
	}
}

type showRequest struct {
	VenueID   flexInt `json:"venue_id"`
	ArtistID  flexInt `json:"artist_id"`
	StartTime string  `json:"start_time"`
}

func readShowRequest(r *http.Request, op string) (showRequest, error) {
	var req showRequest
	if isJSON(r) {
		err := decodeJSON(r, op, &req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return req, apperr.BadRequest(op, "invalid form body")
	}
	for field, dst := range map[string]*flexInt{"venue_id": &req.VenueID, "artist_id": &req.ArtistID} {
		raw := strings.TrimSpace(r.PostForm.Get(field))
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, apperr.BadRequest(op, field+" must be an integer")
		}
		*dst = flexInt(n)
	}
	req.StartTime = r.PostForm.Get("start_time")
	return req, nil
}

func CreateShow(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.create_show"

		req, err := readShowRequest(r, op)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		start, err := domain.ParseStartTime(req.StartTime)
		if err != nil {
			WriteError(w, r, apperr.BadRequest(op, err.Error()))
			return
		}
		sh, err := svc.CreateShow(r.Context(), int64(req.VenueID), int64(req.ArtistID), start)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, showResponse{
			Success: true,
			Show: showView{
				ID:        sh.ID,
				VenueID:   sh.VenueID,
				ArtistID:  sh.ArtistID,
				StartTime: sh.StartTime,
			},
		})
	}
}
