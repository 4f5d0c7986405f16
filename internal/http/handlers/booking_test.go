package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"fullstack/internal/services/booking"
	"fullstack/internal/store/memory"
	"fullstack/internal/testutil"

	"github.com/go-chi/chi/v5"
)

const formType = "application/x-www-form-urlencoded"

var bookingNow = time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

func bookingRouter(t *testing.T) (*chi.Mux, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := booking.NewService(store, testutil.Clock(bookingNow))

	r := newMux()
	r.Get("/venues", ListAreas(svc))
	r.Post("/venues/search", SearchVenues(svc))
	r.Post("/venues/create", CreateVenue(svc))
	r.Get("/venues/{id}", GetVenue(svc))
	r.Post("/venues/{id}/edit", UpdateVenue(svc))
	r.Delete("/venues/{id}", DeleteVenue(svc))
	r.Get("/artists", ListArtists(svc))
	r.Post("/artists/search", SearchArtists(svc))
	r.Post("/artists/create", CreateArtist(svc))
	r.Get("/artists/{id}", GetArtist(svc))
	r.Post("/artists/{id}/edit", UpdateArtist(svc))
	r.Delete("/artists/{id}", DeleteArtist(svc))
	r.Get("/shows", ListShows(svc))
	r.Post("/shows/create", CreateShow(svc))
	return r, store
}

func TestCreateVenueFromForm(t *testing.T) {
	r, store := bookingRouter(t)
	form := url.Values{
		"name":           {"The Musical Hop"},
		"genres":         {"Jazz", "Reggae"},
		"city":           {"San Francisco"},
		"state":          {"CA"},
		"seeking_talent": {"y"},
	}

	res := do(t, r, http.MethodPost, "/venues/create", formType, form.Encode())
	if res.status != http.StatusCreated {
		t.Fatalf("create = %d %v", res.status, res.body)
	}
	venue := res.body["venue"].(map[string]any)
	if venue["seeking_talent"] != true || len(venue["genres"].([]any)) != 2 {
		t.Fatalf("venue = %v", venue)
	}

	got, err := store.Venues().FindByID(t.Context(), int64(venue["id"].(float64)))
	if err != nil || got.Genres[1] != "Reggae" {
		t.Fatalf("stored venue = %+v, %v", got, err)
	}

	assertFailure(t, do(t, r, http.MethodPost, "/venues/create", formType, url.Values{"name": {"No genres"}}.Encode()), 400, "bad request")
}

func TestCreateArtistFromJSON(t *testing.T) {
	r, _ := bookingRouter(t)
	res := doJSON(t, r, http.MethodPost, "/artists/create",
		`{"name": "Guns N Petals", "genres": ["Rock n Roll"], "city": "San Francisco", "state": "CA", "seeking_venue": true}`)
	if res.status != http.StatusCreated {
		t.Fatalf("create = %d %v", res.status, res.body)
	}
	artist := res.body["artist"].(map[string]any)
	if artist["seeking_venue"] != true || artist["name"] != "Guns N Petals" {
		t.Fatalf("artist = %v", artist)
	}

	list := do(t, r, http.MethodGet, "/artists", "", "")
	items := list.body["artists"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["name"] != "Guns N Petals" {
		t.Fatalf("artists = %v", items)
	}
}

func TestVenueAreasAndDetail(t *testing.T) {
	r, store := bookingRouter(t)
	hall := testutil.SeedVenue(t, store, "Hall", "Austin", "TX")
	testutil.SeedVenue(t, store, "Dock", "Boston", "MA")
	band := testutil.SeedArtist(t, store, "Band")
	testutil.SeedShow(t, store, hall.ID, band.ID, bookingNow.Add(time.Hour))
	testutil.SeedShow(t, store, hall.ID, band.ID, bookingNow.Add(-time.Hour))

	res := do(t, r, http.MethodGet, "/venues", "", "")
	areas := res.body["areas"].([]any)
	if len(areas) != 2 {
		t.Fatalf("areas = %v", areas)
	}
	tx := areas[1].(map[string]any)
	first := tx["venues"].([]any)[0].(map[string]any)
	if tx["state"] != "TX" || first["num_upcoming_shows"] != float64(1) {
		t.Fatalf("TX area = %v", tx)
	}

	res = do(t, r, http.MethodGet, fmt.Sprintf("/venues/%d", hall.ID), "", "")
	venue := res.body["venue"].(map[string]any)
	if venue["name"] != "Hall" || venue["past_shows_count"] != float64(1) || venue["upcoming_shows_count"] != float64(1) {
		t.Fatalf("venue detail = %v", venue)
	}
	upcoming := venue["upcoming_shows"].([]any)[0].(map[string]any)
	if upcoming["artist_name"] != "Band" || upcoming["artist_id"] != float64(band.ID) {
		t.Fatalf("upcoming show = %v", upcoming)
	}

	assertFailure(t, do(t, r, http.MethodGet, "/venues/4040", "", ""), 404, "resource not found")
}

func TestSearchRoutes(t *testing.T) {
	r, store := bookingRouter(t)
	testutil.SeedVenue(t, store, "The Musical Hop", "San Francisco", "CA")
	testutil.SeedVenue(t, store, "Park Square Live Music & Coffee", "San Francisco", "CA")
	testutil.SeedArtist(t, store, "Matt Quevedo")

	res := do(t, r, http.MethodPost, "/venues/search", formType, url.Values{"search_term": {"music"}}.Encode())
	if res.status != http.StatusOK || res.body["count"] != float64(2) || len(res.body["data"].([]any)) != 2 {
		t.Fatalf("venue search = %d %v", res.status, res.body)
	}

	res = doJSON(t, r, http.MethodPost, "/artists/search", `{"search_term": "QUE"}`)
	if res.body["count"] != float64(1) {
		t.Fatalf("artist search = %v", res.body)
	}

	res = do(t, r, http.MethodPost, "/venues/search", formType, "")
	if res.body["count"] != float64(2) {
		t.Fatalf("empty term should match every venue: %v", res.body)
	}
}

func TestEditAndDeleteVenue(t *testing.T) {
	r, store := bookingRouter(t)
	hall := testutil.SeedVenue(t, store, "Hall", "Austin", "TX")
	band := testutil.SeedArtist(t, store, "Band")
	path := fmt.Sprintf("/venues/%d", hall.ID)

	res := doJSON(t, r, http.MethodPost, path+"/edit", `{"name": "Grand Hall", "genres": ["Blues"], "city": "Dallas", "state": "TX"}`)
	if res.status != http.StatusOK || res.body["venue"].(map[string]any)["name"] != "Grand Hall" {
		t.Fatalf("edit = %d %v", res.status, res.body)
	}
	assertFailure(t, doJSON(t, r, http.MethodPost, "/venues/999/edit", `{"name": "x", "genres": ["y"]}`), 404, "resource not found")

	testutil.SeedShow(t, store, hall.ID, band.ID, bookingNow)
	assertFailure(t, do(t, r, http.MethodDelete, path, "", ""), 422, "unprocessable")

	empty := testutil.SeedVenue(t, store, "Empty", "Austin", "TX")
	res = do(t, r, http.MethodDelete, fmt.Sprintf("/venues/%d", empty.ID), "", "")
	if res.status != http.StatusOK || res.body["deleted"] != float64(empty.ID) {
		t.Fatalf("delete = %d %v", res.status, res.body)
	}
}

func TestArtistDetailAndEdit(t *testing.T) {
	r, store := bookingRouter(t)
	hall := testutil.SeedVenue(t, store, "Hall", "Austin", "TX")
	band := testutil.SeedArtist(t, store, "Band")
	testutil.SeedShow(t, store, hall.ID, band.ID, bookingNow.Add(-48*time.Hour))

	res := do(t, r, http.MethodGet, fmt.Sprintf("/artists/%d", band.ID), "", "")
	artist := res.body["artist"].(map[string]any)
	past := artist["past_shows"].([]any)
	if len(past) != 1 || past[0].(map[string]any)["venue_name"] != "Hall" || artist["upcoming_shows_count"] != float64(0) {
		t.Fatalf("artist detail = %v", artist)
	}

	form := url.Values{"name": {"Band Reunited"}, "genres": {"Rock"}, "seeking_venue": {"y"}}
	res = do(t, r, http.MethodPost, fmt.Sprintf("/artists/%d/edit", band.ID), formType, form.Encode())
	if res.status != http.StatusOK || res.body["artist"].(map[string]any)["seeking_venue"] != true {
		t.Fatalf("edit = %d %v", res.status, res.body)
	}

	assertFailure(t, do(t, r, http.MethodDelete, fmt.Sprintf("/artists/%d", band.ID), "", ""), 422, "unprocessable")
	assertFailure(t, do(t, r, http.MethodDelete, "/artists/31337", "", ""), 404, "resource not found")
}

func TestShowsRoutes(t *testing.T) {
	r, store := bookingRouter(t)
	hall := testutil.SeedVenue(t, store, "Hall", "Austin", "TX")
	band := testutil.SeedArtist(t, store, "Band")

	form := url.Values{
		"venue_id":   {fmt.Sprint(hall.ID)},
		"artist_id":  {fmt.Sprint(band.ID)},
		"start_time": {"2025-07-04 21:00:00"},
	}
	res := do(t, r, http.MethodPost, "/shows/create", formType, form.Encode())
	if res.status != http.StatusCreated {
		t.Fatalf("create show = %d %v", res.status, res.body)
	}

	res = doJSON(t, r, http.MethodPost, "/shows/create",
		fmt.Sprintf(`{"venue_id": "%d", "artist_id": %d, "start_time": "2025-07-05T21:00:00Z"}`, hall.ID, band.ID))
	if res.status != http.StatusCreated {
		t.Fatalf("create show from json = %d %v", res.status, res.body)
	}

	list := do(t, r, http.MethodGet, "/shows", "", "")
	shows := list.body["shows"].([]any)
	if len(shows) != 2 {
		t.Fatalf("shows = %v", shows)
	}
	first := shows[0].(map[string]any)
	if first["venue_name"] != "Hall" || first["artist_name"] != "Band" || first["start_time"] != "2025-07-04T21:00:00Z" {
		t.Fatalf("first show = %v", first)
	}

	bad := []url.Values{
		{"venue_id": {fmt.Sprint(hall.ID)}, "artist_id": {"999"}, "start_time": {"2025-07-04 21:00:00"}},
		{"venue_id": {"abc"}, "artist_id": {fmt.Sprint(band.ID)}, "start_time": {"2025-07-04 21:00:00"}},
		{"venue_id": {fmt.Sprint(hall.ID)}, "artist_id": {fmt.Sprint(band.ID)}, "start_time": {"next friday"}},
		{"venue_id": {fmt.Sprint(hall.ID)}, "start_time": {"2025-07-04 21:00:00"}},
	}
	for _, f := range bad {
		assertFailure(t, do(t, r, http.MethodPost, "/shows/create", formType, f.Encode()), 400, "bad request")
	}
}
