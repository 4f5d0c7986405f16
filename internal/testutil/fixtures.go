// Package testutil seeds stores with fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fullstack/internal/domain/booking"
	"fullstack/internal/domain/drink"
	"fullstack/internal/domain/trivia"
	"fullstack/internal/store/repositories"

	"github.com/google/uuid"
)

// UniqueTitle returns prefix with a random suffix.
func UniqueTitle(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// Clock returns a fixed time source.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SeedQuestions inserts n questions in category and returns them in id order.
func SeedQuestions(t *testing.T, s repositories.Store, n int, category int64) []*trivia.Question {
	t.Helper()
	ctx := context.Background()
	out := make([]*trivia.Question, 0, n)
	for i := 0; i < n; i++ {
		q := &trivia.Question{
			Question:   fmt.Sprintf("Question %d about %s", i+1, uuid.NewString()[:8]),
			Answer:     fmt.Sprintf("Answer %d", i+1),
			Category:   category,
			Difficulty: i%5 + 1,
		}
		if err := s.Questions().Save(ctx, q); err != nil {
			t.Fatalf("seed question: %v", err)
		}
		out = append(out, q)
	}
	return out
}

// SeedDrink inserts a drink with a single-layer recipe.
func SeedDrink(t *testing.T, s repositories.Store, title string) *drink.Drink {
	t.Helper()
	d := &drink.Drink{
		Title:  title,
		Recipe: []drink.Ingredient{{Name: "espresso", Color: "brown", Parts: 1}},
	}
	if err := s.Drinks().Save(context.Background(), d); err != nil {
		t.Fatalf("seed drink: %v", err)
	}
	return d
}

// SeedVenue inserts a venue in city/state.
func SeedVenue(t *testing.T, s repositories.Store, name, city, state string) *booking.Venue {
	t.Helper()
	v := &booking.Venue{Name: name, Genres: []string{"Jazz"}, City: city, State: state, Address: "1 Main St"}
	if err := s.Venues().Save(context.Background(), v); err != nil {
		t.Fatalf("seed venue: %v", err)
	}
	return v
}

// SeedArtist inserts an artist.
func SeedArtist(t *testing.T, s repositories.Store, name string) *booking.Artist {
	t.Helper()
	a := &booking.Artist{Name: name, Genres: []string{"Rock"}, City: "Austin", State: "TX"}
	if err := s.Artists().Save(context.Background(), a); err != nil {
		t.Fatalf("seed artist: %v", err)
	}
	return a
}

// SeedShow books artist at venue.
func SeedShow(t *testing.T, s repositories.Store, venueID, artistID int64, start time.Time) *booking.Show {
	t.Helper()
	sh := &booking.Show{VenueID: venueID, ArtistID: artistID, StartTime: start.UTC()}
	if err := s.Shows().Save(context.Background(), sh); err != nil {
		t.Fatalf("seed show: %v", err)
	}
	return sh
}
