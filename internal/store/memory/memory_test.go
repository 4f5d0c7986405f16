package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fullstack/internal/domain/booking"
	"fullstack/internal/domain/drink"
	"fullstack/internal/domain/trivia"
	"fullstack/internal/store/repositories"
)

func TestSeededCategories(t *testing.T) {
	s := New()
	cats, err := s.Categories().FindAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != len(DefaultCategories) {
		t.Fatalf("expected %d categories, got %d", len(DefaultCategories), len(cats))
	}
	for i, c := range cats {
		if c.ID != int64(i+1) {
			t.Fatalf("categories out of order: %+v", cats)
		}
	}
}

func TestQuestionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	q := &trivia.Question{Question: "q", Answer: "a", Category: 2, Difficulty: 3}
	if err := s.Questions().Save(ctx, q); err != nil {
		t.Fatal(err)
	}
	if q.ID != 1 {
		t.Fatalf("expected id 1, got %d", q.ID)
	}

	cat := int64(2)
	qs, _ := s.Questions().FindAll(ctx, repositories.QuestionFilter{Category: &cat})
	if len(qs) != 1 {
		t.Fatalf("expected 1 question in category 2, got %d", len(qs))
	}
	if err := s.Questions().Save(ctx, &trivia.Question{Category: 42}); !errors.Is(err, repositories.ErrConflict) {
		t.Fatalf("expected ErrConflict for unknown category, got %v", err)
	}
	if err := s.Questions().Delete(ctx, 99); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Questions().Delete(ctx, q.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Questions().FindByID(ctx, q.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDrinkTitleUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	first := &drink.Drink{Title: "latte", Recipe: []drink.Ingredient{{Name: "milk", Color: "white", Parts: 2}}}
	if err := s.Drinks().Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Drinks().Save(ctx, &drink.Drink{Title: "latte"}); !errors.Is(err, repositories.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	// updating a drink to its own title is allowed
	first.Recipe = nil
	if err := s.Drinks().Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	n, _ := s.Drinks().CountByTitle(ctx, "latte")
	if n != 1 {
		t.Fatalf("expected 1 latte, got %d", n)
	}
}

func TestStoredRecipeIsCopied(t *testing.T) {
	ctx := context.Background()
	s := New()
	d := &drink.Drink{Title: "mocha", Recipe: []drink.Ingredient{{Name: "coffee", Color: "brown", Parts: 1}}}
	if err := s.Drinks().Save(ctx, d); err != nil {
		t.Fatal(err)
	}
	d.Recipe[0].Name = "mutated"
	got, _ := s.Drinks().FindByID(ctx, d.ID)
	if got.Recipe[0].Name != "coffee" {
		t.Fatalf("store shares recipe slice with caller")
	}
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.DrinkRepository().Save(ctx, &drink.Drink{Title: "tea"}); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Drinks().CountByTitle(ctx, "tea"); n != 0 {
		t.Fatal("uncommitted write visible outside transaction")
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Drinks().CountByTitle(ctx, "tea"); n != 0 {
		t.Fatal("rolled back write persisted")
	}
}

func TestTransactionCommit(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx, _ := s.Begin(ctx)
	defer tx.Rollback(ctx)
	if err := tx.DrinkRepository().Save(ctx, &drink.Drink{Title: "tea"}); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Drinks().CountByTitle(ctx, "tea"); n != 1 {
		t.Fatal("committed write missing")
	}
	// rollback after commit must not undo anything
	if err := tx.Rollback(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Drinks().CountByTitle(ctx, "tea"); n != 1 {
		t.Fatal("rollback after commit removed data")
	}
}

func TestShowsRestrictDeletes(t *testing.T) {
	ctx := context.Background()
	s := New()
	v := &booking.Venue{Name: "Hall", Genres: []string{"Jazz"}}
	a := &booking.Artist{Name: "Band", Genres: []string{"Jazz"}}
	_ = s.Venues().Save(ctx, v)
	_ = s.Artists().Save(ctx, a)

	if err := s.Shows().Save(ctx, &booking.Show{VenueID: 99, ArtistID: a.ID}); !errors.Is(err, repositories.ErrConflict) {
		t.Fatalf("expected ErrConflict for unknown venue, got %v", err)
	}

	later := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = s.Shows().Save(ctx, &booking.Show{VenueID: v.ID, ArtistID: a.ID, StartTime: later})
	_ = s.Shows().Save(ctx, &booking.Show{VenueID: v.ID, ArtistID: a.ID, StartTime: earlier})

	shows, _ := s.Shows().FindAll(ctx, repositories.ShowFilter{ArtistID: &a.ID})
	if len(shows) != 2 || !shows[0].StartTime.Equal(earlier) {
		t.Fatalf("shows not ordered by start time: %+v", shows)
	}
	if shows[0].VenueName != "Hall" || shows[0].ArtistName != "Band" {
		t.Fatalf("listing not joined: %+v", shows[0])
	}

	if err := s.Venues().Delete(ctx, v.ID); !errors.Is(err, repositories.ErrConflict) {
		t.Fatalf("expected ErrConflict deleting booked venue, got %v", err)
	}
	if err := s.Artists().Delete(ctx, a.ID); !errors.Is(err, repositories.ErrConflict) {
		t.Fatalf("expected ErrConflict deleting booked artist, got %v", err)
	}
}

func TestOverlappingTransactionsKeepBothCommits(t *testing.T) {
	ctx := context.Background()
	s := New()

	tx1, err := s.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	q := &trivia.Question{Question: "q", Answer: "a", Category: 1, Difficulty: 1}
	if err := tx1.QuestionRepository().Save(ctx, q); err != nil {
		t.Fatal(err)
	}

	second := make(chan error, 1)
	go func() {
		tx2, err := s.Begin(ctx)
		if err != nil {
			second <- err
			return
		}
		defer tx2.Rollback(ctx)
		if err := tx2.DrinkRepository().Save(ctx, &drink.Drink{Title: "tea"}); err != nil {
			second <- err
			return
		}
		second <- tx2.Commit(ctx)
	}()

	select {
	case err := <-second:
		t.Fatalf("second transaction finished while the first was open: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	if err := tx1.Commit(ctx); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-second:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second transaction never started")
	}

	if _, err := s.Questions().FindByID(ctx, q.ID); err != nil {
		t.Fatalf("question from first commit lost: %v", err)
	}
	if n, _ := s.Drinks().CountByTitle(ctx, "tea"); n != 1 {
		t.Fatalf("drink from second commit missing, count %d", n)
	}
}

func TestOverlappingDuplicateTitleConflicts(t *testing.T) {
	ctx := context.Background()
	s := New()

	tx1, _ := s.Begin(ctx)
	first := &drink.Drink{Title: "a"}
	if err := tx1.DrinkRepository().Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := make(chan error, 1)
	go func() {
		tx2, err := s.Begin(ctx)
		if err != nil {
			second <- err
			return
		}
		defer tx2.Rollback(ctx)
		if err := tx2.DrinkRepository().Save(ctx, &drink.Drink{Title: "a"}); err != nil {
			second <- err
			return
		}
		second <- tx2.Commit(ctx)
	}()

	if err := tx1.Commit(ctx); err != nil {
		t.Fatal(err)
	}
	if err := <-second; !errors.Is(err, repositories.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate title, got %v", err)
	}
	drinks, _ := s.Drinks().FindAll(ctx)
	if len(drinks) != 1 || drinks[0].ID != first.ID {
		t.Fatalf("expected only the first drink, got %+v", drinks)
	}
}

func TestStoreWriteWaitsForOpenTransaction(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx, _ := s.Begin(ctx)

	wrote := make(chan error, 1)
	go func() { wrote <- s.Drinks().Save(ctx, &drink.Drink{Title: "mocha"}) }()

	if err := tx.DrinkRepository().Save(ctx, &drink.Drink{Title: "latte"}); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatal(err)
	}
	if err := <-wrote; err != nil {
		t.Fatal(err)
	}
	drinks, _ := s.Drinks().FindAll(ctx)
	if len(drinks) != 2 || drinks[0].ID == drinks[1].ID {
		t.Fatalf("expected two drinks with distinct ids, got %+v", drinks)
	}
}

func TestBeginHonorsContextWhileWaiting(t *testing.T) {
	s := New()
	tx, _ := s.Begin(context.Background())
	defer tx.Rollback(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.Begin(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
