package coffee

import (
	"context"
	"errors"
	"testing"

	"fullstack/internal/apperr"
	"fullstack/internal/store/memory"
	"fullstack/internal/testutil"
)

func title(s string) *string { return &s }

func TestCreateDrink(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store)

	d, err := svc.CreateDrink(ctx, DrinkInput{
		Title:  title("Flat White"),
		Recipe: []byte(`{"name":"milk","color":"white","parts":2}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.ID == 0 || len(d.Recipe) != 1 || d.Recipe[0].Parts != 2 {
		t.Fatalf("unexpected drink: %+v", d)
	}
}

func TestCreateDrinkValidation(t *testing.T) {
	svc := NewService(memory.New())
	cases := []struct {
		name string
		in   DrinkInput
	}{
		{"missing title", DrinkInput{Recipe: []byte(`[]`)}},
		{"missing recipe", DrinkInput{Title: title("x")}},
		{"null recipe", DrinkInput{Title: title("x"), Recipe: []byte(`null`)}},
		{"garbage recipe", DrinkInput{Title: title("x"), Recipe: []byte(`"water"`)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateDrink(context.Background(), tc.in)
			if !apperr.Is(err, apperr.KindBadRequest) {
				t.Fatalf("expected BadRequest, got %v", err)
			}
		})
	}
}

func TestCreateDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	existing := testutil.SeedDrink(t, store, testutil.UniqueTitle("mocha"))
	svc := NewService(store)

	before, _ := store.Drinks().FindAll(ctx)
	_, err := svc.CreateDrink(ctx, DrinkInput{Title: title(existing.Title), Recipe: []byte(`[]`)})
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected Unprocessable, got %v", err)
	}
	if !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle in chain, got %v", err)
	}
	after, _ := store.Drinks().FindAll(ctx)
	if len(before) != len(after) {
		t.Fatalf("drink count changed: %d -> %d", len(before), len(after))
	}
}

func TestUpdateDrink(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	d := testutil.SeedDrink(t, store, "latte")
	svc := NewService(store)

	// missing drink wins over a malformed body
	if _, err := svc.UpdateDrink(ctx, 999, DrinkInput{}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := svc.UpdateDrink(ctx, d.ID, DrinkInput{Title: title("new")}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
	got, _ := store.Drinks().FindByID(ctx, d.ID)
	if got.Title != "latte" {
		t.Fatalf("rejected update changed title to %q", got.Title)
	}

	updated, err := svc.UpdateDrink(ctx, d.ID, DrinkInput{
		Title:  title("iced latte"),
		Recipe: []byte(`[{"name":"ice","color":"clear","parts":1},{"name":"milk","color":"white","parts":3}]`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "iced latte" || len(updated.Recipe) != 2 {
		t.Fatalf("unexpected update: %+v", updated)
	}
}

func TestUpdateToTakenTitleIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	testutil.SeedDrink(t, store, "chai")
	d := testutil.SeedDrink(t, store, "matcha")
	svc := NewService(store)

	_, err := svc.UpdateDrink(ctx, d.ID, DrinkInput{Title: title("chai"), Recipe: []byte(`[]`)})
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected Unprocessable, got %v", err)
	}
	got, _ := store.Drinks().FindByID(ctx, d.ID)
	if got.Title != "matcha" || len(got.Recipe) != 1 {
		t.Fatalf("failed update partially applied: %+v", got)
	}
}

func TestDeleteDrink(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	d := testutil.SeedDrink(t, store, "americano")
	svc := NewService(store)

	if err := svc.DeleteDrink(ctx, d.ID+100); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if n, _ := store.Drinks().CountByTitle(ctx, "americano"); n != 1 {
		t.Fatal("failed delete changed the store")
	}
	if err := svc.DeleteDrink(ctx, d.ID); err != nil {
		t.Fatal(err)
	}
	drinks, _ := svc.Drinks(ctx)
	if len(drinks) != 0 {
		t.Fatalf("expected empty menu, got %d", len(drinks))
	}
}
