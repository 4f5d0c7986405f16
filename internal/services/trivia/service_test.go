package trivia

import (
	"context"
	"strings"
	"testing"

	"fullstack/internal/apperr"
	"fullstack/internal/store/memory"
	"fullstack/internal/store/repositories"
	"fullstack/internal/testutil"
)

func first(n int) int { return 0 }

func TestListQuestionsPaging(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	testutil.SeedQuestions(t, store, 19, 1)
	svc := NewService(store, nil, first)

	page, err := svc.ListQuestions(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 10 || page.Total != 19 {
		t.Fatalf("page 1 = %d/%d, want 10/19", page.Count, page.Total)
	}

	page, err = svc.ListQuestions(ctx, 2)
	if err != nil || page.Count != 9 {
		t.Fatalf("page 2 = %d, %v", page.Count, err)
	}

	_, err = svc.ListQuestions(ctx, 99)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("page 99: expected NotFound, got %v", err)
	}
}

func TestQuestionsByCategory(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	testutil.SeedQuestions(t, store, 3, 2)
	testutil.SeedQuestions(t, store, 4, 3)
	svc := NewService(store, nil, first)

	_, _, err := svc.QuestionsByCategory(ctx, 1000, 1)
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected BadRequest for missing category, got %v", err)
	}

	cat, page, err := svc.QuestionsByCategory(ctx, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if cat.Type != "Geography" || page.Count != 4 {
		t.Fatalf("category 3 = %s with %d questions", cat.Type, page.Count)
	}
	for _, q := range page.Items {
		if q.Category != 3 {
			t.Fatalf("question %d in category %d", q.ID, q.Category)
		}
	}

	_, page, err = svc.QuestionsByCategory(ctx, 3, 5)
	if err != nil {
		t.Fatalf("page past the end must succeed, got %v", err)
	}
	if page.Count != 0 || len(page.Items) != 0 {
		t.Fatalf("expected empty page, got %d", page.Count)
	}
}

func TestSearchQuestions(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	testutil.SeedQuestions(t, store, 12, 1)
	svc := NewService(store, nil, first)

	page, err := svc.SearchQuestions(ctx, "QUESTION 1", 1)
	if err != nil {
		t.Fatal(err)
	}
	// "Question 1", "Question 10", "Question 11", "Question 12"
	if page.Total != 4 {
		t.Fatalf("expected 4 matches, got %d", page.Total)
	}
	for _, q := range page.Items {
		if !strings.Contains(strings.ToLower(q.Question), "question 1") {
			t.Fatalf("unexpected match %q", q.Question)
		}
	}

	page, err = svc.SearchQuestions(ctx, "no such text", 1)
	if err != nil || page.Total != 0 {
		t.Fatalf("zero matches must succeed: %d, %v", page.Total, err)
	}
}

func TestCreateQuestion(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store, nil, first)

	id, err := svc.CreateQuestion(ctx, "Q?", "A", 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	q, err := store.Questions().FindByID(ctx, id)
	if err != nil || q.Category != 4 {
		t.Fatalf("created question = %+v, %v", q, err)
	}

	if _, err := svc.CreateQuestion(ctx, "Q?", "A", 2, 77); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected BadRequest for unknown category, got %v", err)
	}
	if n := countQuestions(t, store); n != 1 {
		t.Fatalf("expected 1 question, got %d", n)
	}
}

func TestDeleteQuestion(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	qs := testutil.SeedQuestions(t, store, 2, 1)
	svc := NewService(store, nil, first)

	if err := svc.DeleteQuestion(ctx, 999); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if n := countQuestions(t, store); n != 2 {
		t.Fatalf("store changed after failed delete: %d", n)
	}

	if err := svc.DeleteQuestion(ctx, qs[0].ID); err != nil {
		t.Fatal(err)
	}
	if n := countQuestions(t, store); n != 1 {
		t.Fatalf("expected 1 question left, got %d", n)
	}
}

func TestNextQuizQuestion(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	science := testutil.SeedQuestions(t, store, 2, 1)
	art := testutil.SeedQuestions(t, store, 2, 2)
	svc := NewService(store, nil, first)

	q, ok, err := svc.NextQuizQuestion(ctx, []int64{art[0].ID}, 2)
	if err != nil || !ok {
		t.Fatalf("expected a question, got %v %v", ok, err)
	}
	if q.ID != art[1].ID {
		t.Fatalf("picked %d, want %d", q.ID, art[1].ID)
	}

	// all categories
	q, ok, _ = svc.NextQuizQuestion(ctx, []int64{science[0].ID}, 0)
	if !ok || q.ID != science[1].ID {
		t.Fatalf("picked %+v", q)
	}

	// unknown category falls back to the whole pool
	q, ok, err = svc.NextQuizQuestion(ctx, nil, 42)
	if err != nil || !ok || q.ID != science[0].ID {
		t.Fatalf("fallback pick = %+v %v %v", q, ok, err)
	}

	_, ok, err = svc.NextQuizQuestion(ctx, []int64{art[0].ID, art[1].ID}, 2)
	if err != nil || ok {
		t.Fatalf("exhausted pool: ok=%v err=%v", ok, err)
	}
}

func TestNextQuizQuestionEmptyStore(t *testing.T) {
	svc := NewService(memory.New(), nil, nil)
	q, ok, err := svc.NextQuizQuestion(context.Background(), nil, 0)
	if err != nil || ok || q != nil {
		t.Fatalf("empty pool = %+v %v %v", q, ok, err)
	}
}

func TestCategoriesWithoutCache(t *testing.T) {
	svc := NewService(memory.New(), nil, nil)
	cats, err := svc.Categories(context.Background())
	if err != nil || len(cats) != 6 {
		t.Fatalf("categories = %d, %v", len(cats), err)
	}
}

func countQuestions(t *testing.T, store *memory.Store) int {
	t.Helper()
	qs, err := store.Questions().FindAll(context.Background(), repositories.QuestionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	return len(qs)
}
