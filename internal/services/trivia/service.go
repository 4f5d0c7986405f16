package trivia

import (
	"context"
	"errors"

	"fullstack/internal/apperr"
	"fullstack/internal/cache"
	"fullstack/internal/domain/trivia"
	"fullstack/internal/listing"
	"fullstack/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

var questionFields = listing.Fields[*trivia.Question]{
	ID:    func(q *trivia.Question) int64 { return q.ID },
	Text:  func(q *trivia.Question) string { return q.Question },
	Group: func(q *trivia.Question) int64 { return q.Category },
}

// Service handles trivia questions, categories and quiz play
type Service struct {
	store  repositories.Store
	cache  *cache.CategoryCache
	choose listing.Chooser
}

// NewService creates a trivia service. cats may be nil; a nil choose picks
// uniformly at random.
func NewService(store repositories.Store, cats *cache.CategoryCache, choose listing.Chooser) *Service {
	if choose == nil {
		choose = listing.RandomChooser()
	}
	return &Service{store: store, cache: cats, choose: choose}
}

// Categories returns every category ordered by id, served from the cache
// when possible.
func (s *Service) Categories(ctx context.Context) ([]*trivia.Category, error) {
	if cats, ok := s.cache.Get(ctx); ok {
		return cats, nil
	}
	cats, err := s.store.Categories().FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("trivia.categories", err)
	}
	s.cache.Set(ctx, cats)
	return cats, nil
}

// ListQuestions returns one page of all questions. An empty page is
// NotFound even when questions exist on earlier pages.
func (s *Service) ListQuestions(ctx context.Context, page int) (listing.Page[*trivia.Question], error) {
	const op = "trivia.list_questions"
	all, err := s.store.Questions().FindAll(ctx, repositories.QuestionFilter{})
	if err != nil {
		return listing.Page[*trivia.Question]{}, apperr.Internal(op, err)
	}
	res := listing.List(listing.NewCriteria(page), all, questionFields)
	if res.Count == 0 {
		return res, apperr.NotFound(op, "no questions on page")
	}
	return res, nil
}

// SearchQuestions pages through questions whose text contains term. It
// never fails for lack of matches.
func (s *Service) SearchQuestions(ctx context.Context, term string, page int) (listing.Page[*trivia.Question], error) {
	all, err := s.store.Questions().FindAll(ctx, repositories.QuestionFilter{})
	if err != nil {
		return listing.Page[*trivia.Question]{}, apperr.Internal("trivia.search_questions", err)
	}
	return listing.List(listing.NewCriteria(page).WithSearch(term), all, questionFields), nil
}

// QuestionsByCategory pages through one category. A missing category is a
// BadRequest; an empty page is not an error.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int64, page int) (*trivia.Category, listing.Page[*trivia.Question], error) {
	const op = "trivia.questions_by_category"
	var empty listing.Page[*trivia.Question]

	cat, err := s.store.Categories().FindByID(ctx, categoryID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, empty, apperr.BadRequest(op, "category does not exist")
	}
	if err != nil {
		return nil, empty, apperr.Internal(op, err)
	}

	all, err := s.store.Questions().FindAll(ctx, repositories.QuestionFilter{Category: &cat.ID})
	if err != nil {
		return nil, empty, apperr.Internal(op, err)
	}
	return cat, listing.List(listing.NewCriteria(page).WithGroup(cat.ID), all, questionFields), nil
}

// CreateQuestion stores a new question and returns its id.
func (s *Service) CreateQuestion(ctx context.Context, question, answer string, difficulty int, category int64) (int64, error) {
	const op = "trivia.create_question"

	q, err := trivia.NewQuestion(question, answer, difficulty, category)
	if err != nil {
		return 0, apperr.BadRequest(op, err.Error())
	}
	if _, err := s.store.Categories().FindByID(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, apperr.BadRequest(op, "category does not exist")
		}
		return 0, apperr.Internal(op, err)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return 0, apperr.Internal(op, err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QuestionRepository().Save(ctx, q); err != nil {
		return 0, apperr.Unprocessable(op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, apperr.Unprocessable(op, err)
	}

	log.Info().Int64("question_id", q.ID).Int64("category", q.Category).Msg("question created")
	return q.ID, nil
}

// DeleteQuestion removes a question by id.
func (s *Service) DeleteQuestion(ctx context.Context, id int64) error {
	const op = "trivia.delete_question"

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return apperr.Internal(op, err)
	}
	defer tx.Rollback(ctx)

	repo := tx.QuestionRepository()
	if _, err := repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(op, "question does not exist")
		}
		return apperr.Internal(op, err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		return apperr.Unprocessable(op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Unprocessable(op, err)
	}

	log.Info().Int64("question_id", id).Msg("question deleted")
	return nil
}

// NextQuizQuestion picks a question not in previous. categoryID 0 means
// any category, and an unknown category falls back to every question. The
// second result is false once the pool is exhausted.
func (s *Service) NextQuizQuestion(ctx context.Context, previous []int64, categoryID int64) (*trivia.Question, bool, error) {
	const op = "trivia.next_quiz_question"

	var group *int64
	if categoryID != 0 {
		_, err := s.store.Categories().FindByID(ctx, categoryID)
		switch {
		case err == nil:
			group = &categoryID
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, false, apperr.Internal(op, err)
		}
	}

	pool, err := s.store.Questions().FindAll(ctx, repositories.QuestionFilter{Category: group})
	if err != nil {
		return nil, false, apperr.Internal(op, err)
	}
	q, ok := listing.PickRandomUnseen(pool, previous, group, questionFields, s.choose)
	return q, ok, nil
}
