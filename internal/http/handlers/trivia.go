package handlers

import (
	"net/http"
	"strconv"

	"fullstack/internal/apperr"
	domain "fullstack/internal/domain/trivia"
	"fullstack/internal/listing"
	"fullstack/internal/services/trivia"

	"github.com/goccy/go-json"
)

type questionView struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

type categoryView struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

func toQuestionView(q *domain.Question) questionView {
	return questionView{
		ID:         q.ID,
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}

func questionViews(page listing.Page[*domain.Question]) []questionView {
	out := make([]questionView, 0, len(page.Items))
	for _, q := range page.Items {
		out = append(out, toQuestionView(q))
	}
	return out
}

// categoryIndex keys category types by the decimal id, the shape the
// frontend expects.
func categoryIndex(cats []*domain.Category) map[string]string {
	m := make(map[string]string, len(cats))
	for id, typ := range domain.CategoryMap(cats) {
		m[strconv.FormatInt(id, 10)] = typ
	}
	return m
}

type categoriesResponse struct {
	Success    bool              `json:"success"`
	Categories map[string]string `json:"categories"`
}

type questionsResponse struct {
	Success         bool              `json:"success"`
	Questions       []questionView    `json:"questions"`
	TotalQuestions  int               `json:"totalQuestions"`
	Categories      map[string]string `json:"categories"`
	CurrentCategory string            `json:"currentCategory"`
}

type searchQuestionsResponse struct {
	Success         bool           `json:"success"`
	Questions       []questionView `json:"questions"`
	TotalQuestions  int            `json:"totalQuestions"`
	CurrentCategory string         `json:"currentCategory"`
}

type categoryQuestionsResponse struct {
	Success         bool           `json:"success"`
	Questions       []questionView `json:"questions"`
	TotalQuestions  int            `json:"totalQuestions"`
	CurrentCategory categoryView   `json:"currentCategory"`
}

type deleteQuestionResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

type createQuestionResponse struct {
	Success bool  `json:"success"`
	Created int64 `json:"created"`
}

type quizResponse struct {
	Success  bool         `json:"success"`
	Question quizQuestion `json:"question"`
}

func ListCategories(svc *trivia.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := svc.Categories(r.Context())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, categoriesResponse{Success: true, Categories: categoryIndex(cats)})
	}
}

func ListQuestions(svc *trivia.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.ListQuestions(r.Context(), pageParam(r))
		if err != nil {
			WriteError(w, r, err)
			return
		}
		cats, err := svc.Categories(r.Context())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, questionsResponse{
			Success:        true,
			Questions:      questionViews(res),
			TotalQuestions: res.Total,
			Categories:     categoryIndex(cats),
		})
	}
}

func DeleteQuestion(svc *trivia.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "handlers.delete_question")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		if err := svc.DeleteQuestion(r.Context(), id); err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteQuestionResponse{Success: true, Deleted: id})
	}
}

// postQuestionRequest carries either a search or a new question.
type postQuestionRequest struct {
	SearchTerm *string  `json:"searchTerm"`
	Question   *string  `json:"question"`
	Answer     *string  `json:"answer"`
	Difficulty *flexInt `json:"difficulty"`
	Category   *flexInt `json:"category"`
}

type createQuestionRequest struct {
	Question   *string  `validate:"required"`
	Answer     *string  `validate:"required"`
	Difficulty *flexInt `validate:"required"`
	Category   *flexInt `validate:"required"`
}

// PostQuestions searches when searchTerm is given and creates a question
// otherwise.
func PostQuestions(svc *trivia.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.post_questions"

		var req postQuestionRequest
		if err := decodeJSON(r, op, &req); err != nil {
			WriteError(w, r, err)
			return
		}

		if req.SearchTerm != nil {
			res, err := svc.SearchQuestions(r.Context(), *req.SearchTerm, pageParam(r))
			if err != nil {
				WriteError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, searchQuestionsResponse{
				Success:        true,
				Questions:      questionViews(res),
				TotalQuestions: res.Total,
			})
			return
		}

		create := createQuestionRequest{
			Question:   req.Question,
			Answer:     req.Answer,
			Difficulty: req.Difficulty,
			Category:   req.Category,
		}
		if err := validatorInstance().Struct(create); err != nil {
			WriteError(w, r, apperr.BadRequest(op, err.Error()))
			return
		}

		id, err := svc.CreateQuestion(r.Context(),
			*create.Question, *create.Answer, int(*create.Difficulty), int64(*create.Category))
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, createQuestionResponse{Success: true, Created: id})
	}
}

func QuestionsByCategory(svc *trivia.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.questions_by_category"

		id, err := idParam(r, op)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		cat, res, err := svc.QuestionsByCategory(r.Context(), id, pageParam(r))
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, categoryQuestionsResponse{
			Success:         true,
			Questions:       questionViews(res),
			TotalQuestions:  len(res.Items),
			CurrentCategory: categoryView{ID: cat.ID, Type: cat.Type},
		})
	}
}

type quizRequest struct {
	PreviousQuestions []flexInt `json:"previous_questions" validate:"required"`
	QuizCategory      *struct {
		ID *flexInt `json:"id" validate:"required"`
	} `json:"quiz_category" validate:"required"`
}

// quizQuestion encodes as the question object, or "" when the pool is
// exhausted.
type quizQuestion struct {
	q *domain.Question
}

func (qq quizQuestion) MarshalJSON() ([]byte, error) {
	if qq.q == nil {
		return []byte(`""`), nil
	}
	return json.Marshal(toQuestionView(qq.q))
}

func NextQuizQuestion(svc *trivia.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quizRequest
		if err := decodeJSON(r, "handlers.next_quiz_question", &req); err != nil {
			WriteError(w, r, err)
			return
		}

		previous := make([]int64, 0, len(req.PreviousQuestions))
		for _, id := range req.PreviousQuestions {
			previous = append(previous, int64(id))
		}
		q, ok, err := svc.NextQuizQuestion(r.Context(), previous, int64(*req.QuizCategory.ID))
		if err != nil {
			WriteError(w, r, err)
			return
		}
		if !ok {
			q = nil
		}
		writeJSON(w, http.StatusOK, quizResponse{Success: true, Question: quizQuestion{q: q}})
	}
}
