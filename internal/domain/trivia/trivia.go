package trivia

import "fmt"

// Category groups questions.
type Category struct {
	ID   int64
	Type string
}

// Question is a trivia question with its answer.
type Question struct {
	ID         int64
	Question   string
	Answer     string
	Category   int64
	Difficulty int
}

// NewQuestion builds a question ready for insertion. Text fields may be
// empty; presence is checked at the request layer.
func NewQuestion(question, answer string, difficulty int, category int64) (*Question, error) {
	if category <= 0 {
		return nil, fmt.Errorf("invalid category ID: %d", category)
	}
	return &Question{
		Question:   question,
		Answer:     answer,
		Category:   category,
		Difficulty: difficulty,
	}, nil
}

// CategoryMap indexes category types by id.
func CategoryMap(cats []*Category) map[int64]string {
	m := make(map[int64]string, len(cats))
	for _, c := range cats {
		m[c.ID] = c.Type
	}
	return m
}
