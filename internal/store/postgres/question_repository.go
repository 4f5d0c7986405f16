package postgres

import (
	"context"

	"fullstack/internal/domain/trivia"
	"fullstack/internal/store/repositories"

	"github.com/jackc/pgx/v5"
)

// questionRepository implements QuestionRepository interface
type questionRepository struct {
	db querier
}

// Save saves a question (insert or update)
func (r *questionRepository) Save(ctx context.Context, q *trivia.Question) error {
	if q.ID == 0 {
		return r.insert(ctx, q)
	}
	return r.update(ctx, q)
}

// FindByID finds a question by ID
func (r *questionRepository) FindByID(ctx context.Context, id int64) (*trivia.Question, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, question, answer, category, difficulty
		FROM questions
		WHERE id = $1`, id)

	q, err := scanQuestion(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return q, nil
}

// FindAll returns questions ordered by id; a nil category matches all.
func (r *questionRepository) FindAll(ctx context.Context, filter repositories.QuestionFilter) ([]*trivia.Question, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, question, answer, category, difficulty
		FROM questions
		WHERE ($1::bigint IS NULL OR category = $1)
		ORDER BY id`, filter.Category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []*trivia.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Delete removes a question, ErrNotFound when no row matched
func (r *questionRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM questions WHERE id = $1`, id)
}

// insert creates a new question record
func (r *questionRepository) insert(ctx context.Context, q *trivia.Question) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO questions (question, answer, category, difficulty)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		q.Question, q.Answer, q.Category, q.Difficulty).Scan(&q.ID)
	return mapErr(err)
}

// update modifies an existing question record
func (r *questionRepository) update(ctx context.Context, q *trivia.Question) error {
	return execOne(ctx, r.db, `
		UPDATE questions
		SET question = $1, answer = $2, category = $3, difficulty = $4
		WHERE id = $5`,
		q.Question, q.Answer, q.Category, q.Difficulty, q.ID)
}

func scanQuestion(row pgx.Row) (*trivia.Question, error) {
	var q trivia.Question
	if err := row.Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty); err != nil {
		return nil, err
	}
	return &q, nil
}
