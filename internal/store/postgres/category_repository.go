package postgres

import (
	"context"

	"fullstack/internal/domain/trivia"

	"github.com/jackc/pgx/v5"
)

// categoryRepository implements CategoryRepository interface
type categoryRepository struct {
	db querier
}

// FindAll returns every category ordered by id
func (r *categoryRepository) FindAll(ctx context.Context) ([]*trivia.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*trivia.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// FindByID finds a category by ID
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*trivia.Category, error) {
	row := r.db.QueryRow(ctx, `SELECT id, type FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func scanCategory(row pgx.Row) (*trivia.Category, error) {
	var c trivia.Category
	if err := row.Scan(&c.ID, &c.Type); err != nil {
		return nil, err
	}
	return &c, nil
}
