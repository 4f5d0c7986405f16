package postgres

import (
	"context"

	"fullstack/internal/domain/drink"

	"github.com/jackc/pgx/v5"
)

// drinkRepository implements DrinkRepository interface. Recipes are stored
// as a JSON document in a text column.
type drinkRepository struct {
	db querier
}

// Save saves a drink (insert or update)
func (r *drinkRepository) Save(ctx context.Context, d *drink.Drink) error {
	recipe, err := drink.EncodeRecipe(d.Recipe)
	if err != nil {
		return err
	}
	if d.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO drinks (title, recipe)
			VALUES ($1, $2)
			RETURNING id`, d.Title, recipe).Scan(&d.ID)
		return mapErr(err)
	}
	return execOne(ctx, r.db, `
		UPDATE drinks SET title = $1, recipe = $2 WHERE id = $3`,
		d.Title, recipe, d.ID)
}

// FindByID finds a drink by ID
func (r *drinkRepository) FindByID(ctx context.Context, id int64) (*drink.Drink, error) {
	row := r.db.QueryRow(ctx, `SELECT id, title, recipe FROM drinks WHERE id = $1`, id)
	d, err := scanDrink(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return d, nil
}

// FindAll returns every drink ordered by id
func (r *drinkRepository) FindAll(ctx context.Context) ([]*drink.Drink, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, recipe FROM drinks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drinks := []*drink.Drink{}
	for rows.Next() {
		d, err := scanDrink(rows)
		if err != nil {
			return nil, err
		}
		drinks = append(drinks, d)
	}
	return drinks, rows.Err()
}

func (r *drinkRepository) CountByTitle(ctx context.Context, title string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM drinks WHERE title = $1`, title).Scan(&n)
	return n, err
}

// Delete removes a drink, ErrNotFound when no row matched
func (r *drinkRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM drinks WHERE id = $1`, id)
}

func scanDrink(row pgx.Row) (*drink.Drink, error) {
	var (
		d      drink.Drink
		recipe string
	)
	if err := row.Scan(&d.ID, &d.Title, &recipe); err != nil {
		return nil, err
	}
	ingredients, err := drink.DecodeRecipe(recipe)
	if err != nil {
		return nil, err
	}
	d.Recipe = ingredients
	return &d, nil
}
