package coffee

import (
	"context"
	"errors"
	"fmt"

	"fullstack/internal/apperr"
	"fullstack/internal/domain/drink"
	"fullstack/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

var ErrDuplicateTitle = errors.New("drink title already exists")

// DrinkInput is a create or update request. A nil Title or an empty Recipe
// means the field was not supplied.
type DrinkInput struct {
	Title  *string
	Recipe []byte
}

func (in DrinkInput) parse(op string) (*drink.Drink, error) {
	if in.Title == nil {
		return nil, apperr.BadRequest(op, "title is required")
	}
	recipe, err := drink.ParseRecipe(in.Recipe)
	if err != nil {
		return nil, apperr.BadRequest(op, err.Error())
	}
	d, err := drink.New(*in.Title, recipe)
	if err != nil {
		return nil, apperr.BadRequest(op, err.Error())
	}
	return d, nil
}

// Service handles the drink menu
type Service struct {
	store repositories.Store
}

func NewService(store repositories.Store) *Service {
	return &Service{store: store}
}

// Drinks returns the whole menu ordered by id
func (s *Service) Drinks(ctx context.Context) ([]*drink.Drink, error) {
	drinks, err := s.store.Drinks().FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("coffee.drinks", err)
	}
	return drinks, nil
}

// CreateDrink adds a drink. Titles are unique.
func (s *Service) CreateDrink(ctx context.Context, in DrinkInput) (*drink.Drink, error) {
	const op = "coffee.create_drink"

	d, err := in.parse(op)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	defer tx.Rollback(ctx)

	repo := tx.DrinkRepository()
	n, err := repo.CountByTitle(ctx, d.Title)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	if n > 0 {
		return nil, apperr.Unprocessable(op, fmt.Errorf("%w: %q", ErrDuplicateTitle, d.Title))
	}
	if err := repo.Save(ctx, d); err != nil {
		return nil, apperr.Unprocessable(op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Unprocessable(op, err)
	}

	log.Info().Int64("drink_id", d.ID).Str("title", d.Title).Msg("drink created")
	return d, nil
}

// UpdateDrink replaces the title and recipe of an existing drink. A missing
// drink is reported before a malformed input.
func (s *Service) UpdateDrink(ctx context.Context, id int64, in DrinkInput) (*drink.Drink, error) {
	const op = "coffee.update_drink"

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	defer tx.Rollback(ctx)

	repo := tx.DrinkRepository()
	existing, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound(op, "drink does not exist")
		}
		return nil, apperr.Internal(op, err)
	}

	d, err := in.parse(op)
	if err != nil {
		return nil, err
	}
	existing.Title, existing.Recipe = d.Title, d.Recipe

	if err := repo.Save(ctx, existing); err != nil {
		return nil, apperr.Unprocessable(op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Unprocessable(op, err)
	}

	log.Info().Int64("drink_id", id).Msg("drink updated")
	return existing, nil
}

// DeleteDrink removes a drink by id
func (s *Service) DeleteDrink(ctx context.Context, id int64) error {
	const op = "coffee.delete_drink"

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return apperr.Internal(op, err)
	}
	defer tx.Rollback(ctx)

	repo := tx.DrinkRepository()
	if _, err := repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(op, "drink does not exist")
		}
		return apperr.Internal(op, err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		return apperr.Unprocessable(op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Unprocessable(op, err)
	}

	log.Info().Int64("drink_id", id).Msg("drink deleted")
	return nil
}
