package postgres

import (
	"context"
	"errors"

	"fullstack/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// unitOfWork implements UnitOfWork interface
type unitOfWork struct {
	db *pgxpool.Pool
}

// NewUnitOfWork creates a new unit of work
func NewUnitOfWork(db *pgxpool.Pool) repositories.UnitOfWork {
	return &unitOfWork{db: db}
}

// Begin starts a new transaction
func (uow *unitOfWork) Begin(ctx context.Context) (repositories.Transaction, error) {
	tx, err := uow.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	return &transaction{tx: tx}, nil
}

// transaction implements Transaction interface
type transaction struct {
	tx pgx.Tx
}

// Commit commits the transaction
func (t *transaction) Commit(ctx context.Context) error {
	return mapErr(t.tx.Commit(ctx))
}

// Rollback rolls back the transaction
func (t *transaction) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (t *transaction) CategoryRepository() repositories.CategoryRepository {
	return &categoryRepository{db: t.tx}
}

func (t *transaction) QuestionRepository() repositories.QuestionRepository {
	return &questionRepository{db: t.tx}
}

func (t *transaction) DrinkRepository() repositories.DrinkRepository {
	return &drinkRepository{db: t.tx}
}

func (t *transaction) VenueRepository() repositories.VenueRepository {
	return &venueRepository{db: t.tx}
}

func (t *transaction) ArtistRepository() repositories.ArtistRepository {
	return &artistRepository{db: t.tx}
}

func (t *transaction) ShowRepository() repositories.ShowRepository {
	return &showRepository{db: t.tx}
}
