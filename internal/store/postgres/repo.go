package postgres

import (
	"context"
	"errors"
	"fmt"

	"fullstack/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so each repository
// works inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ repositories.Store = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
	repositories.UnitOfWork
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db, UnitOfWork: NewUnitOfWork(db)}
}

// Ping checks that the pool can reach the database.
func (r *Repo) Ping(ctx context.Context) error { return r.db.Ping(ctx) }

func (r *Repo) Categories() repositories.CategoryRepository {
	return &categoryRepository{db: r.db}
}

func (r *Repo) Questions() repositories.QuestionRepository {
	return &questionRepository{db: r.db}
}

func (r *Repo) Drinks() repositories.DrinkRepository {
	return &drinkRepository{db: r.db}
}

func (r *Repo) Venues() repositories.VenueRepository {
	return &venueRepository{db: r.db}
}

func (r *Repo) Artists() repositories.ArtistRepository {
	return &artistRepository{db: r.db}
}

func (r *Repo) Shows() repositories.ShowRepository {
	return &showRepository{db: r.db}
}

func (r *Repo) Close() { r.db.Close() }

// Postgres error codes mapped to ErrConflict.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// mapErr translates driver errors into repository errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repositories.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation, codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", repositories.ErrConflict, pgErr.ConstraintName)
		}
	}
	return err
}

// execOne runs a write that must touch exactly one row.
func execOne(ctx context.Context, db querier, sql string, args ...any) error {
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
