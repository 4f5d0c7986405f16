package repositories

import (
	"context"
	"errors"

	"fullstack/internal/domain/booking"
	"fullstack/internal/domain/drink"
	"fullstack/internal/domain/trivia"
)

var (
	// ErrNotFound is returned when a lookup or delete matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness or
	// reference constraint.
	ErrConflict = errors.New("record conflicts with existing data")
)

// QuestionFilter narrows question queries. Nil fields do not filter.
type QuestionFilter struct {
	Category *int64
}

// ShowFilter narrows show queries. Nil fields do not filter.
type ShowFilter struct {
	VenueID  *int64
	ArtistID *int64
}

// CategoryRepository defines the contract for trivia category data access
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]*trivia.Category, error)
	FindByID(ctx context.Context, id int64) (*trivia.Category, error)
}

// QuestionRepository defines the contract for trivia question data access
type QuestionRepository interface {
	Save(ctx context.Context, q *trivia.Question) error
	FindByID(ctx context.Context, id int64) (*trivia.Question, error)
	FindAll(ctx context.Context, filter QuestionFilter) ([]*trivia.Question, error)
	Delete(ctx context.Context, id int64) error
}

// DrinkRepository defines the contract for drink data access
type DrinkRepository interface {
	Save(ctx context.Context, d *drink.Drink) error
	FindByID(ctx context.Context, id int64) (*drink.Drink, error)
	FindAll(ctx context.Context) ([]*drink.Drink, error)
	CountByTitle(ctx context.Context, title string) (int, error)
	Delete(ctx context.Context, id int64) error
}

// VenueRepository defines the contract for venue data access
type VenueRepository interface {
	Save(ctx context.Context, v *booking.Venue) error
	FindByID(ctx context.Context, id int64) (*booking.Venue, error)
	FindAll(ctx context.Context) ([]*booking.Venue, error)
	Delete(ctx context.Context, id int64) error
}

// ArtistRepository defines the contract for artist data access
type ArtistRepository interface {
	Save(ctx context.Context, a *booking.Artist) error
	FindByID(ctx context.Context, id int64) (*booking.Artist, error)
	FindAll(ctx context.Context) ([]*booking.Artist, error)
	Delete(ctx context.Context, id int64) error
}

// ShowRepository defines the contract for show data access. Listings are
// joined with venue and artist names and ordered by start time.
type ShowRepository interface {
	Save(ctx context.Context, s *booking.Show) error
	FindAll(ctx context.Context, filter ShowFilter) ([]booking.ShowListing, error)
}

// UnitOfWork defines transactional operations
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction defines a database transaction. Rollback after Commit is a
// no-op so callers can always defer it.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	CategoryRepository() CategoryRepository
	QuestionRepository() QuestionRepository
	DrinkRepository() DrinkRepository
	VenueRepository() VenueRepository
	ArtistRepository() ArtistRepository
	ShowRepository() ShowRepository
}

// Store bundles read repositories with the unit of work used for writes.
type Store interface {
	UnitOfWork
	Categories() CategoryRepository
	Questions() QuestionRepository
	Drinks() DrinkRepository
	Venues() VenueRepository
	Artists() ArtistRepository
	Shows() ShowRepository
	Ping(ctx context.Context) error
	Close()
}
