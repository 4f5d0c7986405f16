// Package memory is a process-local implementation of the repositories
// interfaces. It enforces the same uniqueness and reference rules as the
// postgres schema and is used for tests and DB_DRIVER=memory.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"fullstack/internal/domain/booking"
	"fullstack/internal/domain/drink"
	"fullstack/internal/domain/trivia"
	"fullstack/internal/store/repositories"
)

var _ repositories.Store = (*Store)(nil)

// Categories seeded into every new store, matching the postgres seed.
var DefaultCategories = []trivia.Category{
	{ID: 1, Type: "Science"},
	{ID: 2, Type: "Art"},
	{ID: 3, Type: "Geography"},
	{ID: 4, Type: "History"},
	{ID: 5, Type: "Entertainment"},
	{ID: 6, Type: "Sports"},
}

type tables struct {
	categories map[int64]trivia.Category
	questions  map[int64]trivia.Question
	drinks     map[int64]drink.Drink
	venues     map[int64]booking.Venue
	artists    map[int64]booking.Artist
	shows      map[int64]booking.Show
	seq        map[string]int64
}

func newTables() *tables {
	t := &tables{
		categories: map[int64]trivia.Category{},
		questions:  map[int64]trivia.Question{},
		drinks:     map[int64]drink.Drink{},
		venues:     map[int64]booking.Venue{},
		artists:    map[int64]booking.Artist{},
		shows:      map[int64]booking.Show{},
		seq:        map[string]int64{},
	}
	for _, c := range DefaultCategories {
		t.categories[c.ID] = c
	}
	t.seq["categories"] = int64(len(DefaultCategories))
	return t
}

func (t *tables) next(table string) int64 {
	t.seq[table]++
	return t.seq[table]
}

// clone copies every table. Slice fields are copied on write, so sharing
// them between snapshots is safe.
func (t *tables) clone() *tables {
	c := &tables{
		categories: cloneMap(t.categories),
		questions:  cloneMap(t.questions),
		drinks:     cloneMap(t.drinks),
		venues:     cloneMap(t.venues),
		artists:    cloneMap(t.artists),
		shows:      cloneMap(t.shows),
		seq:        cloneMap(t.seq),
	}
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// db is a lockable set of tables. The store and each open transaction
// hold their own. The store's db also carries the transaction gate, so
// its writes wait while a transaction is open.
type db struct {
	mu   sync.RWMutex
	t    *tables
	gate chan struct{}
}

func (d *db) read(fn func(t *tables)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.t)
}

func (d *db) write(fn func(t *tables) error) error {
	if d.gate != nil {
		d.gate <- struct{}{}
		defer func() { <-d.gate }()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.t)
}

// Store is safe for concurrent use. Transactions are serialized: Begin
// waits until no other transaction is open, works on a snapshot and
// publishes it on commit. Store-level writes wait for the open transaction
// too, so a goroutine must not write through the store while it holds one.
type Store struct {
	db *db
}

func New() *Store {
	return &Store{db: &db{t: newTables(), gate: make(chan struct{}, 1)}}
}

func (s *Store) Begin(ctx context.Context) (repositories.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case s.db.gate <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var snap *tables
	s.db.read(func(t *tables) { snap = t.clone() })
	return &transaction{store: s, db: &db{t: snap}}, nil
}

func (s *Store) Categories() repositories.CategoryRepository { return &categoryRepository{s.db} }
func (s *Store) Questions() repositories.QuestionRepository  { return &questionRepository{s.db} }
func (s *Store) Drinks() repositories.DrinkRepository        { return &drinkRepository{s.db} }
func (s *Store) Venues() repositories.VenueRepository        { return &venueRepository{s.db} }
func (s *Store) Artists() repositories.ArtistRepository      { return &artistRepository{s.db} }
func (s *Store) Shows() repositories.ShowRepository          { return &showRepository{s.db} }
func (s *Store) Ping(ctx context.Context) error              { return ctx.Err() }
func (s *Store) Close()                                      {}

type transaction struct {
	store *Store
	db    *db
	done  bool
}

func (tx *transaction) Commit(ctx context.Context) error {
	if tx.done {
		return nil
	}
	tx.db.mu.Lock()
	snap := tx.db.t
	tx.db.mu.Unlock()

	live := tx.store.db
	live.mu.Lock()
	*live.t = *snap
	live.mu.Unlock()
	tx.release()
	return nil
}

func (tx *transaction) Rollback(ctx context.Context) error {
	if !tx.done {
		tx.release()
	}
	return nil
}

func (tx *transaction) release() {
	tx.done = true
	<-tx.store.db.gate
}

func (tx *transaction) CategoryRepository() repositories.CategoryRepository {
	return &categoryRepository{tx.db}
}
func (tx *transaction) QuestionRepository() repositories.QuestionRepository {
	return &questionRepository{tx.db}
}
func (tx *transaction) DrinkRepository() repositories.DrinkRepository { return &drinkRepository{tx.db} }
func (tx *transaction) VenueRepository() repositories.VenueRepository { return &venueRepository{tx.db} }
func (tx *transaction) ArtistRepository() repositories.ArtistRepository {
	return &artistRepository{tx.db}
}
func (tx *transaction) ShowRepository() repositories.ShowRepository { return &showRepository{tx.db} }

type categoryRepository struct{ db *db }

func (r *categoryRepository) FindAll(ctx context.Context) ([]*trivia.Category, error) {
	var out []*trivia.Category
	r.db.read(func(t *tables) {
		for _, id := range sortedIDs(t.categories) {
			c := t.categories[id]
			out = append(out, &c)
		}
	})
	return out, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*trivia.Category, error) {
	var (
		c  trivia.Category
		ok bool
	)
	r.db.read(func(t *tables) { c, ok = t.categories[id] })
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

type questionRepository struct{ db *db }

func (r *questionRepository) Save(ctx context.Context, q *trivia.Question) error {
	return r.db.write(func(t *tables) error {
		if _, ok := t.categories[q.Category]; !ok {
			return repositories.ErrConflict
		}
		if q.ID == 0 {
			q.ID = t.next("questions")
		} else if _, ok := t.questions[q.ID]; !ok {
			return repositories.ErrNotFound
		}
		t.questions[q.ID] = *q
		return nil
	})
}

func (r *questionRepository) FindByID(ctx context.Context, id int64) (*trivia.Question, error) {
	var (
		q  trivia.Question
		ok bool
	)
	r.db.read(func(t *tables) { q, ok = t.questions[id] })
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &q, nil
}

func (r *questionRepository) FindAll(ctx context.Context, filter repositories.QuestionFilter) ([]*trivia.Question, error) {
	out := []*trivia.Question{}
	r.db.read(func(t *tables) {
		for _, id := range sortedIDs(t.questions) {
			q := t.questions[id]
			if filter.Category != nil && q.Category != *filter.Category {
				continue
			}
			out = append(out, &q)
		}
	})
	return out, nil
}

func (r *questionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.write(func(t *tables) error {
		if _, ok := t.questions[id]; !ok {
			return repositories.ErrNotFound
		}
		delete(t.questions, id)
		return nil
	})
}

type drinkRepository struct{ db *db }

func (r *drinkRepository) Save(ctx context.Context, d *drink.Drink) error {
	return r.db.write(func(t *tables) error {
		if d.ID != 0 {
			if _, ok := t.drinks[d.ID]; !ok {
				return repositories.ErrNotFound
			}
		}
		for id, other := range t.drinks {
			if id != d.ID && other.Title == d.Title {
				return repositories.ErrConflict
			}
		}
		if d.ID == 0 {
			d.ID = t.next("drinks")
		}
		stored := *d
		stored.Recipe = slices.Clone(d.Recipe)
		t.drinks[d.ID] = stored
		return nil
	})
}

func (r *drinkRepository) FindByID(ctx context.Context, id int64) (*drink.Drink, error) {
	var (
		d  drink.Drink
		ok bool
	)
	r.db.read(func(t *tables) { d, ok = t.drinks[id] })
	if !ok {
		return nil, repositories.ErrNotFound
	}
	d.Recipe = slices.Clone(d.Recipe)
	return &d, nil
}

func (r *drinkRepository) FindAll(ctx context.Context) ([]*drink.Drink, error) {
	out := []*drink.Drink{}
	r.db.read(func(t *tables) {
		for _, id := range sortedIDs(t.drinks) {
			d := t.drinks[id]
			d.Recipe = slices.Clone(d.Recipe)
			out = append(out, &d)
		}
	})
	return out, nil
}

func (r *drinkRepository) CountByTitle(ctx context.Context, title string) (int, error) {
	n := 0
	r.db.read(func(t *tables) {
		for _, d := range t.drinks {
			if d.Title == title {
				n++
			}
		}
	})
	return n, nil
}

func (r *drinkRepository) Delete(ctx context.Context, id int64) error {
	return r.db.write(func(t *tables) error {
		if _, ok := t.drinks[id]; !ok {
			return repositories.ErrNotFound
		}
		delete(t.drinks, id)
		return nil
	})
}

type venueRepository struct{ db *db }

func (r *venueRepository) Save(ctx context.Context, v *booking.Venue) error {
	return r.db.write(func(t *tables) error {
		if v.ID == 0 {
			v.ID = t.next("venues")
		} else if _, ok := t.venues[v.ID]; !ok {
			return repositories.ErrNotFound
		}
		stored := *v
		stored.Genres = slices.Clone(v.Genres)
		t.venues[v.ID] = stored
		return nil
	})
}

func (r *venueRepository) FindByID(ctx context.Context, id int64) (*booking.Venue, error) {
	var (
		v  booking.Venue
		ok bool
	)
	r.db.read(func(t *tables) { v, ok = t.venues[id] })
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v.Genres = slices.Clone(v.Genres)
	return &v, nil
}

func (r *venueRepository) FindAll(ctx context.Context) ([]*booking.Venue, error) {
	out := []*booking.Venue{}
	r.db.read(func(t *tables) {
		for _, id := range sortedIDs(t.venues) {
			v := t.venues[id]
			v.Genres = slices.Clone(v.Genres)
			out = append(out, &v)
		}
	})
	return out, nil
}

func (r *venueRepository) Delete(ctx context.Context, id int64) error {
	return r.db.write(func(t *tables) error {
		if _, ok := t.venues[id]; !ok {
			return repositories.ErrNotFound
		}
		for _, s := range t.shows {
			if s.VenueID == id {
				return repositories.ErrConflict
			}
		}
		delete(t.venues, id)
		return nil
	})
}

type artistRepository struct{ db *db }

func (r *artistRepository) Save(ctx context.Context, a *booking.Artist) error {
	return r.db.write(func(t *tables) error {
		if a.ID == 0 {
			a.ID = t.next("artists")
		} else if _, ok := t.artists[a.ID]; !ok {
			return repositories.ErrNotFound
		}
		stored := *a
		stored.Genres = slices.Clone(a.Genres)
		t.artists[a.ID] = stored
		return nil
	})
}

func (r *artistRepository) FindByID(ctx context.Context, id int64) (*booking.Artist, error) {
	var (
		a  booking.Artist
		ok bool
	)
	r.db.read(func(t *tables) { a, ok = t.artists[id] })
	if !ok {
		return nil, repositories.ErrNotFound
	}
	a.Genres = slices.Clone(a.Genres)
	return &a, nil
}

func (r *artistRepository) FindAll(ctx context.Context) ([]*booking.Artist, error) {
	out := []*booking.Artist{}
	r.db.read(func(t *tables) {
		for _, id := range sortedIDs(t.artists) {
			a := t.artists[id]
			a.Genres = slices.Clone(a.Genres)
			out = append(out, &a)
		}
	})
	return out, nil
}

func (r *artistRepository) Delete(ctx context.Context, id int64) error {
	return r.db.write(func(t *tables) error {
		if _, ok := t.artists[id]; !ok {
			return repositories.ErrNotFound
		}
		for _, s := range t.shows {
			if s.ArtistID == id {
				return repositories.ErrConflict
			}
		}
		delete(t.artists, id)
		return nil
	})
}

type showRepository struct{ db *db }

func (r *showRepository) Save(ctx context.Context, s *booking.Show) error {
	return r.db.write(func(t *tables) error {
		if _, ok := t.venues[s.VenueID]; !ok {
			return repositories.ErrConflict
		}
		if _, ok := t.artists[s.ArtistID]; !ok {
			return repositories.ErrConflict
		}
		s.ID = t.next("shows")
		t.shows[s.ID] = *s
		return nil
	})
}

func (r *showRepository) FindAll(ctx context.Context, filter repositories.ShowFilter) ([]booking.ShowListing, error) {
	out := []booking.ShowListing{}
	r.db.read(func(t *tables) {
		for _, id := range sortedIDs(t.shows) {
			s := t.shows[id]
			if filter.VenueID != nil && s.VenueID != *filter.VenueID {
				continue
			}
			if filter.ArtistID != nil && s.ArtistID != *filter.ArtistID {
				continue
			}
			v, a := t.venues[s.VenueID], t.artists[s.ArtistID]
			out = append(out, booking.ShowListing{
				Show:            s,
				VenueName:       v.Name,
				VenueImageLink:  v.ImageLink,
				ArtistName:      a.Name,
				ArtistImageLink: a.ImageLink,
			})
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}
