// Package listing filters, orders and paginates record collections.
//
// The same rules back every listing endpoint: an optional case-insensitive
// search term, an optional group filter, and a fixed page size. What an
// empty page means is decided by the caller.
package listing

import (
	"math/rand/v2"
	"sort"
)

// PageSize is the number of records returned per page.
const PageSize = 10

// Criteria selects records for a listing. The zero value is not valid; use
// NewCriteria.
type Criteria struct {
	Search *string
	Group  *int64
	Page   int
}

// NewCriteria returns criteria for the given 1-based page with no filters.
func NewCriteria(page int) Criteria {
	return Criteria{Page: page}
}

// WithSearch returns a copy of c filtered by term.
func (c Criteria) WithSearch(term string) Criteria {
	c.Search = &term
	return c
}

// WithGroup returns a copy of c restricted to group id.
func (c Criteria) WithGroup(id int64) Criteria {
	c.Group = &id
	return c
}

// Page is one window of a filtered collection.
type Page[T any] struct {
	Items []T
	Count int
	// Total counts every record matching the criteria, regardless of page.
	Total int
}

// Fields exposes the record attributes the engine reads.
// Text and Group may be nil when a collection has no such attribute.
type Fields[T any] struct {
	ID    func(T) int64
	Text  func(T) string
	Group func(T) int64
}

// List applies c to all and returns the requested page.
// all is not modified.
func List[T any](c Criteria, all []T, f Fields[T]) Page[T] {
	matched := filter(ordered(all, f), func(r T) bool {
		if c.Search != nil && (f.Text == nil || !Contains(f.Text(r), *c.Search)) {
			return false
		}
		if c.Group != nil && (f.Group == nil || f.Group(r) != *c.Group) {
			return false
		}
		return true
	})

	items := window(matched, c.Page)
	return Page[T]{Items: items, Count: len(items), Total: len(matched)}
}

// Chooser returns an index in [0, n). n is always positive.
type Chooser func(n int) int

// RandomChooser picks uniformly using a non-cryptographic source.
func RandomChooser() Chooser {
	return rand.IntN
}

// PickRandomUnseen chooses one record from pool whose id is not in
// excluded. group restricts the pool when non-nil; callers pass nil when the
// requested group does not exist so the pick falls back to the whole pool.
// The second result is false when nothing is left to choose from.
func PickRandomUnseen[T any](pool []T, excluded []int64, group *int64, f Fields[T], choose Chooser) (T, bool) {
	seen := make(map[int64]struct{}, len(excluded))
	for _, id := range excluded {
		seen[id] = struct{}{}
	}

	candidates := filter(ordered(pool, f), func(r T) bool {
		if _, ok := seen[f.ID(r)]; ok {
			return false
		}
		if group != nil && (f.Group == nil || f.Group(r) != *group) {
			return false
		}
		return true
	})

	var zero T
	if len(candidates) == 0 {
		return zero, false
	}
	if choose == nil {
		choose = RandomChooser()
	}
	i := choose(len(candidates))
	if i < 0 || i >= len(candidates) {
		return zero, false
	}
	return candidates[i], true
}

func ordered[T any](all []T, f Fields[T]) []T {
	out := make([]T, len(all))
	copy(out, all)
	sort.SliceStable(out, func(i, j int) bool { return f.ID(out[i]) < f.ID(out[j]) })
	return out
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, r := range in {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func window[T any](in []T, page int) []T {
	// Reject far pages before multiplying: (page-1)*PageSize overflows
	// for large page values and could wrap to a valid offset.
	if page < 1 || page-1 > len(in)/PageSize {
		return []T{}
	}
	start := (page - 1) * PageSize
	if start >= len(in) {
		return []T{}
	}
	end := start + PageSize
	if end > len(in) {
		end = len(in)
	}
	return in[start:end]
}
