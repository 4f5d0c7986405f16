// Package cache keeps the trivia category map in Redis. A nil
// *CategoryCache is valid and caches nothing.
package cache

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"time"

	"fullstack/internal/domain/trivia"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	categoriesKey = "trivia:categories"

	// consecutive Redis failures before the breaker opens
	breakerThreshold = 3
	breakerCooldown  = 30 * time.Second
)

type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker[map[string]string]
}

// NewCategoryCache wraps client. While Redis keeps failing the breaker opens
// and every call is a miss without touching the network.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	cb := gobreaker.NewCircuitBreaker[map[string]string](gobreaker.Settings{
		Name:        "category-cache",
		MaxRequests: 1,
		Timeout:     breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("cache circuit breaker state changed")
		},
	})
	return &CategoryCache{client: client, ttl: ttl, cb: cb}
}

// Dial connects to addr. An empty addr disables caching and returns nil.
func Dial(addr string, ttl time.Duration) *CategoryCache {
	if addr == "" {
		return nil
	}
	return NewCategoryCache(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

// Get returns the cached categories ordered by id. Redis errors are logged
// and reported as a miss.
func (c *CategoryCache) Get(ctx context.Context) ([]*trivia.Category, bool) {
	if c == nil {
		return nil, false
	}
	fields, err := c.cb.Execute(func() (map[string]string, error) {
		return c.client.HGetAll(ctx, categoriesKey).Result()
	})
	if err != nil {
		log.Warn().Err(err).Msg("category cache read failed")
		return nil, false
	}
	if len(fields) == 0 {
		return nil, false
	}
	cats := make([]*trivia.Category, 0, len(fields))
	for k, v := range fields {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			log.Warn().Str("field", k).Msg("category cache corrupt")
			return nil, false
		}
		cats = append(cats, &trivia.Category{ID: id, Type: v})
	}
	slices.SortFunc(cats, func(a, b *trivia.Category) int { return cmp.Compare(a.ID, b.ID) })
	return cats, true
}

// Set replaces the cached categories.
func (c *CategoryCache) Set(ctx context.Context, cats []*trivia.Category) {
	if c == nil || len(cats) == 0 {
		return
	}
	values := make(map[string]any, len(cats))
	for _, cat := range cats {
		values[strconv.FormatInt(cat.ID, 10)] = cat.Type
	}
	_, err := c.cb.Execute(func() (map[string]string, error) {
		_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, categoriesKey)
			p.HSet(ctx, categoriesKey, values)
			if c.ttl > 0 {
				p.Expire(ctx, categoriesKey, c.ttl)
			}
			return nil
		})
		return nil, err
	})
	if err != nil {
		log.Warn().Err(err).Msg("category cache write failed")
	}
}

func (c *CategoryCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
