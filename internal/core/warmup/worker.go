package warmup

import (
	"context"
	"time"

	"fullstack/internal/domain/trivia"
	"fullstack/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// Cache receives fresh category lists.
type Cache interface {
	Set(ctx context.Context, cats []*trivia.Category)
}

// Worker periodically copies trivia categories from the store into the
// cache so reads rarely fall through to the database.
type Worker struct {
	repo      repositories.CategoryRepository
	cache     Cache
	pollEvery time.Duration
}

// NewWorker refreshes every pollEvery. It should stay below the cache TTL.
func NewWorker(repo repositories.CategoryRepository, cache Cache, pollEvery time.Duration) *Worker {
	if pollEvery <= 0 {
		pollEvery = 5 * time.Minute
	}
	return &Worker{repo: repo, cache: cache, pollEvery: pollEvery}
}

// Run warms the cache once, then on every tick until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	log.Info().Dur("every", w.pollEvery).Msg("cache warmup worker: started")
	t := time.NewTicker(w.pollEvery)
	defer t.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("cache warmup worker: stopping")
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	cats, err := w.repo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("worker: load categories failed")
		return
	}
	if len(cats) == 0 {
		return
	}
	w.cache.Set(ctx, cats)
	log.Debug().Int("categories", len(cats)).Msg("worker: category cache refreshed")
}
