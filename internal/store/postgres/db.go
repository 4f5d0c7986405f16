package postgres

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Open creates a pool and waits for the database to answer, retrying with
// exponential backoff up to retries times.
func Open(ctx context.Context, dsn string, retries uint64) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries), ctx)
	err = backoff.RetryNotify(func() error {
		return pool.Ping(ctx)
	}, b, func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("db ping failed")
	})
	if err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func MustOpen(ctx context.Context, dsn string, retries uint64) *pgxpool.Pool {
	pool, err := Open(ctx, dsn, retries)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect fail")
	}
	return pool
}
