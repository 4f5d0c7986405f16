package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schema string

// Migrate creates missing tables and seeds the trivia categories. Every
// statement is idempotent.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	// no arguments: pgx sends this over the simple protocol, which accepts
	// several statements at once
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Info().Msg("db schema up to date")
	return nil
}
