package pg

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"box-skill-whisper/internal/app/repository"
	"box-skill-whisper/internal/app/repository/migrate"
)

// Open connects to PostgreSQL with connectionString and ensures the run
// table exists.
func Open(ctx context.Context, connectionString string) (*repository.CommonDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := migrate.Up(ctx, db, "postgres"); err != nil {
		db.Close()
		return nil, err
	}
	return repository.NewCommonDB(db, "postgres"), nil
}
