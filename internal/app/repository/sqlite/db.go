package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"box-skill-whisper/internal/app/repository"
	"box-skill-whisper/internal/app/repository/migrate"
)

// Open opens (creating when needed) the SQLite database at dbPath and
// ensures the run table exists.
func Open(ctx context.Context, dbPath string) (*repository.CommonDB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	if err := migrate.Up(ctx, db, "sqlite3"); err != nil {
		db.Close()
		return nil, err
	}
	return repository.NewCommonDB(db, "sqlite3"), nil
}
