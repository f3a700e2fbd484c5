// Package badger stores run records in an embedded Badger key-value store.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"

	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/repository"
)

const keyPrefix = "run/"

// Repository is a RunRepository backed by Badger.
type Repository struct {
	db  *badgerdb.DB
	ttl time.Duration
}

// Open opens (or creates) the store in dir. A zero ttl keeps records forever.
func Open(dir string, ttl time.Duration) (*Repository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return open(badgerdb.DefaultOptions(dir), ttl)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory(ttl time.Duration) (*Repository, error) {
	return open(badgerdb.DefaultOptions("").WithInMemory(true), ttl)
}

func open(opts badgerdb.Options, ttl time.Duration) (*Repository, error) {
	db, err := badgerdb.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &Repository{db: db, ttl: ttl}, nil
}

// Save implements repository.RunRepository.
func (r *Repository) Save(_ context.Context, rec repository.RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	return r.db.Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry([]byte(keyPrefix+rec.FileID), data)
		if r.ttl > 0 {
			entry = entry.WithTTL(r.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Get implements repository.RunRepository.
func (r *Repository) Get(_ context.Context, fileID string) (repository.RunRecord, error) {
	var rec repository.RunRecord
	err := r.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + fileID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return repository.RunRecord{}, apperrors.NotFound("run", fileID)
	}
	if err != nil {
		return repository.RunRecord{}, fmt.Errorf("failed to get run: %w", err)
	}
	return rec, nil
}

// Close implements repository.RunRepository.
func (r *Repository) Close() error {
	return r.db.Close()
}
