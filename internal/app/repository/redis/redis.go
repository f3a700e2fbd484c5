// Package redis stores run records as JSON values in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/repository"
)

const keyPrefix = "skill:run:"

// Repository is a RunRepository backed by Redis. Records expire after ttl.
type Repository struct {
	client *goredis.Client
	ttl    time.Duration
}

// Open parses a redis:// URL and checks the connection.
func Open(ctx context.Context, url string, ttl time.Duration) (*Repository, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return New(client, ttl), nil
}

// New wraps an existing client. A zero ttl keeps records forever.
func New(client *goredis.Client, ttl time.Duration) *Repository {
	return &Repository{client: client, ttl: ttl}
}

// Key returns the Redis key of fileID.
func Key(fileID string) string {
	return keyPrefix + fileID
}

// Save implements repository.RunRepository.
func (r *Repository) Save(ctx context.Context, rec repository.RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	if err := r.client.Set(ctx, Key(rec.FileID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Get implements repository.RunRepository.
func (r *Repository) Get(ctx context.Context, fileID string) (repository.RunRecord, error) {
	data, err := r.client.Get(ctx, Key(fileID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return repository.RunRecord{}, apperrors.NotFound("run", fileID)
	}
	if err != nil {
		return repository.RunRecord{}, fmt.Errorf("redis get failed: %w", err)
	}

	var rec repository.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return repository.RunRecord{}, fmt.Errorf("decode run: %w", err)
	}
	return rec, nil
}

// Close implements repository.RunRepository.
func (r *Repository) Close() error {
	return r.client.Close()
}
