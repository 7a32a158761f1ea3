package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoStagedData means no batch is staged under the requested key; the
// caller should send the user back to the upload step.
var ErrNoStagedData = errors.New("no staged import data found")

// StagingStore passes a parsed batch from the upload step to the review
// step. Entries are keyed per entity kind and session so concurrent import
// flows do not collide. The review step reads without consuming; only a
// successful commit (or an explicit abandon) clears the entry, so a failed
// commit lets the user retry without re-uploading.
type StagingStore interface {
	Put(ctx context.Context, key string, batch []ImportRecord) error
	Get(ctx context.Context, key string) ([]ImportRecord, error)
	Clear(ctx context.Context, key string) error
}

// StagingKey builds the store key for one import session.
func StagingKey(kind, sessionCode string) string {
	return fmt.Sprintf("import:%s:%s", kind, sessionCode)
}

// RedisStaging stores batches as JSON in Redis with a TTL so abandoned
// sessions clean themselves up.
type RedisStaging struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStaging(client *redis.Client, ttl time.Duration) *RedisStaging {
	return &RedisStaging{client: client, ttl: ttl}
}

func (s *RedisStaging) Put(ctx context.Context, key string, batch []ImportRecord) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode staged batch: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to stage batch: %w", err)
	}
	return nil
}

func (s *RedisStaging) Get(ctx context.Context, key string) ([]ImportRecord, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoStagedData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load staged batch: %w", err)
	}
	var batch []ImportRecord
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, ErrNoStagedData
	}
	if len(batch) == 0 {
		return nil, ErrNoStagedData
	}
	return batch, nil
}

func (s *RedisStaging) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// MemoryStaging is the in-process fallback used in tests and when Redis is
// not available.
type MemoryStaging struct {
	mu      sync.Mutex
	batches map[string][]ImportRecord
}

func NewMemoryStaging() *MemoryStaging {
	return &MemoryStaging{batches: map[string][]ImportRecord{}}
}

func (s *MemoryStaging) Put(_ context.Context, key string, batch []ImportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := make([]ImportRecord, len(batch))
	copy(staged, batch)
	s.batches[key] = staged
	return nil
}

func (s *MemoryStaging) Get(_ context.Context, key string) ([]ImportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch, ok := s.batches[key]
	if !ok || len(batch) == 0 {
		return nil, ErrNoStagedData
	}
	out := make([]ImportRecord, len(batch))
	copy(out, batch)
	return out, nil
}

func (s *MemoryStaging) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, key)
	return nil
}
