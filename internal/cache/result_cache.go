package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"clauseminer/internal/app"
)

// ResultCache keeps completed extraction results in redis so repeated lookups
// of a finished document skip MySQL.
type ResultCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewResultCache(client *redisv9.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ResultCache) Get(ctx context.Context, documentID string) (*app.CachedExtraction, bool, error) {
	raw, err := c.client.Get(ctx, c.resultKey(documentID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get extraction failed: %w", err)
	}

	var cached app.CachedExtraction
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached extraction failed: %w", err)
	}
	return &cached, true, nil
}

func (c *ResultCache) Set(ctx context.Context, documentID string, result app.CachedExtraction) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal extraction cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.resultKey(documentID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set extraction failed: %w", err)
	}
	return nil
}

func (c *ResultCache) Delete(ctx context.Context, documentID string) error {
	if err := c.client.Del(ctx, c.resultKey(documentID)).Err(); err != nil {
		return fmt.Errorf("redis delete extraction failed: %w", err)
	}
	return nil
}

func (c *ResultCache) resultKey(documentID string) string {
	return fmt.Sprintf("extraction:result:%s", documentID)
}
