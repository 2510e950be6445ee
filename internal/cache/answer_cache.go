package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// AnswerCache keeps recent agent answers keyed by a digest of the query, so
// repeated questions skip the LLM round-trip until the entry expires.
type AnswerCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewAnswerCache(client *redisv9.Client, ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnswerCache{client: client, ttl: ttl}
}

func (c *AnswerCache) Get(ctx context.Context, query string) (string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(query)).Result()
	if err == redisv9.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get answer failed: %w", err)
	}
	return raw, true, nil
}

func (c *AnswerCache) Set(ctx context.Context, query, answer string) error {
	if err := c.client.Set(ctx, c.key(query), answer, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set answer failed: %w", err)
	}
	return nil
}

// Flush drops all cached answers; called after agent reloads so stale
// answers do not outlive the index they were produced from.
func (c *AnswerCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "chat:answer:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete answer failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan answers failed: %w", err)
	}
	return nil
}

func (c *AnswerCache) key(query string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(strings.ToLower(query))))
	return "chat:answer:" + hex.EncodeToString(sum[:16])
}
