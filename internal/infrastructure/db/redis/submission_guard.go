package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

const defaultSubmissionTTL = 10 * time.Minute

// SubmissionGuard implements ports.SubmissionGuard.
// Key format: submission:<idempotency_key>
type SubmissionGuard struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSubmissionGuard wraps client. A non-positive ttl defaults to 10 minutes.
func NewSubmissionGuard(client redis.UniversalClient, ttl time.Duration) *SubmissionGuard {
	if ttl <= 0 {
		ttl = defaultSubmissionTTL
	}
	return &SubmissionGuard{client: client, ttl: ttl}
}

// Claim reserves key until the TTL elapses.
func (g *SubmissionGuard) Claim(ctx context.Context, key string) error {
	ok, err := g.client.SetNX(ctx, g.key(key), "1", g.ttl).Result()
	if err != nil {
		return fmt.Errorf("claim submission: %w", err)
	}
	if !ok {
		return domain.ErrDuplicateSubmission
	}
	return nil
}

// Release frees key so a failed submission can be retried.
func (g *SubmissionGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.key(key)).Err(); err != nil {
		return fmt.Errorf("release submission: %w", err)
	}
	return nil
}

func (g *SubmissionGuard) key(k string) string {
	return "submission:" + k
}
