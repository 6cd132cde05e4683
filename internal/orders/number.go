package orders

import (
	"context"
	"fmt"
	"time"

	redisclient "github.com/boutiquemaison/storefront-backend/pkg/redis"
)

const orderNumberPrefix = "CMD"

// NumberSource hands out order numbers of the form CMD<yyyymmdd><sequence>.
type NumberSource interface {
	Next(ctx context.Context, now time.Time) (string, error)
}

// RedisNumberSource draws the daily sequence from a Redis counter so numbers
// stay unique across instances.
type RedisNumberSource struct {
	client *redisclient.Client
}

// NewRedisNumberSource builds a counter-backed number source.
func NewRedisNumberSource(client *redisclient.Client) (*RedisNumberSource, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisNumberSource{client: client}, nil
}

func (s *RedisNumberSource) Next(ctx context.Context, now time.Time) (string, error) {
	day := now.Format("20060102")
	key := s.client.CounterKey("orders:" + day)

	seq, err := s.client.Incr(ctx, key)
	if err != nil {
		return "", fmt.Errorf("incrementing order counter: %w", err)
	}
	// keep yesterday's counters from piling up
	if seq == 1 {
		_ = s.client.Expire(ctx, key, 48*time.Hour)
	}
	return fmt.Sprintf("%s%s%04d", orderNumberPrefix, day, seq), nil
}
