package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mindcare/therapist-api/internal/domain/therapist"
	"github.com/mindcare/therapist-api/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const therapistCacheKeyPrefix = "therapist:profile:"

// TherapistCache holds the shared profile record keyed by therapist id.
// A miss is not an error; callers fall through to the repository.
type TherapistCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewTherapistCache(rdb *redis.Client, ttl time.Duration, log logger.Logger) *TherapistCache {
	return &TherapistCache{rdb: rdb, ttl: ttl, logger: log}
}

func (c *TherapistCache) Get(ctx context.Context, id uuid.UUID) (*therapist.Therapist, error) {
	data, err := c.rdb.Get(ctx, therapistCacheKeyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	t := &therapist.Therapist{}
	if err := json.Unmarshal(data, t); err != nil {
		c.logger.Warn("Cached therapist record is unreadable, dropping it", zap.String("therapist_id", id.String()), zap.Error(err))
		c.Invalidate(ctx, id)
		return nil, nil
	}
	return t, nil
}

func (c *TherapistCache) Set(ctx context.Context, t *therapist.Therapist) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, therapistCacheKeyPrefix+t.ID.String(), data, c.ttl).Err()
}

func (c *TherapistCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.rdb.Del(ctx, therapistCacheKeyPrefix+id.String()).Err(); err != nil {
		c.logger.Warn("Failed to invalidate therapist cache entry", zap.String("therapist_id", id.String()), zap.Error(err))
	}
}
