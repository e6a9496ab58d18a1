package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/model"
)

const cacheKeyPrefix = "scraper:org:"

// CachedFetcher keeps successful scraper responses in redis so repeated drafts
// for the same company page do not hit the scraper again. Redis failures fall
// through to the wrapped fetcher.
type CachedFetcher struct {
	next   Fetcher
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedFetcher(next Fetcher, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedFetcher {
	return &CachedFetcher{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedFetcher) FetchOrganization(ctx context.Context, profileURL string) (*model.Organization, error) {
	key := cacheKeyPrefix + profileURL

	cached, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var org model.Organization
		if jsonErr := json.Unmarshal(cached, &org); jsonErr == nil {
			return &org, nil
		}
		c.logger.Warn("discarding unreadable cached organization", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("organization cache read failed", zap.Error(err))
	}

	org, err := c.next.FetchOrganization(ctx, profileURL)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(org); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("organization cache write failed", zap.Error(err))
		}
	}
	return org, nil
}

var _ Fetcher = (*CachedFetcher)(nil)
