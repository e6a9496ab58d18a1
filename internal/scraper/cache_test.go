package scraper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/model"
	"github.com/unclebandit/mailpulse-backend/internal/scraper"
)

type countingFetcher struct {
	calls int
	org   *model.Organization
	err   error
}

func (f *countingFetcher) FetchOrganization(ctx context.Context, profileURL string) (*model.Organization, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.org, nil
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedFetcherHitsUpstreamOnce(t *testing.T) {
	mr, rdb := newRedis(t)
	next := &countingFetcher{org: &model.Organization{CompanyName: "Acme"}}
	c := scraper.NewCachedFetcher(next, rdb, time.Hour, zap.NewNop())
	ctx := context.Background()

	first, err := c.FetchOrganization(ctx, "https://www.linkedin.com/company/acme")
	require.NoError(t, err)
	second, err := c.FetchOrganization(ctx, "https://www.linkedin.com/company/acme")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, "Acme", first.CompanyName)
	assert.Equal(t, "Acme", second.CompanyName)
	assert.True(t, mr.Exists("scraper:org:https://www.linkedin.com/company/acme"))

	mr.FastForward(2 * time.Hour)
	_, err = c.FetchOrganization(ctx, "https://www.linkedin.com/company/acme")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedFetcherDoesNotCacheErrors(t *testing.T) {
	_, rdb := newRedis(t)
	next := &countingFetcher{err: errors.New("blocked")}
	c := scraper.NewCachedFetcher(next, rdb, time.Hour, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := c.FetchOrganization(context.Background(), "https://x")
		assert.EqualError(t, err, "blocked")
	}
	assert.Equal(t, 2, next.calls)
}

func TestCachedFetcherRedisDown(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()
	next := &countingFetcher{org: &model.Organization{CompanyName: "Acme"}}
	c := scraper.NewCachedFetcher(next, rdb, time.Hour, zap.NewNop())

	org, err := c.FetchOrganization(context.Background(), "https://x")
	require.NoError(t, err)
	assert.Equal(t, "Acme", org.CompanyName)
}
