package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/campus-assistant-go/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, enabled bool) Service {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{}
	cfg.Cache.Enabled = enabled
	cfg.Cache.TTL = time.Minute
	cfg.Cache.MaxSize = 100
	return NewCache(cfg, log)
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t, true)
	ctx := context.Background()

	_, hit := c.Get(ctx, "library hours?", "English")
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "library hours?", "English", "8 AM to 11 PM"))

	answer, hit := c.Get(ctx, "library hours?", "English")
	require.True(t, hit)
	assert.Equal(t, "8 AM to 11 PM", answer)

	// The language is part of the key.
	_, hit = c.Get(ctx, "library hours?", "Hindi")
	assert.False(t, hit)
}

func TestCacheClear(t *testing.T) {
	c := newTestCache(t, true)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "q", "English", "a"))
	require.NoError(t, c.Clear(ctx))

	_, hit := c.Get(ctx, "q", "English")
	assert.False(t, hit)
}

func TestCacheDisabled(t *testing.T) {
	c := newTestCache(t, false)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "q", "English", "a"))
	_, hit := c.Get(ctx, "q", "English")
	assert.False(t, hit)
}
