package cache

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transcript-ai/backend/internal/config"
	"github.com/transcript-ai/backend/internal/logging"
	"github.com/transcript-ai/backend/pkg/models"
)

func newTestCache(t *testing.T) (*ProbeCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	log, err := logging.NewConsoleLogger()
	require.NoError(t, err)

	host, portStr, ok := strings.Cut(mr.Addr(), ":")
	require.True(t, ok)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	c, err := New(context.Background(), config.RedisConfig{
		Enabled:  true,
		Host:     host,
		Port:     port,
		ProbeTTL: 10 * time.Minute,
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestProbeCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	url := "https://www.youtube.com/watch?v=abc123"
	probe := models.ProbeResult{
		Platform: models.PlatformYouTube,
		Title:    "Cached Talk",
		Duration: 754,
		Options: []models.RenditionOption{
			{ID: "mp3", Kind: models.RenditionAudio, Label: "MP3 (Audio)", Ext: "mp3"},
			{ID: "video_1080", Kind: models.RenditionVideo, Label: "MP4 1080p (HD)", Ext: "mp4", Height: 1080},
		},
	}

	_, ok := c.Get(ctx, url)
	assert.False(t, ok, "miss before set")

	c.Set(ctx, url, probe)
	got, ok := c.Get(ctx, url)
	require.True(t, ok)
	assert.Equal(t, probe, got)

	_, ok = c.Get(ctx, "https://www.youtube.com/watch?v=other")
	assert.False(t, ok, "different URL must not hit")
}

func TestProbeCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	url := "https://vimeo.com/12345"
	c.Set(ctx, url, models.ProbeResult{Platform: models.PlatformVimeo, Title: "Short"})

	mr.FastForward(11 * time.Minute)

	_, ok := c.Get(ctx, url)
	assert.False(t, ok, "entry must expire with the TTL")
}

func TestNilCacheIsNoOp(t *testing.T) {
	var c *ProbeCache
	ctx := context.Background()

	_, ok := c.Get(ctx, "https://example.com")
	assert.False(t, ok)
	c.Set(ctx, "https://example.com", models.ProbeResult{})
	assert.NoError(t, c.Close())
}

func TestDisabledConfigReturnsNilCache(t *testing.T) {
	log, err := logging.NewConsoleLogger()
	require.NoError(t, err)

	c, err := New(context.Background(), config.RedisConfig{Enabled: false}, log)
	require.NoError(t, err)
	assert.Nil(t, c)
}
