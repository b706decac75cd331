package cache

import (
	"context"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
	"github.com/xiaoxiao0301/artist-atlas/pkg/redis"
)

func testClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	host, portStr, ok := strings.Cut(mr.Addr(), ":")
	require.True(t, ok)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	client, err := redis.NewClient(&redis.Config{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func testCache(t *testing.T) (ArtistCache, *miniredis.Miniredis) {
	t.Helper()
	client, mr := testClient(t)
	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	return NewArtistCache(client, time.Minute, log), mr
}

func countingLoader(artist *domain.Artist) (Loader, *int) {
	calls := 0
	return func(context.Context) (*domain.Artist, error) {
		calls++
		return artist, nil
	}, &calls
}

func TestArtistCache_MissThenHit(t *testing.T) {
	c, _ := testCache(t)
	artist := domain.NewArtist("Nova Tide", []string{"Pop"}, "Sweden")
	load, calls := countingLoader(artist)

	got, err := c.GetOrLoad(context.Background(), artist.ID, load)
	require.NoError(t, err)
	assert.Equal(t, artist.Name, got.Name)
	assert.Equal(t, 1, *calls)

	got, err = c.GetOrLoad(context.Background(), artist.ID, load)
	require.NoError(t, err)
	assert.Equal(t, artist.Name, got.Name)
	assert.Equal(t, 1, *calls, "second read must come from the cache")
}

func TestArtistCache_Invalidate(t *testing.T) {
	c, _ := testCache(t)
	artist := domain.NewArtist("Nova Tide", []string{"Pop"}, "Sweden")
	load, calls := countingLoader(artist)

	_, err := c.GetOrLoad(context.Background(), artist.ID, load)
	require.NoError(t, err)

	c.Invalidate(context.Background(), artist.ID)

	_, err = c.GetOrLoad(context.Background(), artist.ID, load)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls, "invalidation must force a reload")
}

func TestArtistCache_CorruptEntryDropped(t *testing.T) {
	c, mr := testCache(t)
	artist := domain.NewArtist("Nova Tide", []string{"Pop"}, "Sweden")
	require.NoError(t, mr.Set(redis.ArtistKey(artist.ID), "{not json"))

	load, calls := countingLoader(artist)
	got, err := c.GetOrLoad(context.Background(), artist.ID, load)
	require.NoError(t, err)
	assert.Equal(t, artist.Name, got.Name)
	assert.Equal(t, 1, *calls)
}

func TestArtistCache_LoaderErrorNotCached(t *testing.T) {
	c, _ := testCache(t)
	wantErr := assert.AnError

	_, err := c.GetOrLoad(context.Background(), "a1", func(context.Context) (*domain.Artist, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	artist := domain.NewArtist("Nova Tide", []string{"Pop"}, "Sweden")
	load, calls := countingLoader(artist)
	_, err = c.GetOrLoad(context.Background(), "a1", load)
	require.NoError(t, err)
	assert.Equal(t, 1, *calls, "a failed load must not poison the cache")
}

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	artist := domain.NewArtist("Nova Tide", []string{"Pop"}, "Sweden")
	load, calls := countingLoader(artist)

	for i := 0; i < 3; i++ {
		_, err := c.GetOrLoad(context.Background(), artist.ID, load)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, *calls, "noop cache always loads")
}
