package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoRouteClient/internal/testutil"
	"ecoRouteClient/models"
)

func TestRedisSessionCartRoundTrip(t *testing.T) {
	mr, client := testutil.StartRedis(t)
	repo := NewRedisSessionRepository(client, "test", time.Hour)
	ctx := context.Background()

	got, err := repo.LoadCart(ctx, "1234")
	require.NoError(t, err)
	assert.Empty(t, got)

	lines := sampleLines()
	require.NoError(t, repo.SaveCart(ctx, "1234", lines))
	assert.True(t, mr.Exists("test:1234:cart"))

	got, err = repo.LoadCart(ctx, "1234")
	require.NoError(t, err)
	assert.True(t, sameLines(lines, got), "got %+v", got)

	require.NoError(t, repo.SaveCart(ctx, "1234", nil))
	assert.False(t, mr.Exists("test:1234:cart"))
}

func TestRedisSessionExpires(t *testing.T) {
	mr, client := testutil.StartRedis(t)
	repo := NewRedisSessionRepository(client, "test", time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.SaveCart(ctx, "1234", sampleLines()))
	assert.Equal(t, time.Minute, mr.TTL("test:1234:cart"))

	mr.FastForward(2 * time.Minute)
	got, err := repo.LoadCart(ctx, "1234")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisSessionWishlist(t *testing.T) {
	_, client := testutil.StartRedis(t)
	repo := NewRedisSessionRepository(client, "", 0)
	ctx := context.Background()

	products := []models.Product{sampleLines()[1].Product, sampleLines()[0].Product}
	require.NoError(t, repo.SaveWishlist(ctx, "1234", products))
	got, err := repo.LoadWishlist(ctx, "1234")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(5), got[1].ID)
}

func TestRedisSessionCorruptValue(t *testing.T) {
	mr, client := testutil.StartRedis(t)
	repo := NewRedisSessionRepository(client, "test", 0)
	require.NoError(t, mr.Set("test:1234:cart", "{not json"))

	_, err := repo.LoadCart(context.Background(), "1234")
	assert.Error(t, err)
}

func TestSessionRepositoriesSatisfyInterface(t *testing.T) {
	var _ SessionRepositoryI = (*RedisSessionRepository)(nil)
	var _ SessionRepositoryI = (*SQLiteSessionRepository)(nil)
}
