package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewTextCache(client, time.Hour)
	ctx := context.Background()

	_, found, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "abc", "P<UTO"))

	text, found, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "P<UTO", text)

	assert.Equal(t, time.Hour, mr.TTL("ocr:text:abc"))
}

func TestTextCache_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("ocr:text:abc").SetErr(errors.New("connection reset"))

	cache := NewTextCache(db, time.Minute)
	_, found, err := cache.Get(context.Background(), "abc")

	require.Error(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}
