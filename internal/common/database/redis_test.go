package database

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlens/internal/common/config"
	"careerlens/internal/models"
)

func sampleSession() *models.Session {
	return &models.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "bearer",
		ExpiresIn:    3600,
		ExpiresAt:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		User:         models.User{ID: "user-1", Email: "ada@example.com"},
	}
}

func TestRedisSessionStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()))

	store := NewRedisSessionStore(client.Client, "careerlens:session:", "", time.Hour)
	assert.Equal(t, "careerlens:session:default", store.Key())

	ctx := context.Background()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Save(ctx, sampleSession()))
	assert.True(t, mr.Exists(store.Key()))
	assert.Equal(t, time.Hour, mr.TTL(store.Key()))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "access-1", got.AccessToken)
	assert.Equal(t, "user-1", got.User.ID)
	assert.True(t, got.ExpiresAt.Equal(sampleSession().ExpiresAt))

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists(store.Key()))
}

func TestRedisSessionStore_ExpiresWithTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewRedisSessionStore(rdb, "p:", "work", time.Minute)
	require.NoError(t, store.Save(context.Background(), sampleSession()))

	mr.FastForward(2 * time.Minute)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionStore_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewRedisSessionStore(rdb, "p:", "x", 0)
	require.NoError(t, mr.Set(store.Key(), "{not json"))

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

func TestRedisSessionStore_Errors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisSessionStore(db, "p:", "x", time.Hour)
	ctx := context.Background()

	mock.ExpectGet("p:x").SetErr(errors.New("connection refused"))
	_, err := store.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get session")

	raw, err := json.Marshal(sampleSession())
	require.NoError(t, err)
	mock.ExpectSet("p:x", raw, time.Hour).SetErr(errors.New("READONLY"))
	err = store.Save(ctx, sampleSession())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set session")

	mock.ExpectDel("p:x").SetErr(errors.New("timeout"))
	assert.Error(t, store.Clear(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}
