package health

import (
	"context"
	"errors"
	"testing"

	"bazaar-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f *fakePinger) Ping() error { return f.err }

func setupHealthTest(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCollectHealth_AllConnected(t *testing.T) {
	rdb := setupHealthTest(t)
	require.NoError(t, rdb.Set(context.Background(), middleware.KeyReqTotal, "10", 0).Err())
	require.NoError(t, rdb.Set(context.Background(), middleware.KeyReqErrors, "2", 0).Err())

	result := CollectHealth(context.Background(), rdb, &fakePinger{})
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "connected", result.Dependencies["database"].Status)
	assert.Equal(t, "connected", result.Dependencies["redis"].Status)
	assert.Equal(t, 10, result.Traffic.TotalRequests)
	assert.Equal(t, 8, result.Traffic.SuccessCount)
	assert.Equal(t, 2, result.Traffic.FailedCount)
	assert.Equal(t, "80.0", result.Traffic.SuccessRate)
}

func TestCollectHealth_DBError(t *testing.T) {
	rdb := setupHealthTest(t)
	result := CollectHealth(context.Background(), rdb, &fakePinger{err: errors.New("down")})
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "error", result.Dependencies["database"].Status)
}

func TestCollectHealth_NilDB(t *testing.T) {
	rdb := setupHealthTest(t)
	result := CollectHealth(context.Background(), rdb, nil)
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "disconnected", result.Dependencies["database"].Status)
}
