package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return mr, NewWithClient(rdb, "test", zap.NewNop())
}

func TestNewClient_InvalidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{
			name: "Invalid scheme",
			url:  "invalid://url",
		},
		{
			name: "Empty URL",
			url:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, "test", zap.NewNop())
			assert.Error(t, err)
			assert.Nil(t, client)
		})
	}
}

func TestClient_SetAndGetJSON(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, client.SetJSON(ctx, "test:key", payload{Name: "truffle", Count: 3}, time.Minute))

	var got payload
	found, err := client.GetJSON(ctx, "test:key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "truffle", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestClient_GetJSONMissingKey(t *testing.T) {
	_, client := setupTestRedis(t)

	var got map[string]interface{}
	found, err := client.GetJSON(context.Background(), "test:missing", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestClient_GetJSONExpiredKey(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.SetJSON(ctx, "test:key", "value", time.Minute))
	mr.FastForward(2 * time.Minute)

	var got string
	found, err := client.GetJSON(ctx, "test:key", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestClient_Delete(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.SetJSON(ctx, "test:key", "value", time.Minute))
	require.NoError(t, client.Delete(ctx, "test:key"))

	var got string
	found, err := client.GetJSON(ctx, "test:key", &got)
	assert.NoError(t, err)
	assert.False(t, found)

	// Deleting missing keys and deleting nothing are both fine.
	assert.NoError(t, client.Delete(ctx, "test:missing"))
	assert.NoError(t, client.Delete(ctx))
}

func TestClient_Health(t *testing.T) {
	mr, client := setupTestRedis(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
