package publisher

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sjsage522/housingworker/config"
)

var (
	_ Publisher = (*RedisPublisher)(nil)
	_ Publisher = Nop{}
)

func TestNew(t *testing.T) {
	assert.Equal(t, Nop{}, New(&config.Config{}))

	p := New(&config.Config{RedisAddr: "localhost:6379", RedisStream: "housing", RedisStreamCount: 2, RedisStreamMaxLength: 10})
	rp, ok := p.(*RedisPublisher)
	require.True(t, ok)
	assert.Equal(t, "housing:1", rp.Stream(1))
	rp.Close()
}

// This test requires a running redis instance
// If redis is not available, the test will be skipped
func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()
	publisher := NewRedisPublisher("localhost:6379", 0, "test_housing_r", 1, 5)
	defer publisher.Close()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	defer client.Close()

	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	stream := publisher.Stream(0)
	err := client.XGroupCreateMkStream(ctx, stream, "test_group", "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		require.NoError(t, err)
	}

	messages := make(chan string, 1)

	go func() {
		res, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Streams:  []string{stream, ">"},
			Group:    "test_group",
			Consumer: "test_consumer",
			Block:    time.Second,
		}).Result()
		if err != nil {
			return
		}
		if v, ok := res[0].Messages[0].Values["b64_property"].(string); ok {
			messages <- v
		}
	}()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, publisher.Publish(ctx, "b64_property", []byte("test_message")))

	select {
	case msg := <-messages:
		// base64 of "test_message"
		assert.Equal(t, "dGVzdF9tZXNzYWdl", msg)
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for message")
	}

	for i := 0; i < 10; i++ {
		require.NoError(t, publisher.Publish(ctx, "b64_property", []byte("filler")))
	}
	require.NoError(t, publisher.TrimStreams(ctx))

	length, err := client.XLen(ctx, stream).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, length, int64(5))

	client.Del(ctx, stream)
}
