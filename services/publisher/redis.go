package publisher

import (
	"context"
	"encoding/base64"
	"math/rand/v2"
	"strconv"

	"github.com/redis/go-redis/v9"
	"sjsage522/housingworker/config"
	"sjsage522/housingworker/logger"
	"sjsage522/housingworker/pkg/errors"
)

// RedisPublisher implements Publisher on Redis streams
type RedisPublisher struct {
	client          *redis.Client
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if streamCount < 1 {
		streamCount = 1
	}

	return &RedisPublisher{
		client:          client,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// New returns the publisher described by cfg, a Nop when Redis is off
func New(cfg *config.Config) Publisher {
	if cfg.RedisAddr == "" {
		logger.ForPublisher().Info().Msg("REDIS_ADDR not set, record publishing disabled")
		return Nop{}
	}
	logger.ForPublisher().Info().
		Str("addr", cfg.RedisAddr).
		Int("db", cfg.RedisDB).
		Str("stream", cfg.RedisStream).
		Msg("Publishing records to Redis")
	return NewRedisPublisher(cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamCount, cfg.RedisStreamMaxLength)
}

// Stream returns the name of stream n
func (p *RedisPublisher) Stream(n int) string {
	return p.streamPrefix + ":" + strconv.Itoa(n)
}

// Publish base64-encodes message and appends it to a random stream.
// With streamCount 3 the streams are <prefix>:0 to <prefix>:2.
func (p *RedisPublisher) Publish(ctx context.Context, key string, message []byte) error {
	encoded := base64.StdEncoding.EncodeToString(message)
	stream := p.Stream(rand.IntN(p.streamCount))

	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			key: encoded,
		},
	}).Err()
	if err != nil {
		return errors.NewPublisher(stream, "xadd failed", err)
	}
	return nil
}

// TrimStreams trims every stream with the prefix to the maximum length
func (p *RedisPublisher) TrimStreams(ctx context.Context) error {
	streams, err := p.client.Keys(ctx, p.streamPrefix+":*").Result()
	if err != nil {
		return errors.NewPublisher(p.streamPrefix, "list streams failed", err)
	}

	for _, stream := range streams {
		if err := p.client.XTrimMaxLen(ctx, stream, int64(p.streamMaxLength)).Err(); err != nil {
			return errors.NewPublisher(stream, "trim failed", err)
		}
	}

	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
