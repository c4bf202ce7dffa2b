package publisher

import "context"

// Publisher fans scraped records out to downstream consumers
type Publisher interface {
	// Publish appends a message under key to one of the streams
	Publish(ctx context.Context, key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams(ctx context.Context) error

	// Close closes the publisher connection
	Close() error
}

// Nop discards everything. Used when no Redis address is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, []byte) error { return nil }
func (Nop) TrimStreams(context.Context) error             { return nil }
func (Nop) Close() error                                  { return nil }
