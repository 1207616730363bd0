// Package source provides event sources backed by external transports.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	redis "github.com/go-redis/redis/v7"
	"github.com/nanzhong/neotest"
	"github.com/nanzhong/neotest/reporter"
)

// EndOfStream is the list element that marks the end of an event stream.
const EndOfStream = "neotest:eof"

const (
	defaultPollInterval = 100 * time.Millisecond

	redisPrefixEvents = "events"
)

// RedisOption is used to configure a Redis source on creation.
type RedisOption func(*redisOptions)

type redisOptions struct {
	pollInterval time.Duration
	idleTimeout  time.Duration
}

// WithPollInterval sets how long to wait before polling an empty list again.
func WithPollInterval(d time.Duration) RedisOption {
	return func(opts *redisOptions) {
		opts.pollInterval = d
	}
}

// WithIdleTimeout ends the stream once the list stayed empty for d. A zero
// duration waits for the end marker forever.
func WithIdleTimeout(d time.Duration) RedisOption {
	return func(opts *redisOptions) {
		opts.idleTimeout = d
	}
}

// Redis reads JSON encoded events from a Redis list, oldest first.
type Redis struct {
	client       *redis.Client
	key          string
	pollInterval time.Duration
	idleTimeout  time.Duration
	done         bool
}

var _ reporter.EventSource = (*Redis)(nil)

// NewRedis constructs a source reading the list for stream name.
func NewRedis(client *redis.Client, name string, opts ...RedisOption) *Redis {
	defOpts := &redisOptions{
		pollInterval: defaultPollInterval,
	}

	for _, opt := range opts {
		opt(defOpts)
	}

	return &Redis{
		client:       client,
		key:          RedisKey(name),
		pollInterval: defOpts.pollInterval,
		idleTimeout:  defOpts.idleTimeout,
	}
}

// Next pops the next event, waiting for one to be pushed if the list is
// empty.
func (r *Redis) Next(ctx context.Context) (*neotest.Event, error) {
	if r.done {
		return nil, io.EOF
	}

	client := r.client.WithContext(ctx)
	var idle time.Duration
	for {
		value, err := client.LPop(r.key).Result()
		switch {
		case err == nil:
			if value == EndOfStream {
				r.done = true
				return nil, io.EOF
			}

			var event neotest.Event
			if err := json.Unmarshal([]byte(value), &event); err != nil {
				return nil, fmt.Errorf("decoding event: %w", err)
			}
			return &event, nil
		case !errors.Is(err, redis.Nil):
			return nil, fmt.Errorf("popping event: %w", err)
		}

		if r.idleTimeout > 0 && idle >= r.idleTimeout {
			r.done = true
			return nil, io.EOF
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.pollInterval):
			idle += r.pollInterval
		}
	}
}

// Publish appends events to the list for stream name followed by the end
// marker, all in one transaction.
func Publish(ctx context.Context, client *redis.Client, name string, events ...*neotest.Event) error {
	values := make([]interface{}, 0, len(events)+1)
	for _, event := range events {
		eventJSON, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("serializing event: %w", err)
		}
		values = append(values, eventJSON)
	}
	values = append(values, EndOfStream)

	_, err := client.WithContext(ctx).TxPipelined(func(tx redis.Pipeliner) error {
		tx.RPush(RedisKey(name), values...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publishing events: %w", err)
	}
	return nil
}

// RedisKey returns the list key events of stream name are pushed to.
func RedisKey(name string) string {
	return fmt.Sprintf("%s:%s", redisPrefixEvents, name)
}
