// Package queue provides the event source: a durable Redis list holding
// serialized security events, consumed head-first.
package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultEventsKey is the Redis list the event feed pushes onto.
const DefaultEventsKey = "log_events"

// Source pops serialized events from a Redis list. The pop is destructive:
// once an event is returned it is no longer in the queue, so a crash before
// the matching alert is recorded loses that event.
type Source struct {
	client *redis.Client
	key    string
}

// NewSource creates an event source reading from the given list key.
func NewSource(client *redis.Client, key string) (*Source, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if key == "" {
		return nil, fmt.Errorf("events key cannot be empty")
	}
	return &Source{client: client, key: key}, nil
}

// Pop removes and returns the event payload at the head of the queue.
// Returns ok=false with no error when the queue is empty; it never blocks
// waiting for an event.
func (s *Source) Pop(ctx context.Context) (string, bool, error) {
	payload, err := s.client.LPop(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to pop event from %s: %w", s.key, err)
	}
	return payload, true, nil
}

// Push appends an event payload to the tail of the queue. The engine never
// pushes; this exists for the feed side and test utilities.
func (s *Source) Push(ctx context.Context, payload string) error {
	if err := s.client.RPush(ctx, s.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to push event to %s: %w", s.key, err)
	}
	return nil
}

// Len returns the number of events waiting in the queue.
func (s *Source) Len(ctx context.Context) (int64, error) {
	n, err := s.client.LLen(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue length of %s: %w", s.key, err)
	}
	return n, nil
}
