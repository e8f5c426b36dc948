package events

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one delivered event. Returning an error leaves the
// message unacknowledged, so the consumer group redelivers it.
type Handler func(ctx context.Context, event Event) error

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Stream        string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
}

// Subscriber consumes a Redis Stream through a consumer group, so multiple
// service instances share the stream without double-processing.
type Subscriber struct {
	client *redis.Client
	cfg    SubscriberConfig
}

func NewSubscriber(client *redis.Client, cfg SubscriberConfig) *Subscriber {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 10
	}
	if cfg.BlockDuration == 0 {
		cfg.BlockDuration = 5 * time.Second
	}
	return &Subscriber{client: client, cfg: cfg}
}

// Start creates the consumer group if needed and polls until ctx is
// cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.cfg.Stream, s.cfg.Group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("failed to create consumer group %s: %w", s.cfg.Group, err)
	}

	log.Printf("Subscriber started: stream=%s, group=%s, consumer=%s", s.cfg.Stream, s.cfg.Group, s.cfg.Consumer)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Subscriber stopping: %s", s.cfg.Stream)
			return ctx.Err()
		default:
			if err := s.poll(ctx); err != nil {
				log.Printf("Error reading from %s: %v", s.cfg.Stream, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (s *Subscriber) poll(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.cfg.Group,
		Consumer: s.cfg.Consumer,
		Streams:  []string{s.cfg.Stream, ">"},
		Count:    s.cfg.BatchSize,
		Block:    s.cfg.BlockDuration,
	}).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := s.dispatch(ctx, message); err != nil {
				// Unacked messages stay pending and get redelivered.
				log.Printf("Failed to process message %s: %v", message.ID, err)
				continue
			}
			if err := s.client.XAck(ctx, s.cfg.Stream, s.cfg.Group, message.ID).Err(); err != nil {
				log.Printf("Failed to ACK message %s: %v", message.ID, err)
			}
		}
	}
	return nil
}

func (s *Subscriber) dispatch(ctx context.Context, message redis.XMessage) error {
	event, err := eventFromMessage(message)
	if err != nil {
		return err
	}
	return s.cfg.Handler(ctx, event)
}

func eventFromMessage(message redis.XMessage) (Event, error) {
	eventType, ok := message.Values["type"].(string)
	if !ok {
		return Event{}, fmt.Errorf("message %s has no event type", message.ID)
	}
	payload, ok := message.Values["payload"].(string)
	if !ok {
		return Event{}, fmt.Errorf("message %s has no payload", message.ID)
	}

	event := Event{Type: eventType, Payload: []byte(payload)}
	if at, ok := message.Values["at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, at); err == nil {
			event.Timestamp = ts
		}
	}
	return event, nil
}
