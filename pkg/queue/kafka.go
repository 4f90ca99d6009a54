package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
}

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    false,
	}

	return &KafkaProducer{writer: writer}
}

func NewKafkaConsumer(brokers []string, topic, groupID string) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 1 * time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	return &KafkaConsumer{reader: reader}
}

func (p *KafkaProducer) Publish(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	return p.writer.WriteMessages(ctx, message)
}

// Consume blocks reading messages until ctx is canceled, decoding each
// value as an Event and passing it to handler. Handler errors are returned
// to the caller for logging; consumption continues.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(Event) error, onError func(error)) error {
	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		var event Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			onError(fmt.Errorf("failed to decode event: %w", err))
			continue
		}

		if err := handler(event); err != nil {
			onError(err)
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

type EventType string

const (
	EventUserRegistered      EventType = "user_registered"
	EventVideoPublished      EventType = "video_published"
	EventVideoDeleted        EventType = "video_deleted"
	EventCommentCreated      EventType = "comment_created"
	EventCommentDeleted      EventType = "comment_deleted"
	EventLikeToggled         EventType = "like_toggled"
	EventSubscriptionToggled EventType = "subscription_toggled"
)

type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	// ChannelID is the user whose channel aggregates are affected by the
	// event, when there is one. Consumers use it to refresh channel stats.
	ChannelID string          `json:"channel_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewEvent marshals data eagerly so producer callers learn about encoding
// problems at publish time.
func NewEvent(eventType EventType, channelID string, data interface{}) (Event, error) {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return Event{}, fmt.Errorf("failed to encode event data: %w", err)
		}
		raw = encoded
	}

	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		ChannelID: channelID,
		Data:      raw,
	}, nil
}

type VideoEventData struct {
	VideoID string `json:"video_id"`
	OwnerID string `json:"owner_id"`
	Title   string `json:"title,omitempty"`
}

type LikeEventData struct {
	TargetKind string `json:"target_kind"`
	TargetID   string `json:"target_id"`
	UserID     string `json:"user_id"`
	Liked      bool   `json:"liked"`
}

type SubscriptionEventData struct {
	ChannelID    string `json:"channel_id"`
	SubscriberID string `json:"subscriber_id"`
	Subscribed   bool   `json:"subscribed"`
}

type CommentEventData struct {
	CommentID string `json:"comment_id"`
	VideoID   string `json:"video_id"`
	UserID    string `json:"user_id"`
}
