// Package sink provides the optional network log backend: log entries are
// published to a Google Cloud Pub/Sub topic. The logging core treats this as
// just another set of sink functions; transport failures are counted in
// metrics, never surfaced to the code that logged.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"github.com/reqctx/pingd/internal/logging"
	"github.com/reqctx/pingd/internal/metrics"
)

// Entry is one log message as shipped to the network sink.
type Entry struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Publisher defines the interface for shipping log entries
type Publisher interface {
	Publish(ctx context.Context, entry Entry, attributes map[string]string) (string, error)
	Close() error
}

// PubSubPublisher implements the Publisher interface for Google Cloud Pub/Sub
type PubSubPublisher struct {
	client  *pubsub.Client
	topic   *pubsub.Topic
	topicID string
}

// NewPubSubPublisher creates a new Google Cloud Pub/Sub publisher. Extra
// client options are passed through, which lets tests point it at an
// emulator.
func NewPubSubPublisher(ctx context.Context, projectID, topicID string, opts ...option.ClientOption) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicID)

	exists, err := topic.Exists(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to check topic existence: %w", err)
	}
	if !exists {
		client.Close()
		return nil, fmt.Errorf("topic %s does not exist", topicID)
	}

	return &PubSubPublisher{
		client:  client,
		topic:   topic,
		topicID: topicID,
	}, nil
}

// TopicID returns the topic this publisher writes to
func (p *PubSubPublisher) TopicID() string {
	return p.topicID
}

// Publish publishes a log entry to Pub/Sub
func (p *PubSubPublisher) Publish(ctx context.Context, entry Entry, attributes map[string]string) (string, error) {
	jsonData, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal entry: %w", err)
	}

	msg := &pubsub.Message{
		Data:       jsonData,
		Attributes: attributes,
	}

	result := p.topic.Publish(ctx, msg)
	msgID, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish entry: %w", err)
	}

	return msgID, nil
}

// Close closes the publisher and its connections
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}

// Sinks adapts a Publisher into per-level logging sinks. Each log line is
// published synchronously and fire-and-forget: a failed publish is recorded
// in metrics and otherwise dropped, so the logging core never sees backend
// errors.
func Sinks(pub Publisher) logging.Sinks {
	send := func(level, text string, cause error) {
		start := time.Now()

		entry := Entry{Level: level, Text: text}
		if cause != nil {
			entry.Error = cause.Error()
		}

		_, err := pub.Publish(context.Background(), entry, map[string]string{"level": level})

		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.RecordSinkPublish(status, time.Since(start))
	}

	return logging.Sinks{
		Info:  func(text string) { send("info", text, nil) },
		Debug: func(text string) { send("debug", text, nil) },
		Error: func(text string, err error) { send("error", text, err) },
	}
}
