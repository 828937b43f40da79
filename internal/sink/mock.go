package sink

import (
	"context"
)

// MockPublisher provides a mock implementation of the Publisher interface for testing
type MockPublisher struct {
	published []PublishedEntry
	Error     error
	topicID   string
}

// PublishedEntry records one entry handed to the mock
type PublishedEntry struct {
	Entry      Entry
	Attributes map[string]string
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		published: make([]PublishedEntry, 0),
		topicID:   "mock-topic",
	}
}

// TopicID returns the mock topic name
func (m *MockPublisher) TopicID() string {
	return m.topicID
}

// Publish records the published entry and returns a mock message ID
func (m *MockPublisher) Publish(ctx context.Context, entry Entry, attributes map[string]string) (string, error) {
	if m.Error != nil {
		return "", m.Error
	}

	m.published = append(m.published, PublishedEntry{
		Entry:      entry,
		Attributes: attributes,
	})

	return "mock-message-id", nil
}

// Close implements the Publisher interface
func (m *MockPublisher) Close() error {
	return nil
}

// GetPublished returns all published entries
func (m *MockPublisher) GetPublished() []PublishedEntry {
	return m.published
}

// LastPublished returns the last published entry or nil if none exists
func (m *MockPublisher) LastPublished() *PublishedEntry {
	if len(m.published) == 0 {
		return nil
	}
	return &m.published[len(m.published)-1]
}

// Reset clears all published entries and errors
func (m *MockPublisher) Reset() {
	m.published = m.published[:0]
	m.Error = nil
}

// SetError sets an error to be returned by the next Publish call
func (m *MockPublisher) SetError(err error) {
	m.Error = err
}
