package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []segkafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...segkafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishEvent(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil)

	payload := ReviewerValidatedPayload{
		TotalCandidates:    5,
		ValidatedReviewers: 3,
		ExcludedReviewers:  2,
		RulesApplied:       []string{"manuscript_authors", "max_retractions"},
		ValidatedAt:        time.Now().UTC(),
	}
	require.NoError(t, p.PublishEvent(context.Background(), TopicReviewerValidated, "reviewer.validated", payload))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, TopicReviewerValidated, msg.Topic)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, "reviewer.validated", envelope.EventType)
	assert.Equal(t, "scholarfinder-engine", envelope.Source)
	assert.NotEmpty(t, envelope.EventID)
	assert.Equal(t, envelope.EventID, string(msg.Key))

	var got ReviewerValidatedPayload
	require.NoError(t, json.Unmarshal(envelope.Payload, &got))
	assert.Equal(t, 5, got.TotalCandidates)
	assert.Equal(t, int64(1), p.Sent())
}

func TestPublishWriteFailure(t *testing.T) {
	w := &fakeWriter{err: fmt.Errorf("broker unreachable")}
	p := NewProducerWithWriter(w, nil)

	err := p.PublishEvent(context.Background(), TopicAuditLog, "audit.log", map[string]string{"action": "validate"})
	assert.Error(t, err)
	assert.Equal(t, int64(1), p.Failed())
}

func TestPublishAfterClose(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil)
	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	envelope, err := NewEventEnvelope("audit.log", "test", map[string]string{})
	require.NoError(t, err)
	assert.ErrorIs(t, p.Publish(context.Background(), TopicAuditLog, envelope), ErrProducerClosed)

	// Close is idempotent.
	require.NoError(t, p.Close())
}
