package services

import (
	"sync"
	"testing"

	"bibliocirc/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu        sync.Mutex
	published []capturedPublish
}

type capturedPublish struct {
	Topic string
	Body  []byte
}

func (p *capturePublisher) Publish(topic string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, capturedPublish{Topic: topic, Body: body})
	return nil
}

func (p *capturePublisher) All() []capturedPublish {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]capturedPublish(nil), p.published...)
}

func TestEmitterDeliversEnvelopes(t *testing.T) {
	pub := &capturePublisher{}
	em := NewEmitter(pub, 16)

	em.Emit(domain.TopicLoanCreated, domain.LoanEvent{LoanID: 1, PatronID: 4})
	em.Emit(domain.TopicLoanReturned, domain.LoanEvent{LoanID: 1, PatronID: 4})
	em.Close()

	published := pub.All()
	require.Len(t, published, 2)
	assert.Equal(t, domain.TopicLoanCreated, published[0].Topic)
	assert.Equal(t, domain.TopicLoanReturned, published[1].Topic)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(published[0].Body, &envelope))
	assert.NotEmpty(t, envelope.ID)
	assert.Equal(t, domain.TopicLoanCreated, envelope.Topic)
	assert.False(t, envelope.OccurredAt.IsZero())
}

func TestEmitterCloseIsIdempotent(t *testing.T) {
	em := NewEmitter(&capturePublisher{}, 4)
	em.Emit(domain.TopicLoanCreated, domain.LoanEvent{LoanID: 1})
	em.Close()
	em.Close()
}

func TestWebhookPublisherDisabledWithoutURL(t *testing.T) {
	pub := NewWebhookPublisher("")
	assert.False(t, pub.IsEnabled())
	assert.NoError(t, pub.Publish(domain.TopicLoanCreated, []byte(`{}`)))
}
