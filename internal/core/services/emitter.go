package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventEmitter is what the circulation services see: fire-and-forget
// domain event emission that never blocks or fails the operation that
// produced the event.
type EventEmitter interface {
	Emit(topic string, payload interface{})
}

// Publisher delivers one serialized event to the notification
// transport. Delivery is at-least-once and best-effort; the transport
// behind it (message bus, webhook relay) is an external collaborator.
type Publisher interface {
	Publish(topic string, body []byte) error
}

// Envelope wraps an event payload for the wire
type Envelope struct {
	ID         string      `json:"id"`
	Topic      string      `json:"topic"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Emitter decouples domain transactions from publish latency: events go
// onto a buffered channel and a single goroutine drains it towards the
// Publisher. A slow or failing transport only ever costs dropped
// notifications, never a failed loan or reservation.
type Emitter struct {
	pub       Publisher
	ch        chan Envelope
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewEmitter creates and starts an emitter with the given queue size
func NewEmitter(pub Publisher, buffer int) *Emitter {
	if buffer <= 0 {
		buffer = 256
	}
	e := &Emitter{
		pub: pub,
		ch:  make(chan Envelope, buffer),
	}
	e.wg.Add(1)
	go e.run()
	return e
}

func (e *Emitter) run() {
	defer e.wg.Done()
	for ev := range e.ch {
		body, err := json.Marshal(ev)
		if err != nil {
			log.Printf("❌ Event %s marshal error: %v", ev.Topic, err)
			continue
		}
		if err := e.pub.Publish(ev.Topic, body); err != nil {
			log.Printf("❌ Event %s publish error: %v", ev.Topic, err)
		}
	}
}

// Emit queues an event for delivery. When the queue is full the event
// is dropped and logged rather than blocking the caller.
func (e *Emitter) Emit(topic string, payload interface{}) {
	ev := Envelope{
		ID:         uuid.NewString(),
		Topic:      topic,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
	select {
	case e.ch <- ev:
	default:
		log.Printf("⚠️ Event queue full, dropped %s", topic)
	}
}

// Close drains the queue and stops the delivery goroutine
func (e *Emitter) Close() {
	e.closeOnce.Do(func() {
		close(e.ch)
	})
	e.wg.Wait()
}
