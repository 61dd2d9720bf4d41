package services

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
)

// WebhookPublisher posts serialized events to an HTTP endpoint. With no
// endpoint configured it silently discards everything, which keeps dev
// environments quiet.
type WebhookPublisher struct {
	url     string
	enabled bool
	client  *http.Client
}

// NewWebhookPublisher creates a webhook publisher for the given URL
func NewWebhookPublisher(url string) *WebhookPublisher {
	return &WebhookPublisher{
		url:     url,
		enabled: url != "",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// IsEnabled checks if a transport endpoint is configured
func (p *WebhookPublisher) IsEnabled() bool {
	return p.enabled
}

// Publish delivers one event to the configured endpoint
func (p *WebhookPublisher) Publish(topic string, body []byte) error {
	if !p.enabled {
		return nil
	}

	req, err := http.NewRequest(http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Topic", topic)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("event endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
