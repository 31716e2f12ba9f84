package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/blclinic/appointments/pkg/logging"
)

// WebhookSink posts confirmed bookings to the clinic's workflow endpoint
// (an n8n flow that appends the booking to the front-desk spreadsheet).
type WebhookSink struct {
	url    string
	client *http.Client
	logger *logging.Logger
}

// NewWebhookSink creates a sink for the given endpoint URL. Returns nil
// when no URL is configured so callers can skip wiring it.
func NewWebhookSink(url string, timeout time.Duration, logger *logging.Logger) *WebhookSink {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookSink{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (s *WebhookSink) Name() string { return "workflow-webhook" }

// Deliver posts the confirmation as JSON.
func (s *WebhookSink) Deliver(ctx context.Context, c Confirmation) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("notify: marshal confirmation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: webhook post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}

	s.logger.Info("booking relayed to workflow webhook", "appointment_id", c.AppointmentID, "status", resp.StatusCode)
	return nil
}
