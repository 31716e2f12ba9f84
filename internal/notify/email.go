package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/blclinic/appointments/pkg/logging"
)

// EmailSink emails each confirmed booking to the clinic inbox via
// SendGrid, so the front desk has a trail independent of the workflow
// webhook.
type EmailSink struct {
	client    *sendgrid.Client
	fromEmail string
	toEmail   string
	logger    *logging.Logger
}

// EmailConfig holds SendGrid settings.
type EmailConfig struct {
	APIKey    string
	FromEmail string
	ToEmail   string
}

// NewEmailSink creates the sink, or nil when not configured.
func NewEmailSink(cfg EmailConfig, logger *logging.Logger) *EmailSink {
	if cfg.APIKey == "" || cfg.ToEmail == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &EmailSink{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		toEmail:   cfg.ToEmail,
		logger:    logger,
	}
}

func (s *EmailSink) Name() string { return "clinic-email" }

// Deliver sends a plain-text confirmation summary.
func (s *EmailSink) Deliver(ctx context.Context, c Confirmation) error {
	subject := fmt.Sprintf("Appointment confirmed: %s on %s at %s", c.PatientName, c.Date, c.Time)
	body := fmt.Sprintf(`Payment received, appointment confirmed.

Patient: %s
Phone: %s
Email: %s
Date: %s
Time: %s
Reason: %s
Payment ref: %s
`, c.PatientName, c.PatientPhone, c.PatientEmail, c.Date, c.Time, c.Reason, c.PaymentRef)

	from := mail.NewEmail("Clinic Bookings", s.fromEmail)
	to := mail.NewEmail("", s.toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("notify: sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify: sendgrid returned status %d", resp.StatusCode)
	}

	s.logger.Info("confirmation email sent", "appointment_id", c.AppointmentID, "to", s.toEmail)
	return nil
}
