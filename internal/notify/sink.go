// Package notify delivers confirmed bookings to downstream systems. All
// delivery is best effort: a sink failure is logged and never surfaces to
// the patient who just paid.
package notify

import "context"

// Confirmation is the finalized booking record pushed to sinks.
type Confirmation struct {
	AppointmentID string `json:"id"`
	PatientName   string `json:"patient_name"`
	PatientEmail  string `json:"patient_email"`
	PatientPhone  string `json:"patient_phone"`
	Date          string `json:"appointment_date"`
	Time          string `json:"appointment_time"`
	Reason        string `json:"reason,omitempty"`
	Status        string `json:"payment_status"`
	OrderRef      string `json:"razorpay_order_id,omitempty"`
	PaymentRef    string `json:"razorpay_payment_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// Sink receives a confirmed booking.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, c Confirmation) error
}
