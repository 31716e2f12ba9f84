package appointments

import (
	"strings"
	"time"

	"github.com/blclinic/appointments/internal/schedule"
)

// PaymentStatus is the appointment payment lifecycle state.
type PaymentStatus string

const (
	// StatusPending is the initial state: booked, not yet paid.
	StatusPending PaymentStatus = "pending"
	// StatusCompleted is terminal: payment verified, slot reserved.
	StatusCompleted PaymentStatus = "completed"
	// StatusFailed is terminal: payment verification rejected.
	StatusFailed PaymentStatus = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s PaymentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Appointment is a booking record. It is never deleted; completed and
// failed rows stay behind as the audit trail.
type Appointment struct {
	ID           string        `json:"id"`
	PatientName  string        `json:"patient_name"`
	PatientEmail string        `json:"patient_email"`
	PatientPhone string        `json:"patient_phone"`
	Date         string        `json:"appointment_date"` // YYYY-MM-DD
	Time         string        `json:"appointment_time"` // HH:MM slot label
	Reason       string        `json:"reason,omitempty"`
	Status       PaymentStatus `json:"payment_status"`
	OrderRef     string        `json:"razorpay_order_id,omitempty"`
	PaymentRef   string        `json:"razorpay_payment_id,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Clone returns a copy so store internals never leak mutable state.
func (a *Appointment) Clone() *Appointment {
	cp := *a
	return &cp
}

// CreateRequest is the payload for booking an appointment.
type CreateRequest struct {
	PatientName  string `json:"patient_name"`
	PatientEmail string `json:"patient_email"`
	PatientPhone string `json:"patient_phone"`
	Date         string `json:"appointment_date"`
	Time         string `json:"appointment_time"`
	Reason       string `json:"reason,omitempty"`
}

// Validate checks required fields. Slot availability is deliberately not
// checked here: the slot is only claimed when payment is confirmed, so two
// pending bookings may target the same slot and the first confirmation wins.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.PatientName) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.PatientEmail) == "" {
		return ErrMissingEmail
	}
	if strings.TrimSpace(r.PatientPhone) == "" {
		return ErrMissingPhone
	}
	if _, err := schedule.ParseDate(r.Date); err != nil {
		return err
	}
	if strings.TrimSpace(r.Time) == "" {
		return ErrMissingTime
	}
	return nil
}
