package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/blclinic/appointments/internal/clinic"
	"github.com/blclinic/appointments/internal/notify"
	"github.com/blclinic/appointments/internal/observability/metrics"
	"github.com/blclinic/appointments/internal/payments"
	"github.com/blclinic/appointments/internal/schedule"
	"github.com/blclinic/appointments/pkg/logging"
)

var tracer = otel.Tracer("clinic.internal.appointments")

// ClosedMessage is returned with an empty slot list on closed weekdays so
// clients can distinguish closure from a fully booked day.
const ClosedMessage = "Clinic is closed on this day"

// Service orchestrates the appointment lifecycle: slot discovery, booking
// creation, payment order issuance and payment confirmation.
type Service struct {
	store      Store
	gateway    payments.Gateway
	shifts     clinic.ShiftProvider
	dispatcher *notify.Dispatcher
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
	storeName  string
}

// NewService constructs the lifecycle service. Dispatcher and metrics may
// be nil.
func NewService(store Store, gateway payments.Gateway, shifts clinic.ShiftProvider, dispatcher *notify.Dispatcher, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("appointments: store required")
	}
	if gateway == nil {
		panic("appointments: payment gateway required")
	}
	if shifts == nil {
		shifts = clinic.NewStaticShift(schedule.DefaultShift())
	}
	if logger == nil {
		logger = logging.Default()
	}
	storeName := "postgres"
	if _, ok := store.(*MemoryStore); ok {
		storeName = "memory"
	}
	return &Service{
		store:      store,
		gateway:    gateway,
		shifts:     shifts,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger,
		storeName:  storeName,
	}
}

// SlotsResult is the availability answer for one date.
type SlotsResult struct {
	Slots   []string `json:"available_slots"`
	Message string   `json:"message,omitempty"`
}

// AvailableSlots returns the open slots for a date: the shift schedule
// minus slots already reserved by completed appointments.
func (s *Service) AvailableSlots(ctx context.Context, date string) (*SlotsResult, error) {
	shift, err := s.shifts.Shift(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: load shift: %w", err)
	}

	labels, err := schedule.Slots(date, shift)
	if errors.Is(err, schedule.ErrClinicClosed) {
		return &SlotsResult{Slots: []string{}, Message: ClosedMessage}, nil
	}
	if err != nil {
		return nil, err
	}

	occupied, err := s.store.OccupiedTimes(ctx, date)
	if err != nil {
		return nil, err
	}
	return &SlotsResult{Slots: schedule.Subtract(labels, occupied)}, nil
}

// RequestBooking creates a pending appointment. Availability is
// deliberately not checked here: the slot is claimed at payment
// confirmation, and the first confirmation wins.
func (s *Service) RequestBooking(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.request_booking")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	appt := &Appointment{
		ID:           uuid.NewString(),
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		PatientPhone: req.PatientPhone,
		Date:         req.Date,
		Time:         req.Time,
		Reason:       req.Reason,
		Status:       StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	span.SetAttributes(
		attribute.String("clinic.appointment_id", appt.ID),
		attribute.String("clinic.slot", appt.Date+" "+appt.Time),
	)

	if err := s.store.Insert(ctx, appt); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveBookingCreated(s.storeName)
	s.logger.Info("appointment requested",
		"appointment_id", appt.ID,
		"date", appt.Date,
		"time", appt.Time,
	)
	return appt, nil
}

// IssuePaymentOrder creates a gateway order for the appointment and
// attaches its reference to the record.
func (s *Service) IssuePaymentOrder(ctx context.Context, apptID string, amount int64, currency string) (*payments.Order, error) {
	ctx, span := tracer.Start(ctx, "appointments.issue_payment_order")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.appointment_id", apptID))

	if _, err := s.store.Get(ctx, apptID); err != nil {
		return nil, err
	}

	order, err := s.gateway.CreateOrder(ctx, amount, currency, apptID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.store.AttachOrder(ctx, apptID, order.ID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("payment order issued",
		"appointment_id", apptID,
		"order_id", order.ID,
		"amount", amount,
		"currency", currency,
	)
	return order, nil
}

// ConfirmPayment verifies the payment proof and finalizes the booking.
//
// A verified payment that loses the race for its slot returns ErrSlotTaken:
// the booking is not honored and the record stays pending for manual
// reconciliation (a refund flow is an operator concern, not handled here).
// A rejected proof marks the appointment failed and returns
// ErrVerificationFailed.
func (s *Service) ConfirmPayment(ctx context.Context, apptID string, proof payments.Proof) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.confirm_payment")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.appointment_id", apptID))

	if !s.gateway.Verify(proof) {
		if err := s.store.MarkFailed(ctx, apptID); err != nil {
			span.RecordError(err)
			return nil, err
		}
		s.metrics.ObserveVerification("rejected")
		s.logger.Warn("payment verification rejected",
			"appointment_id", apptID,
			"order_id", proof.OrderRef,
		)
		return nil, ErrVerificationFailed
	}

	if err := s.store.CompleteAndReserve(ctx, apptID, proof.PaymentRef); err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrSlotTaken) {
			s.metrics.ObserveSlotConflict()
			s.metrics.ObserveVerification("slot_conflict")
			s.logger.Error("verified payment lost the slot race; manual reconciliation needed",
				"appointment_id", apptID,
				"payment_id", proof.PaymentRef,
			)
		}
		return nil, err
	}

	appt, err := s.store.Get(ctx, apptID)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveVerification("confirmed")
	s.logger.Info("appointment confirmed",
		"appointment_id", appt.ID,
		"date", appt.Date,
		"time", appt.Time,
	)
	s.dispatcher.Dispatch(notify.Confirmation{
		AppointmentID: appt.ID,
		PatientName:   appt.PatientName,
		PatientEmail:  appt.PatientEmail,
		PatientPhone:  appt.PatientPhone,
		Date:          appt.Date,
		Time:          appt.Time,
		Reason:        appt.Reason,
		Status:        string(appt.Status),
		OrderRef:      appt.OrderRef,
		PaymentRef:    appt.PaymentRef,
		CreatedAt:     appt.CreatedAt.Format(time.RFC3339),
	})
	return appt, nil
}

// List returns every appointment for the staff view.
func (s *Service) List(ctx context.Context) ([]*Appointment, error) {
	return s.store.List(ctx)
}
