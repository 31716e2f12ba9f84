package appointments

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/blclinic/appointments/internal/payments"
	"github.com/blclinic/appointments/internal/schedule"
	"github.com/blclinic/appointments/pkg/logging"
)

// Handler exposes the booking lifecycle over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the appointments handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("appointments: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Root handles GET /api/ with a service banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "BL Uro-Stone & Kidney Clinic API"})
}

// AvailableSlots handles GET /api/available-slots?date=YYYY-MM-DD.
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	result, err := h.service.AvailableSlots(r.Context(), date)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidDate) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to compute availability", "error", err, "date", date)
		http.Error(w, "failed to compute availability", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Create handles POST /api/appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.RequestBooking(r.Context(), &req)
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create appointment", "error", err)
		http.Error(w, "failed to create appointment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

type paymentOrderRequest struct {
	Amount        int64  `json:"amount"` // minor units (paise)
	Currency      string `json:"currency"`
	AppointmentID string `json:"appointment_id"`
}

// CreatePaymentOrder handles POST /api/create-payment-order.
func (h *Handler) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	var req paymentOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id is required", http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	order, err := h.service.IssuePaymentOrder(r.Context(), req.AppointmentID, req.Amount, req.Currency)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to create payment order", "error", err, "appointment_id", req.AppointmentID)
		http.Error(w, "payment gateway error", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type verifyPaymentRequest struct {
	OrderRef      string `json:"razorpay_order_id"`
	PaymentRef    string `json:"razorpay_payment_id"`
	Signature     string `json:"razorpay_signature"`
	AppointmentID string `json:"appointment_id"`
}

type verifyPaymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// VerifyPayment handles POST /api/verify-payment.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id is required", http.StatusBadRequest)
		return
	}

	_, err := h.service.ConfirmPayment(r.Context(), req.AppointmentID, payments.Proof{
		OrderRef:   req.OrderRef,
		PaymentRef: req.PaymentRef,
		Signature:  req.Signature,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, verifyPaymentResponse{
			Status:  "success",
			Message: "Payment verified and appointment confirmed",
		})
	case errors.Is(err, ErrVerificationFailed):
		http.Error(w, "Payment verification failed", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrSlotTaken):
		http.Error(w, "slot already booked by another patient", http.StatusConflict)
	case errors.Is(err, ErrTerminalState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("failed to verify payment", "error", err, "appointment_id", req.AppointmentID)
		http.Error(w, "failed to verify payment", http.StatusInternalServerError)
	}
}

// List handles GET /api/appointments. Staff-facing; the endpoint carries
// no authentication, matching the deployed service (a known gap).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	appts, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	if appts == nil {
		appts = []*Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

// WorkflowWebhook handles POST /api/workflow-webhook, the return channel
// the workflow tool can call. The payload is logged and acknowledged.
func (h *Handler) WorkflowWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	h.logger.Info("workflow webhook received", "bytes", len(body))
	writeJSON(w, http.StatusOK, map[string]string{"status": "received", "message": "Webhook data processed"})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrMissingEmail) ||
		errors.Is(err, ErrMissingPhone) ||
		errors.Is(err, ErrMissingTime) ||
		errors.Is(err, schedule.ErrInvalidDate)
}
