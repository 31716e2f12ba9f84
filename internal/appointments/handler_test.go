package appointments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blclinic/appointments/internal/payments"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	svc := NewService(NewMemoryStore(), payments.NewMockGateway(nil), nil, nil, nil, nil)
	return NewHandler(svc, nil)
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func createBooking(t *testing.T, h *Handler, date, slot string) *Appointment {
	t.Helper()
	rr := postJSON(t, h.Create, "/api/appointments", map[string]string{
		"patient_name":     "Asha Rao",
		"patient_email":    "asha@example.com",
		"patient_phone":    "+919876543210",
		"appointment_date": date,
		"appointment_time": slot,
		"reason":           "Kidney stone follow-up",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var appt Appointment
	if err := json.Unmarshal(rr.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode appointment: %v", err)
	}
	return &appt
}

func issueOrder(t *testing.T, h *Handler, apptID string) *payments.Order {
	t.Helper()
	rr := postJSON(t, h.CreatePaymentOrder, "/api/create-payment-order", map[string]any{
		"appointment_id": apptID,
		"amount":         50000,
		"currency":       "INR",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var order payments.Order
	if err := json.Unmarshal(rr.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	return &order
}

func TestHandlerRoot(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	rr := httptest.NewRecorder()
	h.Root(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Clinic API") {
		t.Errorf("unexpected banner: %s", rr.Body.String())
	}
}

func TestHandlerAvailableSlots(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/available-slots?date=2025-10-20", nil)
	rr := httptest.NewRecorder()
	h.AvailableSlots(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var result SlotsResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Slots) != 33 {
		t.Errorf("expected 33 slots, got %d", len(result.Slots))
	}
}

func TestHandlerAvailableSlotsBadDate(t *testing.T) {
	h := newTestHandler(t)

	for _, date := range []string{"", "2025/10/20", "tomorrow"} {
		req := httptest.NewRequest(http.MethodGet, "/api/available-slots?date="+date, nil)
		rr := httptest.NewRecorder()
		h.AvailableSlots(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("date %q: expected 400, got %d", date, rr.Code)
		}
	}
}

func TestHandlerAvailableSlotsClosedDay(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/available-slots?date=2025-10-19", nil)
	rr := httptest.NewRecorder()
	h.AvailableSlots(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var result SlotsResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Slots) != 0 || result.Message != ClosedMessage {
		t.Errorf("unexpected closed-day result: %+v", result)
	}
}

func TestHandlerCreate(t *testing.T) {
	h := newTestHandler(t)

	appt := createBooking(t, h, "2025-10-20", "09:00")
	if appt.ID == "" {
		t.Error("expected generated id")
	}
	if appt.Status != StatusPending {
		t.Errorf("expected pending, got %s", appt.Status)
	}
}

func TestHandlerCreateValidation(t *testing.T) {
	h := newTestHandler(t)

	rr := postJSON(t, h.Create, "/api/appointments", map[string]string{
		"patient_email":    "asha@example.com",
		"patient_phone":    "+919876543210",
		"appointment_date": "2025-10-20",
		"appointment_time": "09:00",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing name, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestHandlerCreatePaymentOrder(t *testing.T) {
	h := newTestHandler(t)
	appt := createBooking(t, h, "2025-10-20", "09:00")

	order := issueOrder(t, h, appt.ID)
	if !strings.HasPrefix(order.ID, "order_mock_") {
		t.Errorf("expected mock order id, got %q", order.ID)
	}
	if order.Amount != 50000 || order.Currency != "INR" {
		t.Errorf("unexpected order: %+v", order)
	}
}

func TestHandlerCreatePaymentOrderErrors(t *testing.T) {
	h := newTestHandler(t)

	rr := postJSON(t, h.CreatePaymentOrder, "/api/create-payment-order", map[string]any{
		"amount": 50000,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without appointment_id, got %d", rr.Code)
	}

	rr = postJSON(t, h.CreatePaymentOrder, "/api/create-payment-order", map[string]any{
		"appointment_id": "some-id",
		"amount":         0,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-positive amount, got %d", rr.Code)
	}

	rr = postJSON(t, h.CreatePaymentOrder, "/api/create-payment-order", map[string]any{
		"appointment_id": "missing",
		"amount":         50000,
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown appointment, got %d", rr.Code)
	}
}

func TestHandlerVerifyPaymentFlow(t *testing.T) {
	h := newTestHandler(t)
	appt := createBooking(t, h, "2025-10-20", "09:00")
	order := issueOrder(t, h, appt.ID)

	rr := postJSON(t, h.VerifyPayment, "/api/verify-payment", map[string]string{
		"appointment_id":      appt.ID,
		"razorpay_order_id":   order.ID,
		"razorpay_payment_id": "pay_mock_1",
		"razorpay_signature":  "sig",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp verifyPaymentResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("unexpected response: %+v", resp)
	}

	// Replaying the same verification hits a terminal record.
	rr = postJSON(t, h.VerifyPayment, "/api/verify-payment", map[string]string{
		"appointment_id":      appt.ID,
		"razorpay_order_id":   order.ID,
		"razorpay_payment_id": "pay_mock_1",
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409 on replay, got %d", rr.Code)
	}
}

func TestHandlerVerifyPaymentRejected(t *testing.T) {
	h := newTestHandler(t)
	appt := createBooking(t, h, "2025-10-20", "09:00")

	rr := postJSON(t, h.VerifyPayment, "/api/verify-payment", map[string]string{
		"appointment_id":      appt.ID,
		"razorpay_order_id":   "order_real_looking",
		"razorpay_payment_id": "pay_1",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Payment verification failed") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestHandlerVerifyPaymentSlotConflict(t *testing.T) {
	h := newTestHandler(t)
	first := createBooking(t, h, "2025-10-20", "09:00")
	second := createBooking(t, h, "2025-10-20", "09:00")
	firstOrder := issueOrder(t, h, first.ID)
	secondOrder := issueOrder(t, h, second.ID)

	rr := postJSON(t, h.VerifyPayment, "/api/verify-payment", map[string]string{
		"appointment_id":      first.ID,
		"razorpay_order_id":   firstOrder.ID,
		"razorpay_payment_id": "pay_1",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("first confirmation expected 200, got %d", rr.Code)
	}

	rr = postJSON(t, h.VerifyPayment, "/api/verify-payment", map[string]string{
		"appointment_id":      second.ID,
		"razorpay_order_id":   secondOrder.ID,
		"razorpay_payment_id": "pay_2",
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409 for lost slot race, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandlerVerifyPaymentUnknownAppointment(t *testing.T) {
	h := newTestHandler(t)

	rr := postJSON(t, h.VerifyPayment, "/api/verify-payment", map[string]string{
		"appointment_id":      "missing",
		"razorpay_order_id":   "order_mock_abc123def456",
		"razorpay_payment_id": "pay_1",
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestHandlerListEmpty(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("empty list should encode as [], got %s", rr.Body.String())
	}
}

func TestHandlerList(t *testing.T) {
	h := newTestHandler(t)
	for i := 0; i < 3; i++ {
		createBooking(t, h, "2025-10-20", fmt.Sprintf("09:%02d", i*20))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	var appts []*Appointment
	if err := json.Unmarshal(rr.Body.Bytes(), &appts); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(appts) != 3 {
		t.Errorf("expected 3 appointments, got %d", len(appts))
	}
}

func TestHandlerWorkflowWebhook(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/workflow-webhook", strings.NewReader(`{"event":"sheet-updated"}`))
	rr := httptest.NewRecorder()
	h.WorkflowWebhook(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "received") {
		t.Errorf("unexpected ack: %s", rr.Body.String())
	}
}

func TestHandlerHealth(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
