package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blclinic/appointments/internal/appointments"
	"github.com/blclinic/appointments/internal/payments"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := appointments.NewService(appointments.NewMemoryStore(), payments.NewMockGateway(nil), nil, nil, nil, nil)
	return New(&Config{
		AppointmentsHandler: appointments.NewHandler(svc, nil),
		CORSAllowedOrigins:  []string{"*"},
	})
}

func TestRouterRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/", "", http.StatusOK},
		{http.MethodGet, "/api/available-slots?date=2025-10-20", "", http.StatusOK},
		{http.MethodGet, "/api/appointments", "", http.StatusOK},
		{http.MethodPost, "/api/workflow-webhook", `{"event":"ping"}`, http.StatusOK},
		{http.MethodGet, "/api/clinic/shift", "", http.StatusNotFound}, // no shift handler wired
		{http.MethodDelete, "/api/appointments", "", http.StatusMethodNotAllowed},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != tc.status {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.path, tc.status, rr.Code)
		}
	}
}

func TestRouterBookingFlow(t *testing.T) {
	r := newTestRouter(t)

	payload, _ := json.Marshal(map[string]string{
		"patient_name":     "Asha Rao",
		"patient_email":    "asha@example.com",
		"patient_phone":    "+919876543210",
		"appointment_date": "2025-10-20",
		"appointment_time": "09:00",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var appt appointments.Appointment
	if err := json.Unmarshal(rr.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode appointment: %v", err)
	}
	if appt.ID == "" || appt.Status != appointments.StatusPending {
		t.Errorf("unexpected appointment: %+v", appt)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "https://clinic.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing CORS headers on preflight")
	}
}
