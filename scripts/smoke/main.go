// Package main implements an end-to-end smoke test for the booking flow.
//
// It drives a running API through the full lifecycle: availability lookup,
// booking creation, payment order issuance and verification, then checks
// the slot disappeared from availability. Run it against a dev server using
// the mock payment gateway; real credentials would charge a card.
//
// Usage:
//
//	go run scripts/smoke/main.go [--api=URL] [--date=YYYY-MM-DD] [--slot=HH:MM]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

var (
	flagAPI  string
	flagDate string
	flagSlot string
)

func init() {
	flag.StringVar(&flagAPI, "api", "http://localhost:8080", "API base URL")
	flag.StringVar(&flagDate, "date", "", "appointment date (default: next Monday)")
	flag.StringVar(&flagSlot, "slot", "", "slot label (default: first available)")
}

type slotsResponse struct {
	Slots   []string `json:"available_slots"`
	Message string   `json:"message"`
}

type appointment struct {
	ID     string `json:"id"`
	Status string `json:"payment_status"`
}

type order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func main() {
	flag.Parse()

	date := flagDate
	if date == "" {
		date = nextMonday()
	}

	fmt.Printf("smoke test against %s, date %s\n\n", flagAPI, date)

	var slots slotsResponse
	step("fetch availability", getJSON("/api/available-slots?date="+date, &slots))
	if len(slots.Slots) == 0 {
		fail("no available slots on %s (%s)", date, slots.Message)
	}
	slot := flagSlot
	if slot == "" {
		slot = slots.Slots[0]
	}
	fmt.Printf("  %d slots open, booking %s\n", len(slots.Slots), slot)

	var appt appointment
	step("create appointment", postJSON("/api/appointments", map[string]string{
		"patient_name":     "Smoke Test",
		"patient_email":    "smoke@example.com",
		"patient_phone":    "+910000000000",
		"appointment_date": date,
		"appointment_time": slot,
		"reason":           "smoke test booking",
	}, &appt))
	if appt.Status != "pending" {
		fail("expected pending appointment, got %q", appt.Status)
	}

	var ord order
	step("create payment order", postJSON("/api/create-payment-order", map[string]any{
		"appointment_id": appt.ID,
		"amount":         50000,
		"currency":       "INR",
	}, &ord))

	var verify map[string]string
	step("verify payment", postJSON("/api/verify-payment", map[string]string{
		"appointment_id":      appt.ID,
		"razorpay_order_id":   ord.ID,
		"razorpay_payment_id": "pay_smoke_" + appt.ID[:8],
		"razorpay_signature":  "smoke",
	}, &verify))
	if verify["status"] != "success" {
		fail("verification did not succeed: %v (is the server running the mock gateway?)", verify)
	}

	var after slotsResponse
	step("re-fetch availability", getJSON("/api/available-slots?date="+date, &after))
	for _, s := range after.Slots {
		if s == slot {
			fail("slot %s still listed after confirmation", slot)
		}
	}

	fmt.Println("\nall steps passed")
}

func step(name string, err error) {
	if err != nil {
		fail("%s: %v", name, err)
	}
	fmt.Printf("ok: %s\n", name)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}

func getJSON(path string, out any) error {
	resp, err := http.Get(flagAPI + path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func postJSON(path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(flagAPI+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func nextMonday() string {
	d := time.Now()
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}
