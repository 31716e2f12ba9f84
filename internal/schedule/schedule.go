// Package schedule computes bookable time slots for a calendar day.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format for appointment dates.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidDate is returned when a date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("schedule: invalid date, expected YYYY-MM-DD")

	// ErrClinicClosed is returned when the clinic does not open at all on
	// the requested weekday. Distinct from a fully booked day.
	ErrClinicClosed = errors.New("schedule: clinic closed on this day")
)

// Shift describes a single daily working shift.
type Shift struct {
	OpenHour    int `json:"open_hour"`  // first bookable hour, 24h clock
	CloseHour   int `json:"close_hour"` // slots stop before this hour
	SlotMinutes int `json:"slot_minutes"`

	// ClosedWeekdays lists weekdays with no shift at all.
	ClosedWeekdays []time.Weekday `json:"closed_weekdays"`
}

// DefaultShift mirrors the clinic's standing hours: 09:00-20:00 in
// 20-minute slots, closed on Sundays.
func DefaultShift() Shift {
	return Shift{
		OpenHour:       9,
		CloseHour:      20,
		SlotMinutes:    20,
		ClosedWeekdays: []time.Weekday{time.Sunday},
	}
}

// ClosedOn reports whether the shift is closed for the given weekday.
func (s Shift) ClosedOn(day time.Weekday) bool {
	for _, closed := range s.ClosedWeekdays {
		if closed == day {
			return true
		}
	}
	return false
}

// ParseDate validates and parses a YYYY-MM-DD date string.
func ParseDate(date string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed, nil
}

// Slots returns every slot start time for the date under the shift, as
// zero-padded HH:MM labels in chronological order. A closed weekday yields
// ErrClinicClosed. An inverted shift (open >= close) yields an empty
// schedule rather than an error; that is a policy choice so operators can
// disable booking by configuration without the API reporting failures.
//
// Slots is pure: occupancy is subtracted by the caller.
func Slots(date string, shift Shift) ([]string, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	if shift.ClosedOn(day.Weekday()) {
		return nil, ErrClinicClosed
	}
	if shift.SlotMinutes <= 0 {
		return nil, fmt.Errorf("schedule: slot length must be positive, got %d", shift.SlotMinutes)
	}

	var labels []string
	for hour := shift.OpenHour; hour < shift.CloseHour; hour++ {
		for minute := 0; minute < 60; minute += shift.SlotMinutes {
			labels = append(labels, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return labels, nil
}

// Subtract filters out occupied labels, preserving order.
func Subtract(labels []string, occupied map[string]bool) []string {
	open := make([]string, 0, len(labels))
	for _, label := range labels {
		if !occupied[label] {
			open = append(open, label)
		}
	}
	return open
}
