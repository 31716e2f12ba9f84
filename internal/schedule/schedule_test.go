package schedule

import (
	"errors"
	"sort"
	"testing"
	"time"
)

func TestSlotsDefaultShift(t *testing.T) {
	// 2025-10-20 is a Monday.
	slots, err := Slots("2025-10-20", DefaultShift())
	if err != nil {
		t.Fatalf("Slots returned error: %v", err)
	}

	want := (20 - 9) * 60 / 20
	if len(slots) != want {
		t.Fatalf("expected %d slots, got %d", want, len(slots))
	}
	if slots[0] != "09:00" {
		t.Errorf("expected first slot 09:00, got %s", slots[0])
	}
	if slots[len(slots)-1] != "19:40" {
		t.Errorf("expected last slot 19:40, got %s", slots[len(slots)-1])
	}
	if !sort.StringsAreSorted(slots) {
		t.Error("expected slots in chronological order")
	}
	seen := make(map[string]bool, len(slots))
	for _, s := range slots {
		if seen[s] {
			t.Fatalf("duplicate slot %s", s)
		}
		seen[s] = true
	}
}

func TestSlotsClosedWeekday(t *testing.T) {
	// 2025-10-19 is a Sunday.
	slots, err := Slots("2025-10-19", DefaultShift())
	if !errors.Is(err, ErrClinicClosed) {
		t.Fatalf("expected ErrClinicClosed, got %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a closed day, got %d", len(slots))
	}
}

func TestSlotsInvalidDate(t *testing.T) {
	for _, date := range []string{"", "20-10-2025", "2025/10/20", "not-a-date", "2025-13-40"} {
		if _, err := Slots(date, DefaultShift()); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("date %q: expected ErrInvalidDate, got %v", date, err)
		}
	}
}

func TestSlotsInvertedShiftIsEmpty(t *testing.T) {
	shift := DefaultShift()
	shift.OpenHour = 18
	shift.CloseHour = 9

	slots, err := Slots("2025-10-20", shift)
	if err != nil {
		t.Fatalf("inverted shift should not error, got %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected empty schedule for inverted shift, got %d slots", len(slots))
	}
}

func TestSlotsCustomShift(t *testing.T) {
	shift := Shift{OpenHour: 10, CloseHour: 12, SlotMinutes: 30}
	slots, err := Slots("2025-10-21", shift)
	if err != nil {
		t.Fatalf("Slots returned error: %v", err)
	}
	want := []string{"10:00", "10:30", "11:00", "11:30"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %v", len(want), slots)
	}
	for i, label := range want {
		if slots[i] != label {
			t.Errorf("slot %d: expected %s, got %s", i, label, slots[i])
		}
	}
}

func TestSubtract(t *testing.T) {
	labels := []string{"09:00", "09:20", "09:40"}
	open := Subtract(labels, map[string]bool{"09:20": true})
	if len(open) != 2 || open[0] != "09:00" || open[1] != "09:40" {
		t.Fatalf("unexpected open slots: %v", open)
	}

	if got := Subtract(labels, nil); len(got) != 3 {
		t.Fatalf("nil occupancy should keep all slots, got %v", got)
	}
}

func TestClosedOn(t *testing.T) {
	shift := DefaultShift()
	if !shift.ClosedOn(time.Sunday) {
		t.Error("expected Sunday closed")
	}
	if shift.ClosedOn(time.Monday) {
		t.Error("expected Monday open")
	}
}
