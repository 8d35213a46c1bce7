package schedule

import (
	"errors"
	"testing"
	"time"
)

func mustLoadLoc(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

// 2026-02-02 is a Monday, 2026-02-01 a Sunday.
const (
	monday = "2026-02-02"
	sunday = "2026-02-01"
)

func mondayWindow(start, end string) Window {
	return Window{DayOfWeek: 1, StartTime: start, EndTime: end, IsActive: true}
}

func TestAvailableSlotsHourWindow(t *testing.T) {
	loc := mustLoadLoc(t)
	slots, err := AvailableSlots(monday, []Window{mondayWindow("09:00", "10:00")}, nil, loc)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d: %v", len(slots), slots)
	}
	if slots[0] != (Slot{Start: "09:00", End: "09:30"}) || slots[1] != (Slot{Start: "09:30", End: "10:00"}) {
		t.Fatalf("unexpected slots: %v", slots)
	}
}

func TestAvailableSlotsBookedStartExcluded(t *testing.T) {
	loc := mustLoadLoc(t)
	booked := map[string]bool{"09:30": true}
	slots, err := AvailableSlots(monday, []Window{mondayWindow("09:00", "10:00")}, booked, loc)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(slots) != 1 || slots[0].Start != "09:00" {
		t.Fatalf("expected only 09:00, got %v", slots)
	}
}

func TestAvailableSlotsPartialRemainderDropped(t *testing.T) {
	loc := mustLoadLoc(t)
	slots, err := AvailableSlots(monday, []Window{mondayWindow("09:00", "09:45")}, nil, loc)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(slots) != 1 || slots[0] != (Slot{Start: "09:00", End: "09:30"}) {
		t.Fatalf("expected single 09:00-09:30 slot, got %v", slots)
	}
}

func TestAvailableSlotsShortWindow(t *testing.T) {
	loc := mustLoadLoc(t)
	slots, err := AvailableSlots(monday, []Window{mondayWindow("09:00", "09:20")}, nil, loc)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected 0 slots, got %v", slots)
	}
}

func TestAvailableSlotsNoWindowForDay(t *testing.T) {
	loc := mustLoadLoc(t)
	slots, err := AvailableSlots(sunday, []Window{mondayWindow("09:00", "12:00")}, nil, loc)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected 0 slots on sunday, got %v", slots)
	}
}

func TestAvailableSlotsInactiveWindowIgnored(t *testing.T) {
	loc := mustLoadLoc(t)
	w := mondayWindow("09:00", "12:00")
	w.IsActive = false
	slots, err := AvailableSlots(monday, []Window{w}, nil, loc)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected 0 slots from inactive window, got %v", slots)
	}
}

func TestAvailableSlotsMidnightCrossingYieldsNothing(t *testing.T) {
	loc := mustLoadLoc(t)
	slots, err := AvailableSlots(monday, []Window{mondayWindow("22:00", "01:00")}, nil, loc)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected 0 slots for end-before-start window, got %v", slots)
	}
}

func TestAvailableSlotsMalformedWindowFails(t *testing.T) {
	loc := mustLoadLoc(t)
	windows := []Window{
		mondayWindow("09:00", "10:00"),
		mondayWindow("nine", "10:00"),
	}
	_, err := AvailableSlots(monday, windows, nil, loc)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestAvailableSlotsMultipleWindowsKeepOrder(t *testing.T) {
	loc := mustLoadLoc(t)
	windows := []Window{
		mondayWindow("14:00", "15:00"),
		mondayWindow("09:00", "10:00"),
	}
	slots, err := AvailableSlots(monday, windows, nil, loc)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	want := []string{"14:00", "14:30", "09:00", "09:30"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %v", len(want), slots)
	}
	for i, s := range slots {
		if s.Start != want[i] {
			t.Fatalf("slot %d = %s, want %s", i, s.Start, want[i])
		}
	}
}

func TestAvailableSlotsOverlappingWindowsRepeatSlot(t *testing.T) {
	loc := mustLoadLoc(t)
	windows := []Window{
		mondayWindow("09:00", "10:00"),
		mondayWindow("09:00", "09:30"),
	}
	slots, err := AvailableSlots(monday, windows, nil, loc)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}

	// Overlapping windows each emit their own slots; the shared 09:00
	// slot appears once per window and is not deduplicated.
	want := []Slot{
		{Start: "09:00", End: "09:30"},
		{Start: "09:30", End: "10:00"},
		{Start: "09:00", End: "09:30"},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %v", len(want), slots)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slot %d = %v, want %v", i, slots[i], want[i])
		}
	}
}

func TestAvailableSlotsIdempotent(t *testing.T) {
	loc := mustLoadLoc(t)
	windows := []Window{mondayWindow("09:00", "12:00"), mondayWindow("14:00", "16:30")}
	booked := map[string]bool{"10:00": true, "14:30": true}

	first, err := AvailableSlots(monday, windows, booked, loc)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	second, err := AvailableSlots(monday, windows, booked, loc)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("runs differ at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestIsSlotOffered(t *testing.T) {
	loc := mustLoadLoc(t)
	windows := []Window{mondayWindow("09:00", "10:00")}
	booked := map[string]bool{"09:30": true}

	ok, err := IsSlotOffered(monday, "09:00", windows, booked, loc)
	if err != nil {
		t.Fatalf("IsSlotOffered error: %v", err)
	}
	if !ok {
		t.Fatal("expected 09:00 to be offered")
	}

	ok, err = IsSlotOffered(monday, "09:30", windows, booked, loc)
	if err != nil {
		t.Fatalf("IsSlotOffered error: %v", err)
	}
	if ok {
		t.Fatal("expected booked 09:30 to not be offered")
	}

	ok, err = IsSlotOffered(monday, "09:15", windows, nil, loc)
	if err != nil {
		t.Fatalf("IsSlotOffered error: %v", err)
	}
	if ok {
		t.Fatal("expected unaligned 09:15 to not be offered")
	}

	if _, err := IsSlotOffered(monday, "late", windows, nil, loc); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
}

func TestIsDatePast(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2026, 2, 4, 10, 0, 0, 0, loc)
	past, err := IsDatePast("2026-02-03", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if !past {
		t.Fatal("expected date to be past")
	}

	past, err = IsDatePast("2026-02-04", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if past {
		t.Fatal("expected date to be not past")
	}
}

func TestFilterPastSlots(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2026, 2, 2, 9, 40, 0, 0, loc)
	slots := []Slot{
		{Start: "09:00", End: "09:30"},
		{Start: "09:30", End: "10:00"},
		{Start: "10:00", End: "10:30"},
	}
	filtered, err := FilterPastSlots(monday, slots, loc, now)
	if err != nil {
		t.Fatalf("FilterPastSlots error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Start != "10:00" {
		t.Fatalf("expected only 10:00 to remain, got %v", filtered)
	}
}

func TestMinutesClockRoundTrip(t *testing.T) {
	min, err := ParseClockToMinutes("08:05")
	if err != nil {
		t.Fatalf("ParseClockToMinutes error: %v", err)
	}
	if min != 485 {
		t.Fatalf("expected 485 minutes, got %d", min)
	}
	if MinutesToClock(min) != "08:05" {
		t.Fatalf("round trip failed: %s", MinutesToClock(min))
	}
}
