package schedule

import (
	"errors"
	"fmt"
	"time"
)

const SlotMinutes = 30

var (
	ErrInvalidDate   = errors.New("invalid date format")
	ErrInvalidTime   = errors.New("invalid time format")
	ErrInvalidWindow = errors.New("invalid availability window")
)

// Window is a recurring weekly interval during which consultations may be
// booked. DayOfWeek uses 0=Sunday .. 6=Saturday. Times are wall-clock
// "15:04" strings; no timezone conversion happens here.
type Window struct {
	DayOfWeek int
	StartTime string
	EndTime   string
	IsActive  bool
}

// Slot is a derived 30-minute bookable interval. Slots are never stored;
// they are recomputed from windows and bookings on every query.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func ParseDateTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	if _, err := time.Parse("15:04", timeStr); err != nil {
		return time.Time{}, ErrInvalidTime
	}
	if _, err := ParseDate(dateStr, loc); err != nil {
		return time.Time{}, err
	}

	parsed, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return parsed, nil
}

func ParseClockToMinutes(timeStr string) (int, error) {
	tm, err := time.Parse("15:04", timeStr)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return tm.Hour()*60 + tm.Minute(), nil
}

func MinutesToClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

func IsDatePast(dateStr string, loc *time.Location, now time.Time) (bool, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return false, err
	}
	startToday := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)
	return date.Before(startToday), nil
}

func IsSlotPast(dateStr, timeStr string, loc *time.Location, now time.Time) (bool, error) {
	slot, err := ParseDateTime(dateStr, timeStr, loc)
	if err != nil {
		return false, err
	}
	return !slot.After(now.In(loc)), nil
}

// AvailableSlots computes the free 30-minute slots for a calendar date.
// Only active windows whose DayOfWeek matches the date contribute. A slot
// is skipped when its start time appears in bookedStarts. Windows shorter
// than a slot yield nothing; a trailing remainder that does not fill a
// full slot is dropped; a window whose end does not lie after its start
// yields nothing. A malformed window time fails the whole computation.
//
// Slots are emitted per window, chronologically within each window, in
// window iteration order. Overlapping windows can emit the same
// wall-clock slot more than once.
func AvailableSlots(dateStr string, windows []Window, bookedStarts map[string]bool, loc *time.Location) ([]Slot, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return nil, err
	}
	day := int(date.Weekday())

	slots := make([]Slot, 0)
	for i, w := range windows {
		if !w.IsActive || w.DayOfWeek != day {
			continue
		}

		startMin, err := ParseClockToMinutes(w.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: window %d start %q", ErrInvalidWindow, i, w.StartTime)
		}
		endMin, err := ParseClockToMinutes(w.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: window %d end %q", ErrInvalidWindow, i, w.EndTime)
		}
		if endMin <= startMin {
			continue
		}

		for cursor := startMin; cursor+SlotMinutes <= endMin; cursor += SlotMinutes {
			start := MinutesToClock(cursor)
			if bookedStarts[start] {
				continue
			}
			slots = append(slots, Slot{Start: start, End: MinutesToClock(cursor + SlotMinutes)})
		}
	}

	return slots, nil
}

// SlotStarts flattens slots into their start times, the shape the booking
// form consumes.
func SlotStarts(slots []Slot) []string {
	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	return starts
}

// IsSlotOffered reports whether timeStr is the start of a currently free
// slot for the date.
func IsSlotOffered(dateStr, timeStr string, windows []Window, bookedStarts map[string]bool, loc *time.Location) (bool, error) {
	if _, err := ParseClockToMinutes(timeStr); err != nil {
		return false, err
	}
	slots, err := AvailableSlots(dateStr, windows, bookedStarts, loc)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s.Start == timeStr {
			return true, nil
		}
	}
	return false, nil
}

// FilterPastSlots drops slots whose start is not after now. Callers apply
// it only when the requested date is today.
func FilterPastSlots(dateStr string, slots []Slot, loc *time.Location, now time.Time) ([]Slot, error) {
	filtered := make([]Slot, 0, len(slots))
	for _, s := range slots {
		past, err := IsSlotPast(dateStr, s.Start, loc, now)
		if err != nil {
			return nil, err
		}
		if !past {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}
