package history

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// #region errors
var (
	// ErrInvalidObservation wraps every ingestion validation failure.
	ErrInvalidObservation = errors.New("invalid observation")
	// ErrNoHistory is returned when a store holds no observations.
	ErrNoHistory = errors.New("no history")
)
// #endregion errors

// #region observation
// Observation is one recorded draw. Chronological insertion order is the
// sequence; an Observation is never modified once recorded.
type Observation struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	SlotTime  string `json:"time" validate:"required,slottime"`
	SlotIndex int    `json:"draw" validate:"gte=0"`
	Digit     int    `json:"result" validate:"min=0,max=9"`
	DayLabel  string `json:"day_of_week" validate:"required"`
}

// Hour returns the hour of the slot time, or -1 when it cannot be parsed.
func (o Observation) Hour() int {
	h, _, err := parseSlotTime(o.SlotTime)
	if err != nil {
		return -1
	}
	return h
}

// At returns the draw instant in loc. ok is false when date or slot time
// do not parse.
func (o Observation) At(loc *time.Location) (time.Time, bool) {
	day, err := time.ParseInLocation(time.DateOnly, o.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	h, m, err := parseSlotTime(o.SlotTime)
	if err != nil {
		return time.Time{}, false
	}
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), true
}

func (o Observation) String() string {
	return fmt.Sprintf("%s %s #%d -> %d", o.Date, o.SlotTime, o.SlotIndex, o.Digit)
}
// #endregion observation

// #region slot-time
// parseSlotTime accepts "H:MM" and "HH:MM" in 24-hour form.
func parseSlotTime(s string) (hour, minute int, err error) {
	hs, ms, ok := strings.Cut(s, ":")
	if !ok || len(ms) != 2 || len(hs) == 0 || len(hs) > 2 {
		return 0, 0, fmt.Errorf("slot time %q: want H:MM", s)
	}
	hour, err = strconv.Atoi(hs)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("slot time %q: bad hour", s)
	}
	minute, err = strconv.Atoi(ms)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("slot time %q: bad minute", s)
	}
	return hour, minute, nil
}
// #endregion slot-time
