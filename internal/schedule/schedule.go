package schedule

import (
	"fmt"
	"time"
)

// #region config

// Config lists the daily result announcement times and how long a result
// stays live after it is announced.
type Config struct {
	ResultTimes []string      `yaml:"result_times"` // "HH:MM", ascending
	LiveWindow  time.Duration `yaml:"live_window"`
}

// DefaultConfig returns the eight-round daily schedule.
func DefaultConfig() Config {
	return Config{
		ResultTimes: []string{"10:30", "12:00", "13:30", "15:00", "16:30", "18:00", "19:30", "21:00"},
		LiveWindow:  15 * time.Minute,
	}
}

// #endregion config

// #region round-info

// RoundInfo describes where now falls in the daily schedule. Exactly one of
// CurrentDraw and NextDrawTime is set.
type RoundInfo struct {
	CurrentTime     string `json:"current_time"`
	CurrentDraw     string `json:"current_draw,omitempty"`
	NextDrawTime    string `json:"next_draw_time,omitempty"`
	DrawNumber      int    `json:"draw_number"`
	TimeToNext      string `json:"time_to_next,omitempty"`
	TotalDrawsToday int    `json:"total_draws_today"`
}

// Live reports whether a result is inside its live window.
func (r RoundInfo) Live() bool {
	return r.CurrentDraw != ""
}

// Status is the display label for the round.
func (r RoundInfo) Status() string {
	if r.Live() {
		return "LIVE NOW"
	}
	return "NEXT ROUND"
}

// TargetTime is the draw the prediction is for.
func (r RoundInfo) TargetTime() string {
	if r.Live() {
		return r.CurrentDraw
	}
	return r.NextDrawTime
}

// #endregion round-info

// #region clock

// Clock resolves round information against a parsed schedule.
type Clock struct {
	times  []string
	slots  []int // minutes after midnight
	window int   // minutes
}

// NewClock parses the configured result times.
func NewClock(config Config) (*Clock, error) {
	if len(config.ResultTimes) == 0 {
		return nil, fmt.Errorf("schedule: no result times")
	}
	c := &Clock{
		times:  append([]string(nil), config.ResultTimes...),
		slots:  make([]int, len(config.ResultTimes)),
		window: int(config.LiveWindow / time.Minute),
	}
	for i, s := range config.ResultTimes {
		var h, m int
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil || h < 0 || h > 23 || m < 0 || m > 59 {
			return nil, fmt.Errorf("schedule: bad result time %q", s)
		}
		c.slots[i] = h*60 + m
		if i > 0 && c.slots[i] <= c.slots[i-1] {
			return nil, fmt.Errorf("schedule: result times not ascending at %q", s)
		}
	}
	return c, nil
}

// Round places now in the schedule. Minutes are compared, seconds ignored.
// After the last live window the next draw is tomorrow's first.
func (c *Clock) Round(now time.Time) RoundInfo {
	info := RoundInfo{
		CurrentTime:     now.Format("15:04"),
		TotalDrawsToday: len(c.slots),
	}
	cur := now.Hour()*60 + now.Minute()

	for i, slot := range c.slots {
		if cur < slot {
			info.NextDrawTime = c.times[i]
			info.DrawNumber = i + 1
			info.TimeToNext = formatWait(slot - cur)
			return info
		}
		if cur <= slot+c.window {
			info.CurrentDraw = c.times[i]
			info.DrawNumber = i + 1
			return info
		}
	}

	first := c.slots[0]
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, first/60, first%60, 0, 0, now.Location())
	wait := tomorrow.Sub(now)
	info.NextDrawTime = c.times[0]
	info.DrawNumber = 1
	info.TimeToNext = fmt.Sprintf("%dh %dm", int(wait.Hours())%24, int(wait.Minutes())%60)
	return info
}

// Slots returns the configured result times.
func (c *Clock) Slots() []string {
	return append([]string(nil), c.times...)
}

func formatWait(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// #endregion clock
