package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clockAt(t *testing.T) *Clock {
	t.Helper()
	c, err := NewClock(DefaultConfig())
	require.NoError(t, err)
	return c
}

func at(h, m int) time.Time {
	return time.Date(2025, 3, 14, h, m, 20, 0, time.UTC)
}

func TestRound(t *testing.T) {
	c := clockAt(t)

	tests := []struct {
		name string
		now  time.Time
		want RoundInfo
	}{
		{
			name: "before first draw",
			now:  at(9, 0),
			want: RoundInfo{CurrentTime: "09:00", NextDrawTime: "10:30", DrawNumber: 1, TimeToNext: "1h 30m", TotalDrawsToday: 8},
		},
		{
			name: "minutes only",
			now:  at(11, 15),
			want: RoundInfo{CurrentTime: "11:15", NextDrawTime: "12:00", DrawNumber: 2, TimeToNext: "45m", TotalDrawsToday: 8},
		},
		{
			name: "at announcement",
			now:  at(13, 30),
			want: RoundInfo{CurrentTime: "13:30", CurrentDraw: "13:30", DrawNumber: 3, TotalDrawsToday: 8},
		},
		{
			name: "end of live window",
			now:  at(13, 45),
			want: RoundInfo{CurrentTime: "13:45", CurrentDraw: "13:30", DrawNumber: 3, TotalDrawsToday: 8},
		},
		{
			name: "after live window",
			now:  at(13, 46),
			want: RoundInfo{CurrentTime: "13:46", NextDrawTime: "15:00", DrawNumber: 4, TimeToNext: "1h 14m", TotalDrawsToday: 8},
		},
		{
			name: "last draw live",
			now:  at(21, 10),
			want: RoundInfo{CurrentTime: "21:10", CurrentDraw: "21:00", DrawNumber: 8, TotalDrawsToday: 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, c.Round(tt.now))
		})
	}
}

func TestRound_RollsToTomorrow(t *testing.T) {
	c := clockAt(t)

	info := c.Round(time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC))
	require.False(t, info.Live())
	require.Equal(t, "NEXT ROUND", info.Status())
	require.Equal(t, "10:30", info.TargetTime())
	require.Equal(t, 1, info.DrawNumber)
	require.Equal(t, "12h 30m", info.TimeToNext)
}

func TestRoundInfo_Status(t *testing.T) {
	live := clockAt(t).Round(at(10, 35))
	require.True(t, live.Live())
	require.Equal(t, "LIVE NOW", live.Status())
	require.Equal(t, "10:30", live.TargetTime())
}

func TestNewClock_Invalid(t *testing.T) {
	_, err := NewClock(Config{})
	require.Error(t, err)

	_, err = NewClock(Config{ResultTimes: []string{"10:30", "25:00"}})
	require.Error(t, err)

	_, err = NewClock(Config{ResultTimes: []string{"12:00", "10:30"}})
	require.Error(t, err)
}
