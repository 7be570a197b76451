package history

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// sampleWeights skews generated digits the way published result sheets do.
var sampleWeights = [10]int{8, 12, 10, 9, 11, 13, 9, 14, 12, 10}

const (
	drawsPerDay    = 8
	drawsPerSunday = 4
)

// GenerateSample produces a demonstration history covering the days before
// now, oldest first: eight draws a day, four on Sunday, slot times 10:30,
// 11:30 and so on. rng must not be nil.
func GenerateSample(days int, now time.Time, rng *rand.Rand) []Observation {
	var obs []Observation
	for back := days; back >= 1; back-- {
		date := now.AddDate(0, 0, -back)
		n := drawsPerDay
		if date.Weekday() == time.Sunday {
			n = drawsPerSunday
		}
		for draw := 1; draw <= n; draw++ {
			obs = append(obs, Observation{
				Date:      date.Format(time.DateOnly),
				SlotTime:  fmt.Sprintf("%d:30", 9+draw),
				SlotIndex: draw,
				Digit:     weightedDigit(rng),
				DayLabel:  date.Weekday().String(),
			})
		}
	}
	return obs
}

func weightedDigit(rng *rand.Rand) int {
	total := 0
	for _, w := range sampleWeights {
		total += w
	}
	r := rng.IntN(total)
	for d, w := range sampleWeights {
		if r < w {
			return d
		}
		r -= w
	}
	return len(sampleWeights) - 1
}
