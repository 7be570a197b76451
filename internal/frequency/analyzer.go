package frequency

import "slices"

// #region analyze

// Analyze counts every digit, extracts the recent trend and selects the hot
// and cold sets. An empty sequence yields zero counts and empty sets.
//
// The ranking only contains digits that were observed. Digits with equal
// counts keep the order in which they first appeared in seq, so the hot set
// is the head and the cold set the tail of that ranking.
func Analyze(seq []int, cfg Config) Stats {
	var s Stats
	var encounter []int
	for _, d := range seq {
		if d < 0 || d >= NumDigits {
			continue
		}
		if s.Counts[d] == 0 {
			encounter = append(encounter, d)
		}
		s.Counts[d]++
		s.Total++
	}

	s.Ranking = append([]int{}, encounter...)
	slices.SortStableFunc(s.Ranking, func(a, b int) int {
		return s.Counts[b] - s.Counts[a]
	})

	n := min(max(cfg.HotColdSize, 0), len(s.Ranking))
	s.Hot = append([]int{}, s.Ranking[:n]...)
	s.Cold = append([]int{}, s.Ranking[len(s.Ranking)-n:]...)

	recent := min(max(cfg.RecentLen, 0), len(seq))
	s.RecentTrend = append([]int{}, seq[len(seq)-recent:]...)
	return s
}

// #endregion analyze

// #region accessors

// Count returns how often d was observed.
func (s Stats) Count(d int) int {
	if d < 0 || d >= NumDigits {
		return 0
	}
	return s.Counts[d]
}

// IsHot reports whether d is in the hot set.
func (s Stats) IsHot(d int) bool {
	return slices.Contains(s.Hot, d)
}

// IsCold reports whether d is in the cold set.
func (s Stats) IsCold(d int) bool {
	return slices.Contains(s.Cold, d)
}

// Percentages returns each digit's share of the total, in percent.
// All zero when nothing was observed.
func (s Stats) Percentages() [NumDigits]float64 {
	var out [NumDigits]float64
	if s.Total == 0 {
		return out
	}
	for d, c := range s.Counts {
		out[d] = float64(c) / float64(s.Total) * 100
	}
	return out
}

// MostFrequent returns up to n digits from the head of the ranking.
func (s Stats) MostFrequent(n int) []DigitCount {
	n = min(max(n, 0), len(s.Ranking))
	out := make([]DigitCount, 0, n)
	for _, d := range s.Ranking[:n] {
		out = append(out, DigitCount{Digit: d, Count: s.Counts[d]})
	}
	return out
}

// LeastFrequent returns up to n digits from the tail of the ranking,
// least frequent first.
func (s Stats) LeastFrequent(n int) []DigitCount {
	n = min(max(n, 0), len(s.Ranking))
	out := make([]DigitCount, 0, n)
	for i := len(s.Ranking) - 1; i >= len(s.Ranking)-n; i-- {
		d := s.Ranking[i]
		out = append(out, DigitCount{Digit: d, Count: s.Counts[d]})
	}
	return out
}

// EvenOdd splits the total into even and odd draws.
func (s Stats) EvenOdd() (even, odd int) {
	for d, c := range s.Counts {
		if d%2 == 0 {
			even += c
		} else {
			odd += c
		}
	}
	return even, odd
}

// #endregion accessors
