package frequency

// #region config

// Config holds the window sizes used by Analyze.
type Config struct {
	RecentLen   int // length of the recent trend (tail of the sequence)
	HotColdSize int // size of the hot and cold digit sets
}

// DefaultConfig returns the windows used by the scoring engine.
func DefaultConfig() Config {
	return Config{
		RecentLen:   10,
		HotColdSize: 3,
	}
}

// #endregion config

// #region stats

// NumDigits is the size of the draw alphabet.
const NumDigits = 10

// DigitCount pairs a digit with its frequency.
type DigitCount struct {
	Digit int `json:"digit"`
	Count int `json:"count"`
}

// Stats is the per-digit aggregate of a sequence.
type Stats struct {
	Counts      [NumDigits]int `json:"counts"`
	Total       int            `json:"total"`
	Ranking     []int          `json:"ranking"` // observed digits, count desc, ties by first encounter
	Hot         []int          `json:"hot"`
	Cold        []int          `json:"cold"`
	RecentTrend []int          `json:"recent_trend"`
}

// #endregion stats
