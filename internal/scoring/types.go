package scoring

import "github.com/danielpatrickdp/fatafat-forecast/internal/transition"

// #region config

// Config holds the blend weights. The defaults are the production values;
// tests and backtests may override them.
type Config struct {
	BaseScore         float64                      // starting score of every digit
	FrequencyWeight   float64                      // share of the frequency percentage
	RecencyWindow     int                          // tail of the recent trend used for recency
	RecencyWeight     float64                      // points for a digit filling the whole window
	TransitionWeights [transition.MaxOrder]float64 // order-1, order-2, order-3
	TransitionCap     float64                      // ceiling on the summed transition term
	HotBonus          float64                      // added for hot digits
	ColdPenalty       float64                      // subtracted for cold digits
	HourWeight        float64                      // time-of-day term scale
	LuckyDigits       []int                        // digits receiving the fixed bonus
	LuckyBonus        float64                      // fixed bonus value
	MinScore          float64                      // clamp floor before normalization
	MaxScore          float64                      // clamp ceiling before normalization
}

// DefaultConfig returns the production weights.
func DefaultConfig() Config {
	return Config{
		BaseScore:         5.0,
		FrequencyWeight:   0.25,
		RecencyWindow:     5,
		RecencyWeight:     20,
		TransitionWeights: [transition.MaxOrder]float64{0.30, 0.25, 0.20},
		TransitionCap:     35.0,
		HotBonus:          10,
		ColdPenalty:       5,
		HourWeight:        8,
		LuckyDigits:       []int{1, 2, 3, 5, 8},
		LuckyBonus:        3,
		MinScore:          1.0,
		MaxScore:          50.0,
	}
}

// #endregion config

// #region breakdown

// Breakdown records every term that contributed to one digit's score.
type Breakdown struct {
	Digit             int                          `json:"digit"`
	Base              float64                      `json:"base"`
	Frequency         float64                      `json:"frequency"`
	Recency           float64                      `json:"recency"`
	TransitionByOrder [transition.MaxOrder]float64 `json:"transition_by_order"` // before the cap
	Transition        float64                      `json:"transition"`          // after the cap
	HotCold           float64                      `json:"hot_cold"`
	TimeOfDay         float64                      `json:"time_of_day"`
	Bias              float64                      `json:"bias"`
	Raw               float64                      `json:"raw"`
	Clamped           float64                      `json:"clamped"`
}

// #endregion breakdown

// #region distribution

// DigitScore pairs a digit with its normalized score.
type DigitScore struct {
	Digit int     `json:"digit"`
	Score float64 `json:"score"`
}

// Distribution is the normalized, ranked score over digits 0-9.
type Distribution struct {
	Scores     [transition.NumDigits]float64   `json:"probabilities"`
	Ranked     []DigitScore                    `json:"sorted_predictions"`
	TopDigit   int                             `json:"top_prediction"`
	TopScore   float64                         `json:"top_probability"`
	Breakdowns [transition.NumDigits]Breakdown `json:"-"`
}

// #endregion distribution

// #region method

// Method labels which signal most plausibly explains a prediction.
// It is display-only and never feeds back into scoring.
type Method string

const (
	MethodHotNumber   Method = "Hot Number Analysis"
	MethodRecentTrend Method = "Recent Trend Analysis"
	MethodStatistical Method = "Statistical Pattern"
)

// #endregion method
