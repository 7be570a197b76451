package transition

import (
	"fmt"
	"strings"
)

// #region constants

// MaxOrder is the longest context the builder tracks.
const MaxOrder = 3

// NumDigits is the size of the draw alphabet (0-9).
const NumDigits = 10

// #endregion constants

// #region context

// Context is the tuple of the most recent k digits, used as a lookup key
// into an order-k table. The zero value is the empty context.
type Context struct {
	digits [MaxOrder]int8
	order  int8
}

// NewContext builds a context from digits ordered oldest first.
// Only the last MaxOrder digits are kept.
func NewContext(digits ...int) Context {
	if len(digits) > MaxOrder {
		digits = digits[len(digits)-MaxOrder:]
	}
	var c Context
	for i, d := range digits {
		c.digits[i] = int8(d)
	}
	c.order = int8(len(digits))
	return c
}

// Order returns the number of digits in the context.
func (c Context) Order() int {
	return int(c.order)
}

// Digits returns the context digits, oldest first.
func (c Context) Digits() []int {
	out := make([]int, c.order)
	for i := range out {
		out[i] = int(c.digits[i])
	}
	return out
}

// String renders the context as a tuple, e.g. "(1, 2)".
func (c Context) String() string {
	parts := make([]string, c.order)
	for i := range parts {
		parts[i] = fmt.Sprintf("%d", c.digits[i])
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// #endregion context

// #region followers

// Followers counts how often each digit followed a context.
// It is a value type: callers receive a copy and cannot mutate a built table.
type Followers [NumDigits]int

// FollowerCount pairs a digit with the number of times it followed a context.
type FollowerCount struct {
	Digit int `json:"digit"`
	Count int `json:"count"`
}

// Total returns the number of observed continuations.
func (f Followers) Total() int {
	var n int
	for _, c := range f {
		n += c
	}
	return n
}

// Probability returns count[d]/total, or 0 when the context has no followers.
func (f Followers) Probability(d int) float64 {
	if d < 0 || d >= NumDigits {
		return 0
	}
	total := f.Total()
	if total == 0 {
		return 0
	}
	return float64(f[d]) / float64(total)
}

// Top returns up to n non-zero followers ordered by count descending,
// ties broken by ascending digit.
func (f Followers) Top(n int) []FollowerCount {
	var out []FollowerCount
	for d, c := range f {
		if c > 0 {
			out = append(out, FollowerCount{Digit: d, Count: c})
		}
	}
	// insertion sort: at most ten elements
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Count > out[j-1].Count; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// #endregion followers

// #region entry

// Entry is one row of a table in a serializable form.
type Entry struct {
	Context   []int     `json:"context"`
	Followers Followers `json:"followers"`
}

// #endregion entry
