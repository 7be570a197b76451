package history

import (
	"slices"
	"sync"
)

// History is the in-memory Sequence Store. It is safe for concurrent use and
// hands out copies. Mutating it does not invalidate any analysis cache; the
// owner of both must do that.
type History struct {
	mu  sync.RWMutex
	obs []Observation
}

// New validates obs and returns a store holding them in the given order.
func New(obs ...Observation) (*History, error) {
	if err := ValidateAll(obs); err != nil {
		return nil, err
	}
	return &History{obs: slices.Clone(obs)}, nil
}

// Append validates every observation before adding any of them.
func (h *History) Append(obs ...Observation) error {
	if err := ValidateAll(obs); err != nil {
		return err
	}
	h.mu.Lock()
	h.obs = append(h.obs, obs...)
	h.mu.Unlock()
	return nil
}

// Replace swaps the whole sequence after validating the new one.
func (h *History) Replace(obs []Observation) error {
	if err := ValidateAll(obs); err != nil {
		return err
	}
	h.mu.Lock()
	h.obs = slices.Clone(obs)
	h.mu.Unlock()
	return nil
}

// Digits returns the chronological digit sequence.
func (h *History) Digits() []int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]int, len(h.obs))
	for i, o := range h.obs {
		out[i] = o.Digit
	}
	return out
}

// Observations returns a copy of every recorded observation.
func (h *History) Observations() []Observation {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.obs)
}

// Last returns up to n of the most recent observations, oldest first.
func (h *History) Last(n int) []Observation {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n = min(max(n, 0), len(h.obs))
	return slices.Clone(h.obs[len(h.obs)-n:])
}

// Len returns the number of recorded observations.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.obs)
}
