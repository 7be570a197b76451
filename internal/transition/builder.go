package transition

import "slices"

// #region table

// Table is an order-k transition table: context of k digits → follower counts.
// A built table is never mutated; all accessors return copies.
type Table struct {
	order   int
	windows int
	counts  map[Context]Followers
}

func newTable(order int) *Table {
	return &Table{order: order, counts: make(map[Context]Followers)}
}

// Order returns k.
func (t *Table) Order() int {
	if t == nil {
		return 0
	}
	return t.order
}

// Lookup returns the followers recorded for ctx. ok is false when the
// context was never observed.
func (t *Table) Lookup(ctx Context) (Followers, bool) {
	if t == nil || ctx.Order() != t.order {
		return Followers{}, false
	}
	f, ok := t.counts[ctx]
	return f, ok
}

// Len returns the number of distinct contexts.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.counts)
}

// Windows returns the number of (context, next) windows counted.
func (t *Table) Windows() int {
	if t == nil {
		return 0
	}
	return t.windows
}

// Entries lists every context with its followers, sorted lexicographically by context.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.counts))
	for ctx, f := range t.counts {
		out = append(out, Entry{Context: ctx.Digits(), Followers: f})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return slices.Compare(a.Context, b.Context)
	})
	return out
}

// #endregion table

// #region tables

// Tables bundles the order-1, order-2 and order-3 tables.
type Tables struct {
	byOrder [MaxOrder]*Table
}

// Order returns the table for k in [1, MaxOrder], or nil for any other k.
func (ts Tables) Order(k int) *Table {
	if k < 1 || k > MaxOrder {
		return nil
	}
	return ts.byOrder[k-1]
}

// Lookup resolves ctx against the table of matching order.
func (ts Tables) Lookup(ctx Context) (Followers, bool) {
	return ts.Order(ctx.Order()).Lookup(ctx)
}

// CurrentContext returns the context formed by the last k digits of trend.
// ok is false when trend holds fewer than k digits.
func CurrentContext(trend []int, k int) (Context, bool) {
	if k < 1 || k > MaxOrder || len(trend) < k {
		return Context{}, false
	}
	return NewContext(trend[len(trend)-k:]...), true
}

// #endregion tables

// #region build

// Build scans seq with sliding windows of length k+1 for k = 1..MaxOrder.
// For window [s_i .. s_i+k] the count at table[k][(s_i .. s_i+k-1)][s_i+k]
// is incremented. A sequence shorter than k+1 leaves table k empty.
// Windows containing a value outside 0-9 are skipped.
func Build(seq []int) Tables {
	var ts Tables
	for k := 1; k <= MaxOrder; k++ {
		t := newTable(k)
		for i := 0; i+k < len(seq); i++ {
			window := seq[i : i+k+1]
			if !validWindow(window) {
				continue
			}
			ctx := NewContext(window[:k]...)
			f := t.counts[ctx]
			f[window[k]]++
			t.counts[ctx] = f
			t.windows++
		}
		ts.byOrder[k-1] = t
	}
	return ts
}

func validWindow(w []int) bool {
	return !slices.ContainsFunc(w, func(d int) bool {
		return d < 0 || d >= NumDigits
	})
}

// #endregion build
