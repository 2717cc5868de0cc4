package gbcd

import (
	"github.com/jfcg/sorty"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a histogram's cells.
type Summary struct {
	Min, Max     float64
	Mean, StdDev float64
	NonZero      int
}

// Summary computes statistics over all cells.
func (h *Histogram) Summary() Summary {
	if len(h.Values) == 0 {
		return Summary{}
	}
	s := Summary{
		Min:    floats.Min(h.Values),
		Max:    floats.Max(h.Values),
		Mean:   stat.Mean(h.Values, nil),
		StdDev: stat.StdDev(h.Values, nil),
	}
	for _, v := range h.Values {
		if v != 0 {
			s.NonZero++
		}
	}
	return s
}

// Cell is one histogram cell in decoded form.
type Cell struct {
	Index    int
	Bin      [numAxes]int
	Northern bool
	Value    float64
}

// Top returns the n cells with the largest positive values, highest first.
// Equal values are ordered by ascending index. Fewer than n cells are
// returned when fewer are positive.
func (h *Histogram) Top(n int) []Cell {
	if n <= 0 {
		return nil
	}
	idx := make([]int, 0, 64)
	for i, v := range h.Values {
		if v > 0 {
			idx = append(idx, i)
		}
	}

	v := h.Values
	sorty.Sort(len(idx), func(i, k, r, s int) bool {
		a, b := idx[i], idx[k]
		if v[a] > v[b] || (v[a] == v[b] && a < b) {
			if r != s {
				idx[r], idx[s] = idx[s], idx[r]
			}
			return true
		}
		return false
	})

	if len(idx) > n {
		idx = idx[:n]
	}
	out := make([]Cell, len(idx))
	for j, c := range idx {
		out[j] = Cell{
			Index:    c,
			Bin:      h.space.Unindex(c / 2),
			Northern: c%2 == 0,
			Value:    v[c],
		}
	}
	return out
}
