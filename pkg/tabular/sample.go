package tabular

import (
	"math/rand"
	"time"

	"econtab/internal/errors"
)

// SampleSpec describes a random row subset. Set either Size or Fraction,
// not both; a zero Fraction means unset.
type SampleSpec struct {
	Size        int     `json:"size,omitempty" validate:"min=0"`
	Fraction    float64 `json:"fraction,omitempty"`
	Replacement bool    `json:"replacement,omitempty"`
	// WeightColumn optionally names a numeric column of per-row weights.
	WeightColumn string `json:"weight_column,omitempty"`
	// Seed fixes the random source when non-zero, for reproducible draws.
	Seed int64 `json:"seed,omitempty"`
}

// Sample returns a uniformly random subset of rows. Without replacement
// the result contains no duplicate input rows. When WeightColumn is set,
// rows are drawn with probability proportional to their weight.
func (t *Table) Sample(spec SampleSpec) (*Table, error) {
	n := t.NumRows()
	size := spec.Size
	if spec.Fraction != 0 {
		if spec.Size != 0 {
			return nil, errors.InvalidArgument("transform", "sample accepts size or fraction, not both")
		}
		if spec.Fraction < 0 || spec.Fraction > 1 {
			return nil, errors.InvalidArgument("transform", "sample fraction %v outside [0,1]", spec.Fraction)
		}
		size = int(spec.Fraction * float64(n))
	}
	if size < 0 || (!spec.Replacement && size > n) {
		return nil, errors.InvalidArgument("transform", "sample size %d outside [0,%d]", size, n)
	}

	var weights []float64
	if spec.WeightColumn != "" {
		c, ok := t.Column(spec.WeightColumn)
		if !ok {
			return nil, errors.UnknownColumn("transform", spec.WeightColumn)
		}
		if c.Len() != n {
			return nil, errors.InvalidArgument("transform",
				"weight column %q has %d values for %d rows", spec.WeightColumn, c.Len(), n)
		}
		weights = make([]float64, n)
		var total float64
		for i := 0; i < n; i++ {
			w, ok := c.Value(i).AsFloat()
			if !ok || w < 0 {
				return nil, errors.InvalidArgument("transform",
					"weight column %q has a non-numeric or negative weight at row %d", spec.WeightColumn, i)
			}
			weights[i] = w
			total += w
		}
		if total == 0 {
			return nil, errors.InvalidArgument("transform", "weight column %q sums to zero", spec.WeightColumn)
		}
	}

	seed := spec.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	idx := make([]int, 0, size)
	if spec.Replacement {
		for len(idx) < size {
			i, err := drawOne(rng, n, weights)
			if err != nil {
				return nil, err
			}
			idx = append(idx, i)
		}
	} else {
		remaining := make([]int, n)
		for i := range remaining {
			remaining[i] = i
		}
		w := weights
		for len(idx) < size {
			pos, err := drawOne(rng, len(remaining), w)
			if err != nil {
				return nil, err
			}
			idx = append(idx, remaining[pos])
			remaining = append(remaining[:pos], remaining[pos+1:]...)
			if w != nil {
				w = append(w[:pos:pos], w[pos+1:]...)
			}
		}
	}
	return t.takeRows(idx), nil
}

// drawOne picks an index in [0,n), uniformly or weight-proportionally.
// A weighted draw over weights that sum to zero has no valid outcome:
// sampling a zero-weight row would contradict the requested distribution.
func drawOne(rng *rand.Rand, n int, weights []float64) (int, error) {
	if weights == nil {
		return rng.Intn(n), nil
	}
	var total float64
	for _, w := range weights[:n] {
		total += w
	}
	if total == 0 {
		return 0, errors.InvalidArgument("transform",
			"sample size exceeds the number of positively weighted rows")
	}
	target := rng.Float64() * total
	var acc float64
	for i, w := range weights[:n] {
		acc += w
		if target < acc {
			return i, nil
		}
	}
	return n - 1, nil
}
