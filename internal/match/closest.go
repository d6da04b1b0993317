package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/rowmatch/internal/dataset"
)

// DefaultK is the number of closest rows returned when Options.K is not set.
const DefaultK = 5

// Scaling selects how numeric distances are weighted before summing.
type Scaling int

const (
	// ScaleNone sums raw absolute differences. Columns with large magnitudes
	// dominate the total; this is the default ranking.
	ScaleNone Scaling = iota
	// ScaleRange divides each numeric difference by the column's observed
	// range (max - min). Opt-in only.
	ScaleRange
)

func (s Scaling) String() string {
	if s == ScaleRange {
		return "range"
	}
	return "none"
}

// ParseScaling maps a flag or config value to a Scaling.
func ParseScaling(s string) (Scaling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ScaleNone, nil
	case "range", "minmax":
		return ScaleRange, nil
	default:
		return ScaleNone, fmt.Errorf("invalid scaling %q (use none or range)", s)
	}
}

// Options tunes Closest.
type Options struct {
	// K bounds the result size; <= 0 means DefaultK.
	K int
	// Scaling of numeric distances.
	Scaling Scaling
	// MissingPenalty is the distance charged when a row has no value in a
	// constrained Numeric column. Zero means +Inf, ranking such rows after
	// every row that has the value.
	MissingPenalty float64
}

func (o Options) k() int {
	if o.K <= 0 {
		return DefaultK
	}
	return o.K
}

func (o Options) missing() float64 {
	if o.MissingPenalty <= 0 {
		return math.Inf(1)
	}
	return o.MissingPenalty
}

// Scored is a row with its per-column distances and their sum.
type Scored struct {
	Row       dataset.Row
	Distances map[string]float64
	Total     float64
}

// scorer computes one column's distance for a row.
type scorer struct {
	active
	num   float64
	scale float64
}

// Closest ranks every row by total distance to the active constraints and
// returns the first min(K, rows) in ascending order, ties broken by original
// position. Numeric columns contribute |value - target|; categorical columns
// contribute 0 on a normalized match and 1 otherwise. A non-numeric target for
// a Numeric column fails the whole call with *UnparseableTargetError.
func Closest(ds *dataset.Dataset, spec FilterSpec, opt Options) ([]Scored, error) {
	if ds.Empty() {
		return nil, nil
	}
	scorers, err := newScorers(ds, spec.resolve(ds), opt.Scaling)
	if err != nil {
		return nil, err
	}
	penalty := opt.missing()

	scored := make([]Scored, len(ds.Rows))
	for i, r := range ds.Rows {
		s := Scored{Row: r, Distances: make(map[string]float64, len(scorers))}
		for _, sc := range scorers {
			d := sc.distance(r.Values[sc.col], penalty)
			s.Distances[sc.name] = d
			s.Total += d
		}
		scored[i] = s
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Total != scored[j].Total {
			return scored[i].Total < scored[j].Total
		}
		return scored[i].Row.Index < scored[j].Row.Index
	})
	if k := opt.k(); len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// newScorers parses every numeric target up front so a bad one fails before
// any row is scored.
func newScorers(ds *dataset.Dataset, acts []active, scaling Scaling) ([]scorer, error) {
	out := make([]scorer, 0, len(acts))
	for _, a := range acts {
		sc := scorer{active: a, scale: 1}
		if a.kind == dataset.Numeric {
			n, ok := ds.ParseNumber(a.target)
			if !ok {
				return nil, &UnparseableTargetError{Column: a.name, Value: a.target}
			}
			sc.num = n
			if scaling == ScaleRange {
				sc.scale = columnRange(ds, a.col)
			}
		}
		out = append(out, sc)
	}
	return out, nil
}

func (s scorer) distance(v dataset.Value, missingPenalty float64) float64 {
	if s.kind != dataset.Numeric {
		if Normalize(v.Raw) == s.norm {
			return 0
		}
		return 1
	}
	if v.Missing {
		return missingPenalty
	}
	return math.Abs(v.Num-s.num) / s.scale
}

// columnRange is max-min over present values, or 1 when the column is flat.
func columnRange(ds *dataset.Dataset, col int) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range ds.Rows {
		v := r.Values[col]
		if v.Missing {
			continue
		}
		lo = math.Min(lo, v.Num)
		hi = math.Max(hi, v.Num)
	}
	if hi <= lo {
		return 1
	}
	return hi - lo
}
