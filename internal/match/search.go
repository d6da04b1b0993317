package match

import "github.com/KaramelBytes/rowmatch/internal/dataset"

// Result is the outcome of Search. Exact is false when Rows came from the
// closest-match fallback.
type Result struct {
	Exact bool
	Rows  []Scored
}

// Search filters ds by spec and falls back to Closest when nothing matches.
// Exact rows carry a zero Total.
func Search(ds *dataset.Dataset, spec FilterSpec, opt Options) (*Result, error) {
	exact := Filter(ds, spec)
	if len(exact) > 0 {
		rows := make([]Scored, len(exact))
		for i, r := range exact {
			rows[i] = Scored{Row: r}
		}
		return &Result{Exact: true, Rows: rows}, nil
	}
	closest, err := Closest(ds, spec, opt)
	if err != nil {
		return nil, err
	}
	return &Result{Rows: closest}, nil
}

// DatasetRows returns the plain rows of the result, in result order.
func (r *Result) DatasetRows() []dataset.Row {
	out := make([]dataset.Row, len(r.Rows))
	for i, s := range r.Rows {
		out[i] = s.Row
	}
	return out
}
