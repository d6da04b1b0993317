package match

import "github.com/KaramelBytes/rowmatch/internal/dataset"

// Filter returns the rows whose value equals the target in every active
// constraint, compared as normalized text for both column kinds. With no
// active constraints every row is returned. Order follows the dataset.
func Filter(ds *dataset.Dataset, spec FilterSpec) []dataset.Row {
	if ds.Empty() {
		return nil
	}
	acts := spec.resolve(ds)
	out := make([]dataset.Row, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		if matchesAll(r, acts) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(r dataset.Row, acts []active) bool {
	for _, a := range acts {
		if Normalize(r.Values[a.col].Raw) != a.norm {
			return false
		}
	}
	return true
}
