// Package match narrows a dataset to rows equal to requested column values and,
// when none are equal, ranks rows by a composite distance to those values.
//
// Both operations are pure: they read the dataset and the FilterSpec and
// return new slices. Row.Index is preserved so callers can map results back to
// the source.
package match

import (
	"strings"

	"github.com/KaramelBytes/rowmatch/internal/dataset"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Constraint requests Target in Column. A blank Target places no constraint.
type Constraint struct {
	Column string
	Target string
}

// FilterSpec is an ordered set of constraints, one per column.
type FilterSpec []Constraint

// Set adds or replaces the constraint on column.
func (s FilterSpec) Set(column, target string) FilterSpec {
	for i := range s {
		if s[i].Column == column {
			s[i].Target = target
			return s
		}
	}
	return append(s, Constraint{Column: column, Target: target})
}

// active is a constraint resolved against a dataset.
type active struct {
	col    int
	name   string
	kind   dataset.Kind
	target string // raw, trimmed
	norm   string
}

// Active returns the constraints that apply to ds: the column exists and the
// target is not blank. Unknown columns are dropped without error.
func (s FilterSpec) Active(ds *dataset.Dataset) []Constraint {
	acts := s.resolve(ds)
	out := make([]Constraint, len(acts))
	for i, a := range acts {
		out[i] = Constraint{Column: a.name, Target: a.target}
	}
	return out
}

func (s FilterSpec) resolve(ds *dataset.Dataset) []active {
	var out []active
	seen := map[string]bool{}
	for _, c := range s {
		t := strings.TrimSpace(c.Target)
		if t == "" || seen[c.Column] {
			continue
		}
		j, ok := ds.ColumnIndex(c.Column)
		if !ok {
			continue
		}
		seen[c.Column] = true
		out = append(out, active{col: j, name: c.Column, kind: ds.Columns[j].Kind, target: t, norm: Normalize(t)})
	}
	return out
}

// Validate reports every constrained column missing from ds. Filter and
// Closest ignore such columns; callers wanting strictness call this first.
func (s FilterSpec) Validate(ds *dataset.Dataset) error {
	var unknown []string
	for _, c := range s {
		if strings.TrimSpace(c.Target) == "" {
			continue
		}
		if _, ok := ds.ColumnIndex(c.Column); !ok {
			unknown = append(unknown, c.Column)
		}
	}
	if len(unknown) > 0 {
		return &UnknownColumnError{Columns: unknown}
	}
	return nil
}

// Normalize is the single comparison form for cell text and targets:
// NFC-composed, trimmed and lower-cased.
func Normalize(s string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Lower(language.Und).String(strings.TrimSpace(norm.NFC.String(s)))
}
