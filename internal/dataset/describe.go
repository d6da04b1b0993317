package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Summary is a markdown-friendly overview of a loaded dataset.
type Summary struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Samples [][]string
}

// ColumnSummary captures a column's kind and basic statistics.
type ColumnSummary struct {
	Name    string
	Kind    Kind
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// Describe computes a Summary. sampleRows bounds the example rows kept.
func Describe(ds *Dataset, sampleRows int) Summary {
	s := Summary{Name: ds.Name, Rows: ds.Len()}
	if sampleRows < 0 {
		sampleRows = 0
	}
	for j, c := range ds.Columns {
		cs := ColumnSummary{Name: c.Name, Kind: c.Kind, Min: math.Inf(1), Max: math.Inf(-1)}
		cats := map[string]int{}
		var mean, m2 float64
		for _, r := range ds.Rows {
			v := r.Values[j]
			if v.Missing {
				cs.Missing++
				continue
			}
			cs.NonNull++
			cats[v.Raw]++
			if c.Kind != Numeric {
				continue
			}
			// Welford update
			x := v.Num
			cs.Min = math.Min(cs.Min, x)
			cs.Max = math.Max(cs.Max, x)
			delta := x - mean
			mean += delta / float64(cs.NonNull)
			m2 += delta * (x - mean)
		}
		cs.Unique = len(cats)
		if c.Kind == Numeric && cs.NonNull > 0 {
			cs.Mean = mean
			if cs.NonNull > 1 {
				cs.Std = math.Sqrt(m2 / float64(cs.NonNull-1))
			}
		} else {
			cs.Min, cs.Max = 0, 0
			cs.TopValues = topValues(cats, 8)
		}
		s.Cols = append(s.Cols, cs)
	}
	for i := 0; i < sampleRows && i < ds.Len(); i++ {
		row := make([]string, len(ds.Columns))
		for j, v := range ds.Rows[i].Values {
			row[j] = v.Raw
		}
		s.Samples = append(s.Samples, row)
	}
	return s
}

func topValues(cats map[string]int, n int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > n {
		tops = tops[:n]
	}
	return tops
}

// Markdown renders the summary as compact sectioned text.
func (s Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", s.Name)
	}
	fmt.Fprintf(&b, "Rows: %d\n", s.Rows)
	fmt.Fprintf(&b, "Columns: %d\n\n", len(s.Cols))

	b.WriteString("[SCHEMA]\n")
	for i, c := range s.Cols {
		missPct := 0.0
		if total := c.NonNull + c.Missing; total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		fmt.Fprintf(&b, "%d: %s: %s (non-null %d, missing %.1f%%)", i+1, c.Name, c.Kind, c.NonNull, missPct)
		switch c.Kind {
		case Numeric:
			fmt.Fprintf(&b, " - min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std)
		default:
			if len(c.TopValues) > 0 {
				b.WriteString(" - top: ")
				for k, kv := range c.TopValues {
					if k > 0 {
						b.WriteString(", ")
					}
					fmt.Fprintf(&b, "%s(%d)", safeVal(kv.Value), kv.Count)
				}
				if c.Unique > len(c.TopValues) {
					fmt.Fprintf(&b, "; unique=%d", c.Unique)
				}
			}
		}
		b.WriteString("\n")
	}

	if len(s.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n| ")
		for i, c := range s.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeVal(c.Name))
		}
		b.WriteString(" |\n|")
		for range s.Cols {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range s.Samples {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
