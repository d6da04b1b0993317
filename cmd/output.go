package cmd

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/KaramelBytes/rowmatch/internal/dataset"
	"github.com/KaramelBytes/rowmatch/internal/match"
	"github.com/KaramelBytes/rowmatch/internal/utils"
	"github.com/google/uuid"
)

// writeTable prints rows aligned under the dataset header. Closest-match
// results get a trailing Distance column.
func writeTable(w io.Writer, ds *dataset.Dataset, res *match.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	head := append([]string{""}, ds.ColumnNames()...)
	if !res.Exact {
		head = append(head, "Distance")
	}
	fmt.Fprintln(tw, strings.Join(head, "\t"))
	for _, s := range res.Rows {
		cells := make([]string, 0, len(head))
		cells = append(cells, strconv.Itoa(s.Row.Index))
		for _, v := range s.Row.Values {
			cells = append(cells, cellText(v))
		}
		if !res.Exact {
			cells = append(cells, distanceText(s.Total))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func cellText(v dataset.Value) string {
	if v.Missing {
		return "NaN"
	}
	return strings.NewReplacer("\t", " ", "\n", " ").Replace(v.Raw)
}

func distanceText(d float64) string {
	if math.IsInf(d, 1) {
		return "inf"
	}
	return strconv.FormatFloat(d, 'g', 6, 64)
}

type jsonFilter struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

type jsonRow struct {
	Index     int                 `json:"index"`
	Distance  *float64            `json:"distance"`
	Distances map[string]*float64 `json:"distances,omitempty"`
	Values    map[string]any      `json:"values"`
}

type jsonResult struct {
	QueryID string       `json:"query_id"`
	Source  string       `json:"source"`
	Exact   bool         `json:"exact"`
	Filters []jsonFilter `json:"filters"`
	Rows    []jsonRow    `json:"rows"`
}

// finite maps +Inf to nil so it encodes as null.
func finite(d float64) *float64 {
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return nil
	}
	return &d
}

func newJSONResult(ds *dataset.Dataset, spec match.FilterSpec, res *match.Result) jsonResult {
	out := jsonResult{
		QueryID: uuid.NewString(),
		Source:  ds.Name,
		Exact:   res.Exact,
		Filters: []jsonFilter{},
		Rows:    make([]jsonRow, 0, len(res.Rows)),
	}
	for _, c := range spec.Active(ds) {
		out.Filters = append(out.Filters, jsonFilter{Column: c.Column, Value: c.Target})
	}
	for _, s := range res.Rows {
		row := jsonRow{Index: s.Row.Index, Distance: finite(s.Total), Values: make(map[string]any, len(ds.Columns))}
		if len(s.Distances) > 0 {
			row.Distances = make(map[string]*float64, len(s.Distances))
			for k, d := range s.Distances {
				row.Distances[k] = finite(d)
			}
		}
		for j, c := range ds.Columns {
			v := s.Row.Values[j]
			switch {
			case v.Missing:
				row.Values[c.Name] = nil
			case c.Kind == dataset.Numeric:
				row.Values[c.Name] = v.Num
			default:
				row.Values[c.Name] = v.Raw
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
