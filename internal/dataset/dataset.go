package dataset

import "strings"

// Kind classifies a column. It is fixed when the dataset is loaded.
type Kind int

const (
	Categorical Kind = iota
	Numeric
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	default:
		return "categorical"
	}
}

// Column is a named, typed column of a Dataset.
type Column struct {
	Name string
	Kind Kind
}

// Value is a single cell. Raw holds the trimmed text as loaded; Num is only
// meaningful for cells of Numeric columns that are not Missing.
type Value struct {
	Raw     string
	Num     float64
	Missing bool
}

// Row is one record. Index is the row's 0-based position in the source and is
// carried through filtering and ranking unchanged.
type Row struct {
	Index  int
	Values []Value
}

// Dataset is an in-memory table. It is not modified after Load returns.
type Dataset struct {
	Name    string
	Columns []Column
	Rows    []Row
	Format  NumberFormat

	index map[string]int
}

// New assembles a Dataset from already typed columns and rows.
func New(name string, cols []Column, rows []Row, format NumberFormat) *Dataset {
	ds := &Dataset{Name: name, Columns: cols, Rows: rows, Format: format}
	ds.reindex()
	return ds
}

func (d *Dataset) reindex() {
	d.index = make(map[string]int, len(d.Columns))
	for i, c := range d.Columns {
		d.index[c.Name] = i
	}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool { return d.Len() == 0 }

// ColumnIndex returns the position of the named column. Names match exactly.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	if d == nil {
		return -1, false
	}
	if d.index == nil {
		d.reindex()
	}
	i, ok := d.index[name]
	return i, ok
}

// Column returns the named column definition.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.ColumnIndex(name)
	if !ok {
		return Column{}, false
	}
	return d.Columns[i], true
}

// ColumnNames lists the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// ParseNumber parses user input with the dataset's number format, so targets
// are read the same way the cells were.
func (d *Dataset) ParseNumber(s string) (float64, bool) {
	return d.Format.Parse(strings.TrimSpace(s))
}

// Get returns the row's value in the named column.
func (r Row) Get(d *Dataset, name string) (Value, bool) {
	i, ok := d.ColumnIndex(name)
	if !ok || i >= len(r.Values) {
		return Value{}, false
	}
	return r.Values[i], true
}
