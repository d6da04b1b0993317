package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadOptions controls how a source file is read.
type LoadOptions struct {
	// Delimiter for delimited text. If 0, sniffed from the file.
	Delimiter rune
	// MaxRows limits the rows kept; 0 means unlimited.
	MaxRows int
	// XLSX sheet selection. Sheet takes precedence; SheetIndex is 1-based.
	Sheet      string
	SheetIndex int
	// Table selects the SQLite table. Empty picks the only table present.
	Table string
	// Number parsing for cells and targets.
	Format NumberFormat
	// Logger receives debug output; nil discards it.
	Logger *slog.Logger
}

// Source reads one family of file formats into raw records.
type Source interface {
	CanLoad(path string) bool
	Records(path string, opt LoadOptions) (header []string, records [][]string, err error)
}

var registry []Source

// Register adds a source. Later registrations are consulted first, so callers
// can override the built-in handling of an extension.
func Register(s Source) {
	registry = append([]Source{s}, registry...)
}

func init() {
	registry = []Source{postgresSource{}, sqliteSource{}, xlsxSource{}, delimitedSource{}}
}

// Load reads the file (or postgres:// URL) at path into a Dataset. A missing
// file yields a *SourceError matching ErrSourceNotFound.
func Load(path string, opt LoadOptions) (*Dataset, error) {
	name := filepath.Base(path)
	if isPostgresURL(path) {
		name = redactURL(path)
	} else if err := checkFile(path); err != nil {
		return nil, err
	}
	for _, s := range registry {
		if !s.CanLoad(path) {
			continue
		}
		header, records, err := s.Records(path, opt)
		if err != nil {
			return nil, err
		}
		ds := Build(name, header, records, opt)
		if opt.Logger != nil {
			opt.Logger.Debug("dataset loaded", "source", name, "rows", ds.Len(), "columns", len(ds.Columns))
		}
		return ds, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &SourceError{Path: path, Err: ErrSourceNotFound}
		}
		return &SourceError{Path: path, Err: err}
	}
	if info.IsDir() {
		return &SourceError{Path: path, Err: errors.New("is a directory")}
	}
	return nil
}

// Build types raw records: headers are cleaned, rows are squared to the
// header width and each column's Kind is inferred from its cells.
func Build(name string, header []string, records [][]string, opt LoadOptions) *Dataset {
	names := cleanHeader(header)
	ncol := len(names)
	if opt.MaxRows > 0 && len(records) > opt.MaxRows {
		records = records[:opt.MaxRows]
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		vals := make([]Value, ncol)
		for j := 0; j < ncol; j++ {
			var cell string
			if j < len(rec) {
				cell = strings.TrimSpace(rec[j])
			}
			vals[j] = Value{Raw: cell, Missing: IsMissing(cell)}
		}
		rows[i] = Row{Index: i, Values: vals}
	}

	cols := make([]Column, ncol)
	for j, n := range names {
		cols[j] = Column{Name: n, Kind: inferKind(rows, j, opt.Format)}
		if cols[j].Kind != Numeric {
			continue
		}
		for i := range rows {
			v := &rows[i].Values[j]
			if !v.Missing {
				v.Num, _ = opt.Format.Parse(v.Raw)
			}
		}
	}
	return New(name, cols, rows, opt.Format)
}

// inferKind reports Numeric only when every present cell parses.
func inferKind(rows []Row, j int, nf NumberFormat) Kind {
	seen := false
	for _, r := range rows {
		v := r.Values[j]
		if v.Missing {
			continue
		}
		if _, ok := nf.Parse(v.Raw); !ok {
			return Categorical
		}
		seen = true
	}
	if seen {
		return Numeric
	}
	return Categorical
}

// cleanHeader trims names, fills blanks and de-duplicates repeats as
// "name.1", "name.2".
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	next := make(map[string]int)
	for i, h := range header {
		base := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if base == "" {
			base = "Unnamed: " + strconv.Itoa(i)
		}
		n := base
		for used[n] {
			next[base]++
			n = fmt.Sprintf("%s.%d", base, next[base])
		}
		used[n] = true
		out[i] = n
	}
	return out
}
