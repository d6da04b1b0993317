package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// tableReader reads a whole table from a database/sql connection. The two
// SQL sources differ only in how they list tables.
type tableReader struct {
	db    *sql.DB
	label string
	// listTables returns user table names, sorted.
	listTables string
}

func (t tableReader) records(ctx context.Context, opt LoadOptions) ([]string, [][]string, error) {
	table, err := t.pick(ctx, opt.Table)
	if err != nil {
		return nil, nil, err
	}
	q := fmt.Sprintf("SELECT * FROM %s", quoteIdent(table))
	if opt.MaxRows > 0 {
		q += " LIMIT " + strconv.Itoa(opt.MaxRows)
	}
	rows, err := t.db.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read columns: %w", err)
	}
	var records [][]string
	for rows.Next() {
		cells := make([]any, len(header))
		ptrs := make([]any, len(header))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row %d: %w", len(records)+1, err)
		}
		rec := make([]string, len(header))
		for i, c := range cells {
			rec[i] = sqlText(c)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating rows: %w", err)
	}
	return header, records, nil
}

// pick returns want if it exists, or the only table when want is empty.
func (t tableReader) pick(ctx context.Context, want string) (string, error) {
	rows, err := t.db.QueryContext(ctx, t.listTables)
	if err != nil {
		return "", &SourceError{Path: t.label, Err: fmt.Errorf("listing tables: %w", err)}
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return "", fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("listing tables: %w", err)
	}
	if want != "" {
		for _, n := range names {
			if n == want {
				return n, nil
			}
		}
		return "", &TableError{Path: t.label, Requested: want, Available: names}
	}
	if len(names) != 1 {
		return "", &TableError{Path: t.label, Available: names}
	}
	return names[0], nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// sqlText renders a scanned cell the way a CSV export would write it.
func sqlText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
