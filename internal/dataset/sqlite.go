package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

type sqliteSource struct{}

func (sqliteSource) CanLoad(p string) bool {
	lower := strings.ToLower(p)
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Records reads one table in storage order. Every cell is rendered as text so
// kind inference treats SQLite data exactly like a CSV export of it.
func (sqliteSource) Records(p string, opt LoadOptions) ([]string, [][]string, error) {
	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, nil, &SourceError{Path: p, Err: fmt.Errorf("opening database: %w", err)}
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	r := tableReader{
		db:         db,
		label:      p,
		listTables: `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
	}
	return r.records(context.Background(), opt)
}
