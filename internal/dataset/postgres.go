package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresTimeout = 30 * time.Second

// postgresSource loads a table from a postgres:// or postgresql:// URL.
type postgresSource struct{}

func isPostgresURL(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

func (postgresSource) CanLoad(p string) bool { return isPostgresURL(p) }

// Records reads one table of the connection's current schema.
func (postgresSource) Records(p string, opt LoadOptions) ([]string, [][]string, error) {
	label := redactURL(p)
	db, err := sql.Open("pgx", p)
	if err != nil {
		return nil, nil, &SourceError{Path: label, Err: fmt.Errorf("open postgres: %w", err)}
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, &SourceError{Path: label, Err: fmt.Errorf("ping postgres: %w", err)}
	}

	r := tableReader{
		db:    db,
		label: label,
		listTables: `SELECT table_name FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
			ORDER BY table_name`,
	}
	return r.records(ctx, opt)
}

// redactURL hides the password so a DSN can appear in errors and names.
func redactURL(p string) string {
	u, err := url.Parse(p)
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}
