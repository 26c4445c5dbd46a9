// Package eventstore runs generated read-only SQL against the college events
// database.
package eventstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

var (
	ErrNotReadOnly = errors.New("only a single SELECT statement is allowed")
	ErrEmptyQuery  = errors.New("empty SQL query")
)

const sampleRows = 3

// Store is what the structured query tool needs from a relational backend.
type Store interface {
	SchemaDescription(ctx context.Context) (string, error)
	Query(ctx context.Context, query string) (*Result, error)
	Dialect() string
}

type Result struct {
	Columns   []string
	Rows      [][]string
	Truncated bool
}

func (r *Result) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// String renders the result as a pipe-separated table for prompting.
func (r *Result) String() string {
	if r.Empty() {
		return "(no rows)"
	}
	var sb strings.Builder
	sb.WriteString(strings.Join(r.Columns, " | "))
	for _, row := range r.Rows {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(row, " | "))
	}
	if r.Truncated {
		fmt.Fprintf(&sb, "\n(truncated to %d rows)", len(r.Rows))
	}
	return sb.String()
}

type SQLiteStore struct {
	db      *sql.DB
	maxRows int
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens path read-only. The file must already exist.
func OpenSQLite(path string, maxRows int) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open events database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open events database %s: %w", path, err)
	}
	if maxRows <= 0 {
		maxRows = 50
	}
	return &SQLiteStore{db: db, maxRows: maxRows}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Dialect() string {
	return "SQLite"
}

// SchemaDescription returns CREATE statements for every user table and view,
// each followed by a few sample rows.
func (s *SQLiteStore) SchemaDescription(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, sql FROM sqlite_master
		 WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%' AND sql IS NOT NULL
		 ORDER BY name`)
	if err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}

	type table struct{ name, ddl string }
	var tables []table
	for rows.Next() {
		var t table
		if err := rows.Scan(&t.name, &t.ddl); err != nil {
			rows.Close()
			return "", fmt.Errorf("scan schema: %w", err)
		}
		tables = append(tables, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}

	var sb strings.Builder
	for i, t := range tables {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.TrimSpace(t.ddl))

		sample, err := s.query(ctx, fmt.Sprintf(`SELECT * FROM "%s" LIMIT %d`, strings.ReplaceAll(t.name, `"`, `""`), sampleRows), sampleRows)
		if err != nil {
			return "", fmt.Errorf("sample %s: %w", t.name, err)
		}
		fmt.Fprintf(&sb, "\n\n/*\n%d rows from %s table:\n", len(sample.Rows), t.name)
		sb.WriteString(strings.Join(sample.Columns, "\t"))
		for _, row := range sample.Rows {
			sb.WriteString("\n")
			sb.WriteString(strings.Join(row, "\t"))
		}
		sb.WriteString("\n*/")
	}
	return sb.String(), nil
}

// Query validates and executes a single read-only statement.
func (s *SQLiteStore) Query(ctx context.Context, query string) (*Result, error) {
	stmt, err := CleanStatement(query)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, stmt, s.maxRows)
}

func (s *SQLiteStore) query(ctx context.Context, stmt string, limit int) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	res := &Result{Columns: cols}
	for rows.Next() {
		if len(res.Rows) == limit {
			res.Truncated = true
			break
		}
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return res, nil
}

func formatValue(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(tv)
	case time.Time:
		return tv.Format(time.RFC3339)
	default:
		return fmt.Sprint(tv)
	}
}

var (
	fencePattern   = regexp.MustCompile("(?s)```(?i:sqlite3|sqlite|sql)?[ \\t]*\\n?(.*?)```")
	labelPattern   = regexp.MustCompile(`(?i)^\s*sql\s*query\s*:\s*`)
	leadingKeyword = regexp.MustCompile(`(?i)^(select|with)\b`)
)

// CleanStatement extracts one SQL statement from model output: it unwraps
// markdown fences, drops a "SQLQuery:" label and a trailing semicolon, and
// rejects anything that is not a single SELECT or WITH query.
func CleanStatement(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = labelPattern.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimRight(s, "; \n\t"))

	if s == "" {
		return "", ErrEmptyQuery
	}
	if strings.Contains(s, ";") {
		return "", ErrNotReadOnly
	}
	if !leadingKeyword.MatchString(s) {
		return "", ErrNotReadOnly
	}
	return s, nil
}
