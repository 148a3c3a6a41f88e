package datarecording

import (
	"context"
	"database/sql"
	"reflect"
	"strings"

	"github.com/fatih/structs"
)

// A Filter selects operation entries. Zero fields select everything.
type Filter struct {
	Session    string
	Op         string
	FailedOnly bool

	// Limit caps the number of entries returned; 0 means no cap.
	Limit  int
	Offset int
}

func (f Filter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.Session != "" {
		conds = append(conds, "Session = ?")
		args = append(args, f.Session)
	}

	if f.Op != "" {
		conds = append(conds, "Op = ?")
		args = append(args, f.Op)
	}

	if f.FailedOnly {
		conds = append(conds, "Success = ?")
		args = append(args, false)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// A Page is one window of the filtered operation log.
type Page struct {
	Entries []OperationEntry

	// Total counts every entry matching the filter, regardless of Limit and
	// Offset.
	Total int
}

// A Reader reads the operation log back.
type Reader struct {
	db *sql.DB
}

// Open opens an existing database file read-only.
func Open(dbFilename string) (*Reader, error) {
	db, err := sql.Open("sqlite3", "file:"+dbFilename+"?mode=ro")
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return NewReader(db), nil
}

// NewReader reads from an open database.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Operations returns the entries matching f, in session and sequence order.
func (r *Reader) Operations(ctx context.Context, f Filter) (Page, error) {
	where, args := f.where()

	var page Page

	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+OperationTable+where, args...,
	).Scan(&page.Total)
	if err != nil {
		return Page{}, err
	}

	query := "SELECT " + strings.Join(structs.Names(OperationEntry{}), ", ") +
		" FROM " + OperationTable + where + " ORDER BY Session, Seq"

	if f.Limit > 0 || f.Offset > 0 {
		limit := f.Limit
		if limit == 0 {
			limit = -1
		}

		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return Page{}, err
		}

		page.Entries = append(page.Entries, entry)
	}

	return page, rows.Err()
}

// Sessions lists the recorded session ids in order.
func (r *Reader) Sessions(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT Session FROM "+OperationTable+" ORDER BY Session")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}

		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// Close releases the database.
func (r *Reader) Close() error {
	return r.db.Close()
}

// scanEntry fills the fields of an entry in declaration order, matching the
// column list of the select.
func scanEntry(rows *sql.Rows) (OperationEntry, error) {
	var entry OperationEntry

	v := reflect.ValueOf(&entry).Elem()

	targets := make([]any, v.NumField())
	for i := range targets {
		targets[i] = v.Field(i).Addr().Interface()
	}

	err := rows.Scan(targets...)

	return entry, err
}
