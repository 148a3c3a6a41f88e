// Package datarecording stores the operation log of piece buffer sessions in
// an SQLite database.
package datarecording

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

const defaultBatchSize = 1000

// A Writer appends entries to the operation table. Entries are kept in
// memory and written in batches, one transaction per batch.
type Writer struct {
	db        *sql.DB
	lock      sync.Mutex
	pending   []OperationEntry
	batchSize int
}

// Create starts a new database file at path + ".sqlite3". An empty path picks
// a unique session file name. The file must not exist yet. Pending entries
// are flushed when the process exits through atexit.
func Create(path string) (*Writer, error) {
	if path == "" {
		path = "piecebuf_session_" + xid.New().String()
	}

	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	w, err := NewWriter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	return w, nil
}

// NewWriter creates the operation table in db if it is missing and returns a
// writer appending to it.
func NewWriter(db *sql.DB) (*Writer, error) {
	if _, err := db.Exec(createTableSQL()); err != nil {
		return nil, err
	}

	w := &Writer{
		db:        db,
		batchSize: defaultBatchSize,
	}

	atexit.Register(func() { _ = w.Flush() })

	return w, nil
}

// WithBatchSize sets how many entries are kept before they are written.
func (w *Writer) WithBatchSize(n int) *Writer {
	if n <= 0 {
		log.Panicf("batch size must be positive, got %d", n)
	}

	w.batchSize = n

	return w
}

// Insert queues an entry, writing the batch once it is full.
func (w *Writer) Insert(entry OperationEntry) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.pending = append(w.pending, entry)
	if len(w.pending) < w.batchSize {
		return nil
	}

	return w.flush()
}

// Pending returns the number of entries not yet written.
func (w *Writer) Pending() int {
	w.lock.Lock()
	defer w.lock.Unlock()

	return len(w.pending)
}

// Flush writes all queued entries.
func (w *Writer) Flush() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.flush()
}

func (w *Writer) flush() error {
	if len(w.pending) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(insertSQL())
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, entry := range w.pending {
		if _, err := stmt.Exec(structs.Values(entry)...); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	w.pending = nil

	return nil
}

// Close flushes and releases the database.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.db.Close()
		return err
	}

	return w.db.Close()
}

func createTableSQL() string {
	fields := structs.Fields(OperationEntry{})

	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name() + " " + columnType(f.Kind())
	}

	return "CREATE TABLE IF NOT EXISTS " + OperationTable +
		" (\n\t" + strings.Join(columns, ",\n\t") + "\n)"
}

func insertSQL() string {
	names := structs.Names(OperationEntry{})

	placeholders := make([]string, len(names))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	return "INSERT INTO " + OperationTable +
		" (" + strings.Join(names, ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ", ") + ")"
}

func columnType(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool, reflect.Int, reflect.Int64, reflect.Uint64:
		return "INTEGER"
	case reflect.String:
		return "TEXT"
	default:
		log.Panicf("no column type for kind %s", kind)
	}

	return ""
}
