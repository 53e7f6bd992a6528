// Package datarecording stores simulation output in SQLite databases.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// A DataRecorder is a backend that can record and store simulation data.
type DataRecorder interface {
	// CreateTable creates a new table shaped after the fields of
	// sampleEntry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry for insertion into an existing table.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all created tables.
	ListTables() []string

	// Flush writes all buffered entries into the database.
	Flush()

	// Close flushes buffered entries and closes the database.
	Close() error
}

// SQLiteWriter is a DataRecorder backed by a SQLite database file.
type SQLiteWriter struct {
	*sql.DB

	dbName    string
	batchSize int
	tables    map[string]*table
	pending   int
}

type table struct {
	structType reflect.Type
	entries    []any
}

// New creates a DataRecorder that writes to path plus a .sqlite3
// extension. If path is empty, a unique name is generated. Buffered
// entries are flushed when the process exits through atexit.
func New(path string) *SQLiteWriter {
	w := &SQLiteWriter{
		dbName:    path,
		batchSize: 10000,
		tables:    make(map[string]*table),
	}

	w.init()

	atexit.Register(func() { w.Flush() })

	return w
}

func (w *SQLiteWriter) init() {
	if w.dbName == "" {
		w.dbName = "cachesim_" + xid.New().String()
	}

	filename := w.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Results are recorded in: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	w.DB = db
}

// CreateTable creates a table with one column per field of sampleEntry.
// Only scalar fields can be stored.
func (w *SQLiteWriter) CreateTable(tableName string, sampleEntry any) {
	mustHaveScalarFields(sampleEntry)

	columns := strings.Join(structs.Names(sampleEntry), ", \n\t")
	w.mustExecute(
		`CREATE TABLE ` + tableName + ` (` + "\n\t" + columns + "\n" + `);`)

	w.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
	}
}

// InsertData buffers entry for the given table, flushing automatically
// when the buffer is full.
func (w *SQLiteWriter) InsertData(tableName string, entry any) {
	t, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	t.entries = append(t.entries, entry)

	w.pending++
	if w.pending >= w.batchSize {
		w.Flush()
	}
}

// ListTables returns the names of all created tables.
func (w *SQLiteWriter) ListTables() []string {
	names := make([]string, 0, len(w.tables))
	for name := range w.tables {
		names = append(names, name)
	}

	return names
}

// Flush writes all buffered entries into the database in one transaction.
func (w *SQLiteWriter) Flush() {
	if w.pending == 0 {
		return
	}

	w.mustExecute("BEGIN TRANSACTION")
	defer w.mustExecute("COMMIT TRANSACTION")

	for tableName, t := range w.tables {
		if len(t.entries) == 0 {
			continue
		}

		statement := w.prepareInsert(tableName, t.entries[0])

		for _, entry := range t.entries {
			values := fieldValues(entry)

			_, err := statement.Exec(values...)
			if err != nil {
				panic(err)
			}
		}

		t.entries = nil
		statement.Close()
	}

	w.pending = 0
}

// Close flushes buffered entries and closes the database connection.
func (w *SQLiteWriter) Close() error {
	w.Flush()
	return w.DB.Close()
}

func (w *SQLiteWriter) prepareInsert(
	tableName string,
	sampleEntry any,
) *sql.Stmt {
	placeholders := structs.Names(sampleEntry)
	for i := range placeholders {
		placeholders[i] = "?"
	}

	statement, err := w.Prepare("INSERT INTO " + tableName +
		" VALUES (" + strings.Join(placeholders, ", ") + ")")
	if err != nil {
		panic(err)
	}

	return statement
}

func (w *SQLiteWriter) mustExecute(query string) sql.Result {
	result, err := w.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return result
}

func fieldValues(entry any) []any {
	value := reflect.ValueOf(entry)

	values := make([]any, 0, value.NumField())
	for i := 0; i < value.NumField(); i++ {
		values = append(values, value.Field(i).Interface())
	}

	return values
}

func mustHaveScalarFields(entry any) {
	entryType := reflect.TypeOf(entry)

	for i := 0; i < entryType.NumField(); i++ {
		switch entryType.Field(i).Type.Kind() {
		case reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16,
			reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16,
			reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64,
			reflect.String:
			// Storable.
		default:
			panic(fmt.Sprintf("field %s cannot be stored in a table",
				entryType.Field(i).Name))
		}
	}
}
