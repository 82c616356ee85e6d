package seeder

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
)

// recorder is a Logger that keeps every line.
type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *recorder) add(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, level+": "+fmt.Sprintf(format, args...))
}

func (r *recorder) Info(format string, args ...any)    { r.add("info", format, args...) }
func (r *recorder) Success(format string, args ...any) { r.add("success", format, args...) }
func (r *recorder) Warn(format string, args ...any)    { r.add("warn", format, args...) }
func (r *recorder) Error(format string, args ...any)   { r.add("error", format, args...) }

func (r *recorder) has(level, substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lines {
		if strings.HasPrefix(l, level+": ") && strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func (r *recorder) count(level, substr string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.lines {
		if strings.HasPrefix(l, level+": ") && strings.Contains(l, substr) {
			n++
		}
	}
	return n
}

// fakeDB is an in-memory Database. Stored rows hold text values, nil for
// NULL, and auto-increment columns are numbered on insert.
type fakeDB struct {
	tables  []string
	columns map[string][]types.ColumnDescriptor
	pks     map[string][]string
	fks     map[string][]types.ForeignKey
	uniques map[string][]string
	enums   map[string][]string

	pingErr     error
	catalogErrs map[string]error
	copyErr     error
	rowErr      func(table string, row map[string]any) error
	truncateErr map[string]error

	rows      map[string][]map[string]any
	serials   map[string]int
	copies    int
	pages     int
	truncated []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		columns:     map[string][]types.ColumnDescriptor{},
		pks:         map[string][]string{},
		fks:         map[string][]types.ForeignKey{},
		uniques:     map[string][]string{},
		enums:       map[string][]string{},
		catalogErrs: map[string]error{},
		truncateErr: map[string]error{},
		rows:        map[string][]map[string]any{},
		serials:     map[string]int{},
	}
}

func (f *fakeDB) addTable(name string, cols ...types.ColumnDescriptor) {
	f.tables = append(f.tables, name)
	for i := range cols {
		cols[i].OrdinalPosition = i + 1
	}
	f.columns[name] = cols
}

func (f *fakeDB) catalogErr(concern string) error {
	return f.catalogErrs[concern]
}

func (f *fakeDB) Ping(context.Context) error { return f.pingErr }

func (f *fakeDB) Tables(context.Context, string) ([]string, error) {
	return append([]string{}, f.tables...), f.catalogErr("tables")
}

func (f *fakeDB) Columns(context.Context, string) (map[string][]types.ColumnDescriptor, error) {
	out := make(map[string][]types.ColumnDescriptor, len(f.columns))
	for t, cols := range f.columns {
		out[t] = append([]types.ColumnDescriptor{}, cols...)
	}
	return out, f.catalogErr("columns")
}

func (f *fakeDB) PrimaryKeys(context.Context, string) (map[string][]string, error) {
	if err := f.catalogErr("primary keys"); err != nil {
		return nil, err
	}
	return f.pks, nil
}

func (f *fakeDB) ForeignKeys(context.Context, string) (map[string][]types.ForeignKey, error) {
	if err := f.catalogErr("foreign keys"); err != nil {
		return nil, err
	}
	return f.fks, nil
}

func (f *fakeDB) UniqueConstraints(context.Context, string) (map[string][]string, error) {
	if err := f.catalogErr("unique constraints"); err != nil {
		return nil, err
	}
	return f.uniques, nil
}

func (f *fakeDB) CheckConstraints(context.Context, string) (map[string][]string, error) {
	return map[string][]string{}, f.catalogErr("check constraints")
}

func (f *fakeDB) Sequences(context.Context, string) ([]types.Sequence, error) {
	return nil, f.catalogErr("sequences")
}

func (f *fakeDB) Indices(context.Context, string) (map[string][]types.Index, error) {
	return nil, f.catalogErr("indices")
}

func (f *fakeDB) Enums(context.Context, string) (map[string][]string, error) {
	if err := f.catalogErr("enums"); err != nil {
		return nil, err
	}
	return f.enums, nil
}

func (f *fakeDB) store(table string, columns []string, values []any) {
	row := make(map[string]any, len(f.columns[table]))
	for _, c := range f.columns[table] {
		if c.IsAutoIncrement() {
			f.serials[table+"."+c.Name]++
			row[c.Name] = strconv.Itoa(f.serials[table+"."+c.Name])
		}
	}
	for i, name := range columns {
		row[name] = values[i]
	}
	f.rows[table] = append(f.rows[table], row)
}

func (f *fakeDB) CopyFrom(_ context.Context, _, table string, columns []string, r io.Reader) (int64, error) {
	f.copies++
	if f.copyErr != nil {
		return 0, f.copyErr
	}
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		if len(rec) != len(columns) {
			return 0, fmt.Errorf("expected %d fields, got %d", len(columns), len(rec))
		}
		values := make([]any, len(rec))
		for i, field := range rec {
			if field != copyNull {
				values[i] = field
			}
		}
		f.store(table, columns, values)
	}
	return int64(len(records)), nil
}

func (f *fakeDB) InsertPage(_ context.Context, _, table string, columns []string, rows [][]any) ([]error, error) {
	f.pages++
	errs := make([]error, len(rows))
	for i, values := range rows {
		if f.rowErr != nil {
			probe := make(map[string]any, len(columns))
			for j, c := range columns {
				probe[c] = values[j]
			}
			if err := f.rowErr(table, probe); err != nil {
				errs[i] = err
				continue
			}
		}
		f.store(table, columns, values)
	}
	return errs, nil
}

func (f *fakeDB) SampleColumn(_ context.Context, _, table, column string, limit int) ([]any, error) {
	var out []any
	for _, row := range f.rows[table] {
		if v := row[column]; v != nil {
			out = append(out, v)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeDB) Truncate(_ context.Context, _, table string) error {
	if err := f.truncateErr[table]; err != nil {
		return err
	}
	f.truncated = append(f.truncated, table)
	delete(f.rows, table)
	return nil
}

func (f *fakeDB) column(table, column string) []any {
	out := make([]any, 0, len(f.rows[table]))
	for _, row := range f.rows[table] {
		out = append(out, row[column])
	}
	return out
}

var errFakeConnection = errors.New("connection refused")

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func serialCol(name string) types.ColumnDescriptor {
	return types.ColumnDescriptor{
		Name:              name,
		DeclaredType:      "integer",
		RawUDTName:        "int4",
		DefaultExpression: strPtr("nextval('" + name + "_seq'::regclass)"),
	}
}

func varcharCol(name string, length int, nullable bool) types.ColumnDescriptor {
	return types.ColumnDescriptor{
		Name:         name,
		DeclaredType: "character varying",
		RawUDTName:   "varchar",
		MaxLength:    intPtr(length),
		Nullable:     nullable,
	}
}

func typedCol(name, udt string, nullable bool) types.ColumnDescriptor {
	return types.ColumnDescriptor{Name: name, DeclaredType: udt, RawUDTName: udt, Nullable: nullable}
}

func numericCol(name string, precision, scale int, nullable bool) types.ColumnDescriptor {
	return types.ColumnDescriptor{
		Name:             name,
		DeclaredType:     "numeric",
		RawUDTName:       "numeric",
		NumericPrecision: intPtr(precision),
		NumericScale:     intPtr(scale),
		Nullable:         nullable,
	}
}

// shopSchema is a customers/orders pair with a required foreign key.
func shopSchema() *fakeDB {
	db := newFakeDB()
	db.addTable("orders",
		serialCol("id"),
		typedCol("customer_id", "int4", false),
		numericCol("total", 10, 2, true),
	)
	db.addTable("customers",
		serialCol("id"),
		varcharCol("correo_electronico", 100, false),
		varcharCol("nombre", 50, true),
	)
	db.pks["customers"] = []string{"id"}
	db.pks["orders"] = []string{"id"}
	db.uniques["customers"] = []string{"correo_electronico"}
	db.fks["orders"] = []types.ForeignKey{{Column: "customer_id", ReferencedTable: "customers", ReferencedColumn: "id"}}
	return db
}
