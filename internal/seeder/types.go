package seeder

import (
	"context"
	"io"

	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
)

// Logger receives progress lines tagged by severity.
type Logger interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Catalog answers one structural question per call, scoped to a schema.
type Catalog interface {
	Tables(ctx context.Context, schema string) ([]string, error)
	Columns(ctx context.Context, schema string) (map[string][]types.ColumnDescriptor, error)
	PrimaryKeys(ctx context.Context, schema string) (map[string][]string, error)
	ForeignKeys(ctx context.Context, schema string) (map[string][]types.ForeignKey, error)
	UniqueConstraints(ctx context.Context, schema string) (map[string][]string, error)
	CheckConstraints(ctx context.Context, schema string) (map[string][]string, error)
	Sequences(ctx context.Context, schema string) ([]types.Sequence, error)
	Indices(ctx context.Context, schema string) (map[string][]types.Index, error)
	Enums(ctx context.Context, schema string) (map[string][]string, error)
}

// BulkTarget is the write side of the database. Values handed to InsertPage
// are either nil or strings in the server's text input format.
type BulkTarget interface {
	// CopyFrom streams CSV rows (NULL marker \N) in one transaction.
	CopyFrom(ctx context.Context, schema, table string, columns []string, r io.Reader) (int64, error)
	// InsertPage inserts rows in one transaction with a savepoint per row.
	// The returned slice holds one entry per row, nil on success.
	InsertPage(ctx context.Context, schema, table string, columns []string, rows [][]any) ([]error, error)
	// SampleColumn returns up to limit non-null values of column as text.
	SampleColumn(ctx context.Context, schema, table, column string, limit int) ([]any, error)
	Truncate(ctx context.Context, schema, table string) error
}

type Database interface {
	Catalog
	BulkTarget
	Ping(ctx context.Context) error
}

// TableState tracks one table through a generation run.
type TableState int

const (
	StatePending TableState = iota
	StateGenerating
	StateInsertingPrimary
	StateInsertingFallback
	StateDone
	StateFailed
)

func (s TableState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateGenerating:
		return "generating"
	case StateInsertingPrimary:
		return "inserting (copy)"
	case StateInsertingFallback:
		return "inserting (fallback)"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s TableState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
