package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pathCopy   = "copy"
	pathInsert = "insert"
)

// BulkResult is the outcome of the COPY path: either a committed count, or
// the reason the rows must go through the row-by-row path.
type BulkResult struct {
	Count  int64
	Reason error
}

func Success(count int64) BulkResult { return BulkResult{Count: count} }

func Fallback(reason error) BulkResult { return BulkResult{Reason: reason} }

func (r BulkResult) IsFallback() bool { return r.Reason != nil }

// recoverable reports whether a COPY failure may be retried row by row:
// values we could not encode, and server errors of class 22 (data
// exception), 23 (integrity violation) or 42 (syntax or access rule).
func recoverable(err error) bool {
	var encErr *encodeError
	if errors.As(err, &encErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "22", "23", "42":
			return true
		}
	}
	return false
}

// LoadOutcome reports what happened to one table's rows.
type LoadOutcome struct {
	Inserted int64
	State    TableState
	Path     string
	Errors   []string
}

type Loader struct {
	target BulkTarget
	schema string
	model  *types.SchemaModel
	cache  *ReferentialCache
	opts   config.Optimization
	log    Logger
}

func NewLoader(target BulkTarget, model *types.SchemaModel, cache *ReferentialCache, opts config.Optimization, log Logger) *Loader {
	return &Loader{
		target: target,
		schema: model.Schema,
		model:  model,
		cache:  cache,
		opts:   opts,
		log:    log,
	}
}

// Load commits rows through COPY, demoting to prepared inserts once when COPY
// fails with a recoverable error. The returned error is set only for
// failures that the fallback cannot address.
func (l *Loader) Load(ctx context.Context, table string, plans []columnPlan, rows [][]any) (LoadOutcome, error) {
	out := LoadOutcome{State: StateDone}
	if len(rows) == 0 {
		return out, nil
	}

	columns := make([]string, len(plans))
	families := make([]TypeFamily, len(plans))
	for i, p := range plans {
		columns[i] = p.col.Name
		families[i] = p.family
	}

	var result BulkResult
	if l.opts.UseCopy {
		out.State = StateInsertingPrimary
		out.Path = pathCopy
		var err error
		result, err = l.copyRows(ctx, table, columns, families, rows)
		if err != nil {
			out.State = StateFailed
			out.Errors = append(out.Errors, fmt.Sprintf("copy: %v", err))
			return out, err
		}
		if !result.IsFallback() {
			out.Inserted = result.Count
			out.State = StateDone
			l.updateCache(table, plans, rows)
			return out, nil
		}
		l.log.Warn("COPY into %s failed, retrying row by row: %v", table, result.Reason)
		out.Errors = append(out.Errors, fmt.Sprintf("copy: %v", result.Reason))
	}

	out.State = StateInsertingFallback
	out.Path = pathInsert
	inserted, rowErrs, err := l.insertRows(ctx, table, plans, columns, families, rows)
	out.Inserted = inserted
	out.Errors = append(out.Errors, rowErrs...)
	if err != nil {
		out.State = StateFailed
		return out, err
	}
	if inserted == 0 {
		out.State = StateFailed
		return out, nil
	}
	out.State = StateDone
	return out, nil
}

func (l *Loader) copyRows(ctx context.Context, table string, columns []string, families []TypeFamily, rows [][]any) (BulkResult, error) {
	buf, err := encodeCSV(columns, families, rows)
	if err != nil {
		return Fallback(err), nil
	}
	n, err := l.target.CopyFrom(ctx, l.schema, table, columns, buf)
	if err != nil {
		if recoverable(err) {
			return Fallback(err), nil
		}
		return BulkResult{}, fmt.Errorf("failed to copy into %s: %w", table, err)
	}
	return Success(n), nil
}

// insertRows sends pages of prepared inserts, one transaction per page. A
// failing row is reported and skipped; the page goes on.
func (l *Loader) insertRows(ctx context.Context, table string, plans []columnPlan, columns []string, families []TypeFamily, rows [][]any) (int64, []string, error) {
	batch := l.opts.BatchSize
	if batch <= 0 {
		batch = 100
	}

	var inserted int64
	var errs []string

	for start := 0; start < len(rows); start += batch {
		if err := ctx.Err(); err != nil {
			return inserted, errs, err
		}
		end := min(start+batch, len(rows))
		page := rows[start:end]

		args := make([][]any, 0, len(page))
		index := make([]int, 0, len(page))
		for i, row := range page {
			a, err := encodeRow(columns, families, row)
			if err != nil {
				errs = append(errs, l.rowError(table, start+i, err))
				continue
			}
			args = append(args, a)
			index = append(index, i)
		}
		if len(args) == 0 {
			continue
		}

		rowErrs, err := l.target.InsertPage(ctx, l.schema, table, columns, args)
		if err != nil {
			msg := fmt.Sprintf("rows %d-%d: %v", start+1, end, err)
			l.log.Error("Insert into %s failed for %s", table, msg)
			errs = append(errs, msg)
			continue
		}

		var ok [][]any
		for j := range args {
			if j < len(rowErrs) && rowErrs[j] != nil {
				errs = append(errs, l.rowError(table, start+index[j], rowErrs[j]))
				continue
			}
			ok = append(ok, page[index[j]])
		}
		inserted += int64(len(ok))
		l.updateCache(table, plans, ok)
	}

	return inserted, errs, nil
}

func (l *Loader) rowError(table string, i int, err error) string {
	msg := fmt.Sprintf("row %d: %v", i+1, err)
	l.log.Warn("Skipping %s %s", table, msg)
	return msg
}

// updateCache records the committed values of every column of table that a
// foreign key can point at.
func (l *Loader) updateCache(table string, plans []columnPlan, rows [][]any) {
	if len(rows) == 0 {
		return
	}
	for _, name := range l.model.ReferencedColumns(table) {
		for i, p := range plans {
			if p.col.Name != name {
				continue
			}
			vals := make([]any, 0, len(rows))
			for _, row := range rows {
				vals = append(vals, row[i])
			}
			l.cache.Add(cacheKey(table, name), vals...)
		}
	}
	l.cache.MarkStale(table)
}
