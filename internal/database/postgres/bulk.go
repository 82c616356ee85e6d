package postgres

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// CopyFrom streams CSV rows into table inside one transaction. Fields are
// quoted; an unquoted \N is NULL.
func (p *Adapter) CopyFrom(ctx context.Context, schema, table string, columns []string, r io.Reader) (int64, error) {
	query := fmt.Sprintf(`COPY %s (%s) FROM STDIN WITH (FORMAT csv, NULL '\N')`,
		qualified(schema, table), strings.Join(quoteAll(columns), ", "))

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Conn().PgConn().CopyFrom(ctx, r, query)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit copy: %w", err)
	}
	return tag.RowsAffected(), nil
}

// InsertPage inserts rows with one parameterized statement each, inside a
// single transaction. Every row runs under its own savepoint so a rejected
// row does not abort the rest of the page.
func (p *Adapter) InsertPage(ctx context.Context, schema, table string, columns []string, rows [][]any) ([]error, error) {
	query, _, err := p.qb.
		Insert(qualified(schema, table)).
		Columns(quoteAll(columns)...).
		Values(make([]any, len(columns))...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	errs := make([]error, len(rows))
	for i, args := range rows {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create savepoint: %w", err)
		}
		if _, err := sp.Exec(ctx, query, args...); err != nil {
			errs[i] = err
			if rbErr := sp.Rollback(ctx); rbErr != nil {
				return nil, fmt.Errorf("failed to roll back savepoint: %w", rbErr)
			}
			continue
		}
		if err := sp.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to release savepoint: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit page: %w", err)
	}
	return errs, nil
}

// SampleColumn reads up to limit distinct non-null values of column as text,
// in a stable order.
func (p *Adapter) SampleColumn(ctx context.Context, schema, table, column string, limit int) ([]any, error) {
	col := pq.QuoteIdentifier(column)
	query, args, err := p.qb.
		Select("DISTINCT " + col + "::text").
		From(qualified(schema, table)).
		Where(squirrel.NotEq{col: nil}).
		OrderBy("1").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sample query: %w", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]any, 0, limit)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (p *Adapter) Truncate(ctx context.Context, schema, table string) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", qualified(schema, table)))
	return err
}

// Count returns the number of rows in table.
func (p *Adapter) Count(ctx context.Context, schema, table string) (int64, error) {
	query, args, err := p.qb.Select("COUNT(*)").From(qualified(schema, table)).ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	err = p.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}
