package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
)

func (p *Adapter) Tables(ctx context.Context, schema string) ([]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT table_name::text
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]string, 0, 32)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (p *Adapter) Columns(ctx context.Context, schema string) (map[string][]types.ColumnDescriptor, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT
			c.table_name::text,
			c.column_name::text,
			c.data_type::text,
			c.udt_name::text,
			c.is_nullable::text,
			c.column_default::text,
			c.character_maximum_length::int,
			c.numeric_precision::int,
			c.numeric_scale::int,
			c.ordinal_position::int,
			c.is_identity::text
		FROM information_schema.columns c
		JOIN information_schema.tables t
			ON t.table_schema = c.table_schema
			AND t.table_name = c.table_name
			AND t.table_type = 'BASE TABLE'
		WHERE c.table_schema = $1
		ORDER BY c.table_name, c.ordinal_position
	`, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]types.ColumnDescriptor)
	for rows.Next() {
		var table, nullable, identity string
		var col types.ColumnDescriptor
		if err := rows.Scan(
			&table,
			&col.Name,
			&col.DeclaredType,
			&col.RawUDTName,
			&nullable,
			&col.DefaultExpression,
			&col.MaxLength,
			&col.NumericPrecision,
			&col.NumericScale,
			&col.OrdinalPosition,
			&identity,
		); err != nil {
			return nil, err
		}
		col.Nullable = nullable == "YES"
		col.IsIdentity = identity == "YES"
		result[table] = append(result[table], col)
	}
	return result, rows.Err()
}

// keyColumns lists the columns of every constraint of kind contype ('p' or
// 'u') in key order, grouped by table and constraint name.
func (p *Adapter) keyColumns(ctx context.Context, schema, contype string) (map[string]map[string][]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT cl.relname::text, con.conname::text, a.attname::text
		FROM pg_constraint con
		JOIN pg_class cl ON cl.oid = con.conrelid
		JOIN pg_namespace ns ON ns.oid = cl.relnamespace
		CROSS JOIN LATERAL UNNEST(con.conkey) WITH ORDINALITY AS k(attnum, ord)
		JOIN pg_attribute a ON a.attrelid = cl.oid AND a.attnum = k.attnum
		WHERE ns.nspname = $1 AND con.contype::text = $2
		ORDER BY cl.relname, con.conname, k.ord
	`, schema, contype)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]map[string][]string)
	for rows.Next() {
		var table, constraint, column string
		if err := rows.Scan(&table, &constraint, &column); err != nil {
			return nil, err
		}
		if result[table] == nil {
			result[table] = make(map[string][]string)
		}
		result[table][constraint] = append(result[table][constraint], column)
	}
	return result, rows.Err()
}

func (p *Adapter) PrimaryKeys(ctx context.Context, schema string) (map[string][]string, error) {
	keys, err := p.keyColumns(ctx, schema, "p")
	if err != nil {
		return nil, err
	}
	result := make(map[string][]string, len(keys))
	for table, byName := range keys {
		// a table has at most one primary key
		for _, cols := range byName {
			result[table] = cols
		}
	}
	return result, nil
}

// UniqueConstraints returns the columns that are unique on their own.
// Multi-column unique constraints are left out.
func (p *Adapter) UniqueConstraints(ctx context.Context, schema string) (map[string][]string, error) {
	keys, err := p.keyColumns(ctx, schema, "u")
	if err != nil {
		return nil, err
	}
	result := make(map[string][]string, len(keys))
	for table, byName := range keys {
		for _, cols := range byName {
			if len(cols) == 1 {
				result[table] = append(result[table], cols[0])
			}
		}
	}
	return result, nil
}

func (p *Adapter) ForeignKeys(ctx context.Context, schema string) (map[string][]types.ForeignKey, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT
			src_table.relname::text,
			src_attr.attname::text,
			tgt_table.relname::text,
			tgt_attr.attname::text
		FROM pg_constraint con
		JOIN pg_class src_table ON con.conrelid = src_table.oid
		JOIN pg_namespace ns ON src_table.relnamespace = ns.oid
		CROSS JOIN LATERAL UNNEST(con.conkey, con.confkey) WITH ORDINALITY AS cols(src_col, tgt_col, ord)
		JOIN pg_attribute src_attr ON src_attr.attrelid = src_table.oid AND src_attr.attnum = cols.src_col
		JOIN pg_class tgt_table ON con.confrelid = tgt_table.oid
		JOIN pg_namespace tgt_ns ON tgt_table.relnamespace = tgt_ns.oid
		JOIN pg_attribute tgt_attr ON tgt_attr.attrelid = tgt_table.oid AND tgt_attr.attnum = cols.tgt_col
		WHERE ns.nspname = $1
		  AND tgt_ns.nspname = $1
		  AND con.contype = 'f'
		ORDER BY src_table.relname, con.conname, cols.ord
	`, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]types.ForeignKey)
	for rows.Next() {
		var table string
		var fk types.ForeignKey
		if err := rows.Scan(&table, &fk.Column, &fk.ReferencedTable, &fk.ReferencedColumn); err != nil {
			return nil, err
		}
		result[table] = append(result[table], fk)
	}
	return result, rows.Err()
}

func (p *Adapter) CheckConstraints(ctx context.Context, schema string) (map[string][]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT cl.relname::text, pg_get_constraintdef(con.oid)
		FROM pg_constraint con
		JOIN pg_class cl ON cl.oid = con.conrelid
		JOIN pg_namespace ns ON ns.oid = cl.relnamespace
		WHERE ns.nspname = $1 AND con.contype = 'c'
		ORDER BY cl.relname, con.conname
	`, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]string)
	for rows.Next() {
		var table, def string
		if err := rows.Scan(&table, &def); err != nil {
			return nil, err
		}
		result[table] = append(result[table], def)
	}
	return result, rows.Err()
}

func (p *Adapter) Sequences(ctx context.Context, schema string) ([]types.Sequence, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT
			sequence_name::text,
			data_type::text,
			start_value::text,
			minimum_value::text,
			maximum_value::text,
			increment::text
		FROM information_schema.sequences
		WHERE sequence_schema = $1
		ORDER BY sequence_name
	`, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seqs []types.Sequence
	for rows.Next() {
		var s types.Sequence
		if err := rows.Scan(&s.Name, &s.DataType, &s.Start, &s.Min, &s.Max, &s.Increment); err != nil {
			return nil, err
		}
		seqs = append(seqs, s)
	}
	return seqs, rows.Err()
}

func (p *Adapter) Indices(ctx context.Context, schema string) (map[string][]types.Index, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT tablename::text, indexname::text, indexdef
		FROM pg_indexes
		WHERE schemaname = $1
		ORDER BY tablename, indexname
	`, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]types.Index)
	for rows.Next() {
		var table, name, def string
		if err := rows.Scan(&table, &name, &def); err != nil {
			return nil, err
		}
		result[table] = append(result[table], parseIndexDef(name, def))
	}
	return result, rows.Err()
}

// parseIndexDef reads the column list out of a pg_get_indexdef string.
func parseIndexDef(name, def string) types.Index {
	idx := types.Index{
		Name:   name,
		Unique: strings.HasPrefix(strings.ToUpper(def), "CREATE UNIQUE"),
	}
	if start := strings.Index(def, "("); start != -1 {
		if end := strings.LastIndex(def, ")"); end > start {
			for _, col := range strings.Split(def[start+1:end], ",") {
				idx.Columns = append(idx.Columns, strings.Trim(strings.TrimSpace(col), `"`))
			}
		}
	}
	return idx
}

func (p *Adapter) Enums(ctx context.Context, schema string) (map[string][]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT t.typname::text, e.enumlabel::text
		FROM pg_type t
		JOIN pg_enum e ON t.oid = e.enumtypid
		JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
		WHERE n.nspname = $1
		ORDER BY t.typname, e.enumsortorder
	`, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to read enums: %w", err)
	}
	defer rows.Close()

	enums := make(map[string][]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		enums[name] = append(enums[name], value)
	}
	return enums, rows.Err()
}
