package seeder

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
)

// Introspect builds the schema model. Only the table and column queries are
// fatal; every other concern degrades to empty with a warning.
func Introspect(ctx context.Context, cat Catalog, schema string, log Logger) (*types.SchemaModel, error) {
	model := types.NewSchemaModel(schema)

	tables, err := cat.Tables(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("%w: tables of %s: %w", ErrIntrospection, schema, err)
	}
	columns, err := cat.Columns(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("%w: columns of %s: %w", ErrIntrospection, schema, err)
	}

	model.Tables = append(model.Tables, tables...)
	for _, t := range tables {
		model.Columns[t] = columns[t]
	}

	optional(log, "primary keys", func() error {
		pks, err := cat.PrimaryKeys(ctx, schema)
		if err == nil {
			model.PrimaryKeys = pks
		}
		return err
	})
	optional(log, "foreign keys", func() error {
		fks, err := cat.ForeignKeys(ctx, schema)
		if err == nil {
			model.ForeignKeys = validForeignKeys(model, fks, log)
		}
		return err
	})
	optional(log, "unique constraints", func() error {
		uniques, err := cat.UniqueConstraints(ctx, schema)
		if err == nil {
			model.UniqueConstraints = uniques
		}
		return err
	})
	optional(log, "check constraints", func() error {
		checks, err := cat.CheckConstraints(ctx, schema)
		if err == nil {
			model.CheckConstraints = checks
		}
		return err
	})
	optional(log, "sequences", func() error {
		seqs, err := cat.Sequences(ctx, schema)
		if err == nil {
			model.Sequences = seqs
		}
		return err
	})
	optional(log, "indices", func() error {
		idx, err := cat.Indices(ctx, schema)
		if err == nil {
			model.Indices = idx
		}
		return err
	})
	optional(log, "enums", func() error {
		enums, err := cat.Enums(ctx, schema)
		if err == nil {
			model.Enums = enums
		}
		return err
	})

	attachEnumValues(model)
	ensureMaps(model)

	order, cycles := Resolve(model.Tables, model.ForeignKeys)
	for _, c := range cycles {
		log.Warn("Circular dependency: %s (load order is best effort)", strings.Join(c, " → "))
	}
	model.LoadOrder = order

	return model, nil
}

func optional(log Logger, concern string, load func() error) {
	if err := load(); err != nil {
		log.Warn("Could not read %s, continuing without them: %v", concern, err)
	}
}

// validForeignKeys drops entries whose column is not a column of the table.
func validForeignKeys(model *types.SchemaModel, fks map[string][]types.ForeignKey, log Logger) map[string][]types.ForeignKey {
	out := make(map[string][]types.ForeignKey, len(fks))
	for table, list := range fks {
		for _, fk := range list {
			if _, ok := model.Column(table, fk.Column); !ok {
				log.Warn("Ignoring foreign key %s.%s: column not found", table, fk.Column)
				continue
			}
			out[table] = append(out[table], fk)
		}
	}
	return out
}

func attachEnumValues(model *types.SchemaModel) {
	if len(model.Enums) == 0 {
		return
	}
	for table, cols := range model.Columns {
		for i := range cols {
			if values, ok := model.Enums[cols[i].RawUDTName]; ok {
				cols[i].EnumValues = values
			}
		}
		model.Columns[table] = cols
	}
}

// ensureMaps replaces nil maps left by a catalog that returned nothing.
func ensureMaps(m *types.SchemaModel) {
	if m.PrimaryKeys == nil {
		m.PrimaryKeys = map[string][]string{}
	}
	if m.ForeignKeys == nil {
		m.ForeignKeys = map[string][]types.ForeignKey{}
	}
	if m.UniqueConstraints == nil {
		m.UniqueConstraints = map[string][]string{}
	}
	if m.CheckConstraints == nil {
		m.CheckConstraints = map[string][]string{}
	}
	if m.Sequences == nil {
		m.Sequences = []types.Sequence{}
	}
	if m.Indices == nil {
		m.Indices = map[string][]types.Index{}
	}
	if m.Enums == nil {
		m.Enums = map[string][]string{}
	}
}
