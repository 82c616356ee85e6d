package seeder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntrospectBuildsModel(t *testing.T) {
	db := shopSchema()
	model, err := Introspect(context.Background(), db, "public", &recorder{})
	require.NoError(t, err)

	assert.Equal(t, "public", model.Schema)
	assert.ElementsMatch(t, []string{"customers", "orders"}, model.Tables)
	assert.Equal(t, []string{"customers", "orders"}, model.LoadOrder)
	assert.True(t, model.IsUnique("customers", "correo_electronico"))
	assert.True(t, model.IsPrimaryKey("orders", "id"))
	fk, ok := model.ForeignKeyFor("orders", "customer_id")
	require.True(t, ok)
	assert.Equal(t, "customers", fk.ReferencedTable)
	assert.NotNil(t, model.Indices)
	assert.NotNil(t, model.Sequences)
}

func TestIntrospectOptionalConcernsDegrade(t *testing.T) {
	db := shopSchema()
	db.catalogErrs["foreign keys"] = errors.New("permission denied for pg_constraint")
	db.catalogErrs["enums"] = errors.New("timeout")
	log := &recorder{}

	model, err := Introspect(context.Background(), db, "public", log)
	require.NoError(t, err)

	assert.Empty(t, model.ForeignKeys)
	assert.NotNil(t, model.ForeignKeys)
	assert.Empty(t, model.Enums)
	assert.Len(t, model.LoadOrder, 2)
	assert.True(t, log.has("warn", "foreign keys"))
	assert.True(t, log.has("warn", "enums"))
}

func TestIntrospectRequiredConcernsFail(t *testing.T) {
	for _, concern := range []string{"tables", "columns"} {
		t.Run(concern, func(t *testing.T) {
			db := shopSchema()
			db.catalogErrs[concern] = errors.New("relation does not exist")

			_, err := Introspect(context.Background(), db, "public", &recorder{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIntrospection)
		})
	}
}

func TestIntrospectDropsForeignKeyOnMissingColumn(t *testing.T) {
	db := shopSchema()
	db.fks["orders"] = append(db.fks["orders"], types.ForeignKey{Column: "ghost_id", ReferencedTable: "customers", ReferencedColumn: "id"})
	log := &recorder{}

	model, err := Introspect(context.Background(), db, "public", log)
	require.NoError(t, err)

	require.Len(t, model.ForeignKeys["orders"], 1)
	assert.Equal(t, "customer_id", model.ForeignKeys["orders"][0].Column)
	assert.True(t, log.has("warn", "ghost_id"))
}

func TestIntrospectAttachesEnumValues(t *testing.T) {
	db := newFakeDB()
	mood := types.ColumnDescriptor{Name: "mood", DeclaredType: "USER-DEFINED", RawUDTName: "mood"}
	db.addTable("people", serialCol("id"), mood)
	db.enums["mood"] = []string{"happy", "sad", "ok"}

	model, err := Introspect(context.Background(), db, "public", &recorder{})
	require.NoError(t, err)

	col, ok := model.Column("people", "mood")
	require.True(t, ok)
	assert.Equal(t, []string{"happy", "sad", "ok"}, col.EnumValues)
	assert.Equal(t, FamilyEnum, familyOf(col))
}

func TestIntrospectWarnsOnCycle(t *testing.T) {
	db := newFakeDB()
	db.addTable("a", serialCol("id"), typedCol("b_id", "int4", true))
	db.addTable("b", serialCol("id"), typedCol("a_id", "int4", true))
	db.fks["a"] = []types.ForeignKey{{Column: "b_id", ReferencedTable: "b", ReferencedColumn: "id"}}
	db.fks["b"] = []types.ForeignKey{{Column: "a_id", ReferencedTable: "a", ReferencedColumn: "id"}}
	log := &recorder{}

	model, err := Introspect(context.Background(), db, "public", log)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, model.LoadOrder)
	assert.True(t, log.has("warn", "Circular dependency"))
}

func TestRecoverable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&pgconn.PgError{Code: "23505"}, true},
		{&pgconn.PgError{Code: "22001"}, true},
		{&pgconn.PgError{Code: "42703"}, true},
		{fmt.Errorf("copy: %w", &pgconn.PgError{Code: "23503"}), true},
		{&encodeError{column: "x", value: struct{}{}}, true},
		{&pgconn.PgError{Code: "08006"}, false},
		{&pgconn.PgError{Code: "57014"}, false},
		{errors.New("unexpected EOF"), false},
		{context.Canceled, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, recoverable(tt.err), "%v", tt.err)
	}
}

func TestBulkResult(t *testing.T) {
	ok := Success(12)
	assert.False(t, ok.IsFallback())
	assert.EqualValues(t, 12, ok.Count)

	fb := Fallback(errors.New("nope"))
	assert.True(t, fb.IsFallback())
	assert.Zero(t, fb.Count)
}

func TestTableStateText(t *testing.T) {
	text, err := StateInsertingFallback.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "inserting (fallback)", string(text))
	assert.Equal(t, "unknown", TableState(42).String())
}
