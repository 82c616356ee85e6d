package seeder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.GenerationConfig {
	cfg := config.DefaultGeneration()
	cfg.Seeds.RandomSeed = 42
	cfg.Seeds.ReferenceDate = "2024-06-01"
	cfg.FKMultiplier.Enabled = false
	return cfg
}

func tableNames(r *Report) []string {
	var names []string
	for _, t := range r.Tables {
		names = append(names, t.Table)
	}
	return names
}

func textSet(values []any) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != nil {
			set[v.(string)] = true
		}
	}
	return set
}

func TestGenerateLoadsParentsBeforeChildren(t *testing.T) {
	db := shopSchema()
	s := NewSeeder(db, "public", testConfig(), &recorder{})

	report, err := s.Generate(context.Background(), nil, map[string]int{"customers": 50, "orders": 100})
	require.NoError(t, err)

	assert.Equal(t, []string{"customers", "orders"}, tableNames(report))
	assert.EqualValues(t, 150, report.Total)
	assert.Empty(t, report.Errors)

	emails := db.column("customers", "correo_electronico")
	require.Len(t, emails, 50)
	seen := map[string]bool{}
	for _, v := range emails {
		email, ok := v.(string)
		require.True(t, ok, "email must never be NULL")
		assert.Contains(t, email, "@")
		assert.LessOrEqual(t, utf8.RuneCountInString(email), 100)
		assert.False(t, seen[email], "duplicate email %s", email)
		seen[email] = true
	}

	ids := textSet(db.column("customers", "id"))
	refs := db.column("orders", "customer_id")
	require.Len(t, refs, 100)
	for _, ref := range refs {
		require.NotNil(t, ref)
		assert.True(t, ids[ref.(string)], "customer_id %v does not exist", ref)
	}

	customers, ok := report.Table("customers")
	require.True(t, ok)
	assert.Equal(t, StateDone, customers.State)
	assert.Equal(t, pathCopy, customers.Path)
}

func TestGenerateNullProbabilityOne(t *testing.T) {
	db := shopSchema()
	cfg := testConfig()
	cfg.Nulls.Enabled = true
	cfg.Nulls.Probability = 1.0

	s := NewSeeder(db, "public", cfg, &recorder{})
	_, err := s.Generate(context.Background(), nil, map[string]int{"customers": 20, "orders": 20})
	require.NoError(t, err)

	for _, v := range db.column("customers", "nombre") {
		assert.Nil(t, v)
	}
	for _, v := range db.column("orders", "total") {
		assert.Nil(t, v)
	}
	for _, v := range db.column("customers", "correo_electronico") {
		assert.NotNil(t, v)
	}
	for _, v := range db.column("orders", "customer_id") {
		assert.NotNil(t, v)
	}
}

func TestGenerateFallsBackOnConstraintViolation(t *testing.T) {
	db := shopSchema()
	db.copyErr = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	log := &recorder{}

	s := NewSeeder(db, "public", testConfig(), log)
	report, err := s.Generate(context.Background(), []string{"customers"}, map[string]int{"customers": 25})
	require.NoError(t, err)

	tr, ok := report.Table("customers")
	require.True(t, ok)
	assert.Equal(t, StateDone, tr.State)
	assert.Equal(t, pathInsert, tr.Path)
	assert.EqualValues(t, 25, tr.Inserted)
	assert.Len(t, db.rows["customers"], 25)
	assert.Positive(t, db.pages)
	assert.True(t, log.has("warn", "COPY into customers failed"))
}

func TestGenerateFallbackSkipsRejectedRows(t *testing.T) {
	db := shopSchema()
	db.copyErr = &pgconn.PgError{Code: "22001", Message: "value too long"}
	calls := 0
	db.rowErr = func(string, map[string]any) error {
		calls++
		if calls%5 == 0 {
			return &pgconn.PgError{Code: "23505"}
		}
		return nil
	}

	s := NewSeeder(db, "public", testConfig(), &recorder{})
	report, err := s.Generate(context.Background(), []string{"customers"}, map[string]int{"customers": 20})
	require.NoError(t, err)

	tr, _ := report.Table("customers")
	assert.Equal(t, StateDone, tr.State)
	assert.EqualValues(t, 16, tr.Inserted)
	// one entry for the COPY failure, one per rejected row
	assert.Len(t, tr.Errors, 5)
}

func TestGenerateUnrecoverableCopyFailsTable(t *testing.T) {
	db := shopSchema()
	db.copyErr = errors.New("broken pipe")

	s := NewSeeder(db, "public", testConfig(), &recorder{})
	report, err := s.Generate(context.Background(), nil, map[string]int{"customers": 10, "orders": 10})
	require.NoError(t, err)

	customers, _ := report.Table("customers")
	assert.Equal(t, StateFailed, customers.State)
	assert.Zero(t, customers.Inserted)
	assert.Zero(t, db.pages)

	// no parent rows, so every order lacks its required customer_id
	orders, _ := report.Table("orders")
	assert.Equal(t, StateFailed, orders.State)
	assert.Equal(t, 10, orders.Discarded)
	assert.NotEmpty(t, report.Errors)
}

func TestGenerateUniqueColumnExhaustion(t *testing.T) {
	db := newFakeDB()
	db.addTable("slots", serialCol("id"), typedCol("slot", "int2", false))
	db.pks["slots"] = []string{"id"}
	db.uniques["slots"] = []string{"slot"}

	cfg := testConfig()
	cfg.Ranges.SmallInt = config.IntRange{Min: 1, Max: 20}

	s := NewSeeder(db, "public", cfg, &recorder{})
	report, err := s.Generate(context.Background(), nil, map[string]int{"slots": 30})
	require.NoError(t, err)

	tr, _ := report.Table("slots")
	assert.EqualValues(t, 20, tr.Inserted)
	assert.Equal(t, 10, tr.Discarded)
	assert.Equal(t, 10, report.Discarded)

	values := db.column("slots", "slot")
	assert.Len(t, textSet(values), len(values))
	for _, v := range values {
		n, err := strconv.Atoi(v.(string))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 20)
	}
}

func TestGenerateUniqueTextGetsSuffix(t *testing.T) {
	for _, width := range []int{2, 8, 12, 40} {
		t.Run(strconv.Itoa(width), func(t *testing.T) {
			db := newFakeDB()
			db.addTable("sedes", serialCol("id"), varcharCol("ciudad", width, false))
			db.pks["sedes"] = []string{"id"}
			db.uniques["sedes"] = []string{"ciudad"}

			s := NewSeeder(db, "public", testConfig(), &recorder{})
			report, err := s.Generate(context.Background(), nil, map[string]int{"sedes": 300})
			require.NoError(t, err)

			tr, _ := report.Table("sedes")
			assert.EqualValues(t, 300, tr.Inserted)
			assert.Zero(t, tr.Discarded)

			values := db.column("sedes", "ciudad")
			require.Len(t, values, 300)
			assert.Len(t, textSet(values), 300)
			for _, v := range values {
				assert.LessOrEqual(t, utf8.RuneCountInString(v.(string)), width, v)
			}
		})
	}
}

func TestGenerateSemanticFailureFallsBackToType(t *testing.T) {
	db := newFakeDB()
	db.addTable("cuentas", serialCol("id"), typedCol("email_verificado", "date", false))
	db.pks["cuentas"] = []string{"id"}

	log := &recorder{}
	s := NewSeeder(db, "public", testConfig(), log)
	report, err := s.Generate(context.Background(), nil, map[string]int{"cuentas": 25})
	require.NoError(t, err)

	tr, _ := report.Table("cuentas")
	assert.EqualValues(t, 25, tr.Inserted)
	assert.Zero(t, tr.Discarded)

	values := db.column("cuentas", "email_verificado")
	require.Len(t, values, 25)
	for _, v := range values {
		require.NotNil(t, v)
		_, err := time.Parse("2006-01-02", v.(string))
		assert.NoError(t, err, v)
	}

	assert.True(t, log.has("warn", `Generator "email" failed`))
	assert.Equal(t, 1, log.count("warn", `Generator "email" failed`))
}

func TestModelReadableWhileRunHoldsLock(t *testing.T) {
	s := NewSeeder(shopSchema(), "public", testConfig(), &recorder{})
	assert.Nil(t, s.Model())

	_, err := s.Analyze(context.Background())
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	model := s.Model()
	require.NotNil(t, model)
	assert.Equal(t, []string{"customers", "orders"}, model.LoadOrder)
}

func TestGenerateForeignKeysToGeneratedKeys(t *testing.T) {
	db := newFakeDB()
	db.addTable("parents", typedCol("id", "uuid", false), varcharCol("nombre", 40, true))
	db.addTable("children", serialCol("id"), typedCol("parent_id", "uuid", false))
	db.pks["parents"] = []string{"id"}
	db.pks["children"] = []string{"id"}
	db.fks["children"] = []types.ForeignKey{{Column: "parent_id", ReferencedTable: "parents", ReferencedColumn: "id"}}

	s := NewSeeder(db, "public", testConfig(), &recorder{})
	_, err := s.Generate(context.Background(), nil, map[string]int{"parents": 30, "children": 60})
	require.NoError(t, err)

	parents := textSet(db.column("parents", "id"))
	assert.Len(t, parents, 30)
	for _, ref := range db.column("children", "parent_id") {
		require.NotNil(t, ref)
		assert.True(t, parents[ref.(string)])
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	run := func() *fakeDB {
		db := shopSchema()
		s := NewSeeder(db, "public", testConfig(), &recorder{})
		_, err := s.Generate(context.Background(), nil, map[string]int{"customers": 30, "orders": 40})
		require.NoError(t, err)
		return db
	}

	first, second := run(), run()
	assert.Equal(t, first.rows, second.rows)
}

func TestGenerateColumnOverrideFromSavedConfig(t *testing.T) {
	db := newFakeDB()
	db.addTable("products", serialCol("id"), typedCol("stock", "int4", false))
	db.pks["products"] = []string{"id"}

	lo, hi := 10.0, 20.0
	cfg := testConfig().WithColumnOverrides(map[string]config.ColumnOverride{
		"products.stock": {Type: "integer", Config: config.OverrideConfig{Min: &lo, Max: &hi}},
	})
	path := filepath.Join(t.TempDir(), "generation.yaml")
	require.NoError(t, config.SaveGeneration(path, cfg))
	loaded, err := config.LoadGeneration(path)
	require.NoError(t, err)

	s := NewSeeder(db, "public", loaded, &recorder{})
	_, err = s.Generate(context.Background(), nil, map[string]int{"products": 100})
	require.NoError(t, err)

	values := db.column("products", "stock")
	require.Len(t, values, 100)
	for _, v := range values {
		n, err := strconv.Atoi(v.(string))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 10)
		assert.LessOrEqual(t, n, 20)
	}
}

func TestGenerateSkipsUnknownTables(t *testing.T) {
	db := shopSchema()
	log := &recorder{}
	s := NewSeeder(db, "public", testConfig(), log)

	report, err := s.Generate(context.Background(), []string{"orders", "ghosts", "customers"}, map[string]int{"customers": 5, "orders": 5})
	require.NoError(t, err)

	assert.Equal(t, []string{"customers", "orders"}, tableNames(report))
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "ghosts")
	assert.True(t, log.has("warn", "ghosts"))
}

func TestGenerateSkipsTableWithoutGeneratedColumns(t *testing.T) {
	db := newFakeDB()
	db.addTable("counters", serialCol("id"))

	log := &recorder{}
	s := NewSeeder(db, "public", testConfig(), log)
	report, err := s.Generate(context.Background(), nil, nil)
	require.NoError(t, err)

	tr, _ := report.Table("counters")
	assert.Equal(t, StateDone, tr.State)
	assert.Zero(t, tr.Inserted)
	assert.Zero(t, db.copies)
	assert.True(t, log.has("warn", "no columns to generate"))
}

func TestGenerateStopsWhenCancelled(t *testing.T) {
	db := shopSchema()
	s := NewSeeder(db, "public", testConfig(), &recorder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := s.Generate(ctx, nil, map[string]int{"customers": 5, "orders": 5})
	require.NoError(t, err)
	assert.Empty(t, report.Tables)
	require.NotEmpty(t, report.Errors)
	assert.Contains(t, report.Errors[0], "interrupted")
}

func TestGenerateConnectionFailure(t *testing.T) {
	db := shopSchema()
	db.pingErr = errFakeConnection

	s := NewSeeder(db, "public", testConfig(), &recorder{})
	_, err := s.Generate(context.Background(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, errFakeConnection)
	assert.Zero(t, db.copies)
}

func TestGenerateRejectsConcurrentRun(t *testing.T) {
	s := NewSeeder(shopSchema(), "public", testConfig(), &recorder{})
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.Generate(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrRunInProgress)
	_, err = s.Analyze(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.ErrorIs(t, s.Truncate(context.Background(), nil), ErrRunInProgress)
}

func TestRowCount(t *testing.T) {
	db := shopSchema()
	cfg := testConfig()
	cfg.BaseCount = 10
	cfg.FKMultiplier = config.FKMultiplier{Enabled: true, Factor: 1.5}
	cfg.CountPerTable = map[string]int{"customers": 7}

	s := NewSeeder(db, "public", cfg, &recorder{})
	_, err := s.Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, s.RowCount("customers", nil))
	assert.Equal(t, 15, s.RowCount("orders", nil))
	assert.Equal(t, 3, s.RowCount("orders", map[string]int{"orders": 3}))
	assert.Equal(t, 0, s.RowCount("customers", map[string]int{"customers": 0}))

	cfg.FKMultiplier.Enabled = false
	s = NewSeeder(db, "public", cfg, &recorder{})
	_, err = s.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, s.RowCount("orders", nil))
}

func TestTruncateReverseLoadOrder(t *testing.T) {
	db := shopSchema()
	s := NewSeeder(db, "public", testConfig(), &recorder{})

	require.NoError(t, s.Truncate(context.Background(), nil))
	assert.Equal(t, []string{"orders", "customers"}, db.truncated)
}

func TestTruncateContinuesAfterFailure(t *testing.T) {
	db := shopSchema()
	db.truncateErr["orders"] = errors.New("lock timeout")
	log := &recorder{}
	s := NewSeeder(db, "public", testConfig(), log)

	err := s.Truncate(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders")
	assert.Equal(t, []string{"customers"}, db.truncated)
	assert.True(t, log.has("warn", "lock timeout"))
}

func TestReportWriteYAML(t *testing.T) {
	db := shopSchema()
	s := NewSeeder(db, "public", testConfig(), &recorder{})
	report, err := s.Generate(context.Background(), nil, map[string]int{"customers": 3, "orders": 3})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "report.yaml")
	require.NoError(t, report.WriteYAML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "total_inserted: 6")
	assert.Contains(t, string(data), "state: done")
}
