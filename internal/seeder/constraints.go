package seeder

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
	"github.com/shopspring/decimal"
)

const (
	uniqueSuffixLength = 6
	maxRowAttempts     = 10
)

// columnPlan is everything the enforcer needs to fill one column, resolved
// once per table.
type columnPlan struct {
	col      types.ColumnDescriptor
	family   TypeFamily
	category Category
	fk       *types.ForeignKey
	isPK     bool
	unique   bool
	override *config.ColumnOverride
}

// Enforcer decides the value of every column of a row. It belongs to one run.
type Enforcer struct {
	schema  string
	model   *types.SchemaModel
	cfg     config.GenerationConfig
	gen     *DataGenerator
	cache   *ReferentialCache
	tracker *UniquenessTracker
	sampler BulkTarget
	log     Logger

	warned map[string]bool
	tuples map[string]valueSet
}

func NewEnforcer(model *types.SchemaModel, cfg config.GenerationConfig, gen *DataGenerator, cache *ReferentialCache, sampler BulkTarget, log Logger) *Enforcer {
	return &Enforcer{
		schema:  model.Schema,
		model:   model,
		cfg:     cfg,
		gen:     gen,
		cache:   cache,
		tracker: NewUniquenessTracker(),
		sampler: sampler,
		log:     log,
		warned:  make(map[string]bool),
		tuples:  make(map[string]valueSet),
	}
}

// plan returns the columns that receive generated values, in ordinal order.
// Auto-increment columns are left to the database.
func (e *Enforcer) plan(table string) []columnPlan {
	pk := e.model.PrimaryKeys[table]
	var plans []columnPlan
	for _, col := range e.model.Columns[table] {
		if col.IsAutoIncrement() {
			continue
		}
		p := columnPlan{
			col:      col,
			family:   familyOf(col),
			category: InferCategory(col.Name),
			isPK:     e.model.IsPrimaryKey(table, col.Name),
		}
		if fk, ok := e.model.ForeignKeyFor(table, col.Name); ok {
			p.fk = &fk
		}
		p.unique = e.model.IsUnique(table, col.Name) || (p.isPK && len(pk) == 1)
		if o, ok := e.cfg.Override(table, col.Name); ok {
			p.override = &o
		}
		plans = append(plans, p)
	}
	return plans
}

// buildRow fills one row. ok is false when a NOT NULL column ended up
// without a value; such rows are discarded by the caller.
func (e *Enforcer) buildRow(ctx context.Context, table string, plans []columnPlan) (row []any, ok bool) {
	for attempt := 0; attempt < maxRowAttempts; attempt++ {
		row = make([]any, len(plans))
		ok = true
		for i := range plans {
			row[i] = e.decideValue(ctx, table, &plans[i])
			if row[i] == nil && !plans[i].col.Nullable {
				ok = false
			}
		}
		if !ok {
			return row, false
		}

		tuple, composite := e.primaryKeyTuple(table, plans, row)
		if composite && e.tuples[table].has(tuple) {
			continue
		}

		e.commit(table, plans, row, tuple, composite)
		return row, true
	}
	return row, false
}

func (e *Enforcer) commit(table string, plans []columnPlan, row []any, tuple string, composite bool) {
	for i := range plans {
		if plans[i].unique && row[i] != nil {
			e.tracker.Used(cacheKey(table, plans[i].col.Name)).add(row[i])
		}
	}
	if composite {
		if e.tuples[table] == nil {
			e.tuples[table] = make(valueSet)
		}
		e.tuples[table].add(tuple)
	}
}

// primaryKeyTuple renders a multi-column primary key of row, if the table has
// one and all its columns are generated.
func (e *Enforcer) primaryKeyTuple(table string, plans []columnPlan, row []any) (string, bool) {
	pk := e.model.PrimaryKeys[table]
	if len(pk) < 2 {
		return "", false
	}
	parts := make([]string, 0, len(pk))
	for _, name := range pk {
		found := false
		for i := range plans {
			if plans[i].col.Name == name {
				parts = append(parts, valueKey(row[i]))
				found = true
				break
			}
		}
		if !found {
			return "", false
		}
	}
	return strings.Join(parts, "\x00"), true
}

// decideValue applies, in order: null policy, foreign key sampling, and the
// override/semantic/type chain under the uniqueness guard.
func (e *Enforcer) decideValue(ctx context.Context, table string, p *columnPlan) any {
	if e.emitNull(p) {
		return nil
	}

	key := cacheKey(table, p.col.Name)
	var produce func() any
	if p.fk != nil {
		produce = func() any { return e.foreignValue(ctx, p.fk) }
	} else {
		produce = func() any { return e.produce(key, p) }
	}

	if !p.unique {
		return produce()
	}

	used := e.tracker.Used(key)
	v, ok := nextUnique(produce, used, maxUniqueAttempts)
	if ok {
		return v
	}
	if s, isString := v.(string); isString && p.fk == nil {
		if forced, ok := e.forceUnique(s, p.col.Length(), used); ok {
			return forced
		}
	}
	e.warnOnce(key+"#unique", "Could not find an unused value for unique column %s after %d attempts", key, maxUniqueAttempts)
	return nil
}

func (e *Enforcer) emitNull(p *columnPlan) bool {
	n := e.cfg.Nulls
	if !p.col.Nullable || !n.Enabled {
		return false
	}
	if n.ExcludePKs && p.isPK {
		return false
	}
	if n.ExcludeFKs && p.fk != nil {
		return false
	}
	return e.gen.rand.Float64() < n.Probability
}

// foreignValue samples the referenced column, reading it from the database
// the first time it is needed and after each load into that table.
func (e *Enforcer) foreignValue(ctx context.Context, fk *types.ForeignKey) any {
	key := cacheKey(fk.ReferencedTable, fk.ReferencedColumn)
	if e.cache.NeedsWarmup(key) {
		e.cache.MarkFresh(key)
		if e.sampler != nil {
			vals, err := e.sampler.SampleColumn(ctx, e.schema, fk.ReferencedTable, fk.ReferencedColumn, fkWarmupLimit)
			if err != nil {
				e.log.Warn("Could not read values of %s: %v", key, err)
			} else {
				e.cache.Add(key, vals...)
			}
		}
	}
	return e.cache.Sample(e.gen.rand, key)
}

func (e *Enforcer) produce(key string, p *columnPlan) any {
	if p.override != nil {
		v, err := e.gen.overrideValue(*p.override, p.col, p.family)
		if err == nil {
			return v
		}
		e.warnOnce(key+"#override", "Override for %s ignored: %v", key, err)
	}
	if p.category != CategoryNone {
		v, err := e.gen.Semantic(p.category, p.col)
		if err == nil {
			return v
		}
		e.warnOnce(key+"#semantic", "Generator %q failed for %s, using %s type: %v", p.category, key, p.family, err)
	}
	return e.gen.ByType(p.col)
}

// forceUnique appends a random suffix to s, cutting s so the result still
// fits maxLen.
func (e *Enforcer) forceUnique(s string, maxLen int, used valueSet) (string, bool) {
	for i := 0; i < maxUniqueAttempts; i++ {
		suffix := "_" + strings.ToLower(e.gen.letters(uniqueSuffixLength))
		var candidate string
		switch {
		case maxLen > 0 && maxLen <= len(suffix):
			candidate = e.gen.letters(maxLen)
		case maxLen > 0 && utf8.RuneCountInString(s)+len(suffix) > maxLen:
			candidate = string([]rune(s)[:maxLen-len(suffix)]) + suffix
		default:
			candidate = s + suffix
		}
		if !used.has(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (e *Enforcer) warnOnce(key, format string, args ...any) {
	if e.warned[key] {
		return
	}
	e.warned[key] = true
	e.log.Warn(format, args...)
}

const overrideDateLayout = "2006-01-02"

var (
	overrideIntegerTypes = []string{"int2", "smallint", "int4", "integer", "int", "int8", "bigint"}
	overrideNumericTypes = []string{"numeric", "decimal", "float", "float4", "float8", "real", "double precision"}
	overrideTextTypes    = []string{"varchar", "character varying", "bpchar", "char", "character", "text"}
	overrideDateTypes    = []string{"date", "timestamp", "timestamptz"}
	overrideBoolTypes    = []string{"bool", "boolean"}
)

// overrideValue generates from an explicit per-column override, bypassing
// inference.
func (g *DataGenerator) overrideValue(o config.ColumnOverride, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	c := o.Config
	kind := strings.ToLower(strings.TrimSpace(o.Type))

	switch {
	case containsString(overrideIntegerTypes, kind):
		lo, hi := floatOr(c.Min, 1), floatOr(c.Max, 1000000)
		return g.int64Between(int64(lo), int64(hi)), nil

	case containsString(overrideNumericTypes, kind):
		lo, hi := floatOr(c.Min, 0), floatOr(c.Max, 10000)
		decimals := 2
		if c.Decimals != nil {
			decimals = *c.Decimals
		}
		return g.decimalBetween(decimal.NewFromFloat(lo), decimal.NewFromFloat(hi), int32(decimals)), nil

	case containsString(overrideTextTypes, kind):
		length := c.Length
		if length == 0 {
			length = col.Length()
		}
		if length == 0 {
			length = defaultTextLength
		}
		if l := col.Length(); l > 0 && length > l {
			length = l
		}
		if !c.Realistic {
			return g.letters(length), nil
		}
		if cat := InferCategory(col.Name); cat != CategoryNone {
			if v, err := g.Semantic(cat, col); err == nil {
				if s, ok := v.(string); ok {
					return fit(s, length), nil
				}
			}
		}
		return capitalize(g.Text(length)), nil

	case containsString(overrideDateTypes, kind):
		from, err := parseOverrideDate(c.DateFrom, "2020-01-01")
		if err != nil {
			return nil, err
		}
		to, err := parseOverrideDate(c.DateTo, "2025-12-31")
		if err != nil {
			return nil, err
		}
		days := int(to.Sub(from).Hours() / 24)
		if days < 0 {
			return nil, fmt.Errorf("fecha_inicio %s is after fecha_fin %s", c.DateFrom, c.DateTo)
		}
		t := from.AddDate(0, 0, g.rand.Intn(days+1))
		if fam == FamilyTimestamp {
			t = t.Add(time.Duration(g.rand.Intn(24*60*60)) * time.Second)
		}
		return t, nil

	case containsString(overrideBoolTypes, kind):
		p := 0.5
		if c.ProbTrue != nil {
			p = *c.ProbTrue
		}
		return boolLike(CategoryNone, col, fam, g.rand.Float64() < p)

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownOverride, o.Type)
	}
}

func parseOverrideDate(s, fallback string) (time.Time, error) {
	if s == "" {
		s = fallback
	}
	t, err := time.ParseInLocation(overrideDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func floatOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
