package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
)

// Seeder is the engine front ends call. One run at a time; the referential
// cache and uniqueness tracker live only inside Generate.
type Seeder struct {
	db     Database
	schema string
	cfg    config.GenerationConfig
	log    Logger
	now    func() time.Time

	// mu serializes runs; model is swapped atomically so Model can be read
	// while a run holds mu.
	mu    sync.Mutex
	model atomic.Pointer[types.SchemaModel]
}

func NewSeeder(db Database, schema string, cfg config.GenerationConfig, log Logger) *Seeder {
	return &Seeder{
		db:     db,
		schema: schema,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Model returns the last analyzed schema, or nil.
func (s *Seeder) Model() *types.SchemaModel {
	return s.model.Load()
}

// Analyze rebuilds the schema model from the catalog.
func (s *Seeder) Analyze(ctx context.Context) (*types.SchemaModel, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	if err := s.ping(ctx); err != nil {
		return nil, err
	}
	return s.analyze(ctx)
}

func (s *Seeder) analyze(ctx context.Context) (*types.SchemaModel, error) {
	s.log.Info("🔍 Analyzing schema %s...", s.schema)

	model, err := Introspect(ctx, s.db, s.schema, s.log)
	if err != nil {
		return nil, err
	}
	s.model.Store(model)

	if len(model.Tables) == 0 {
		s.log.Warn("No tables found in schema %s", s.schema)
		return model, nil
	}
	s.log.Success("Found %d tables", len(model.Tables))
	s.log.Info("📋 Load order: %s", strings.Join(model.LoadOrder, " → "))
	return model, nil
}

func (s *Seeder) ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return nil
}

// RowCount resolves how many rows to generate for table: an explicit count
// first, then cantidad_por_tabla, then the foreign key multiplier, then
// cantidad_base.
func (s *Seeder) RowCount(table string, explicit map[string]int) int {
	if n, ok := explicit[table]; ok {
		return n
	}
	if n, ok := s.cfg.CountPerTable[table]; ok {
		return n
	}
	base := s.cfg.BaseCount
	if model := s.model.Load(); s.cfg.FKMultiplier.Enabled && model != nil {
		if k := len(model.ForeignKeys[table]); k > 0 {
			return int(float64(base*k) * s.cfg.FKMultiplier.Factor)
		}
	}
	return base
}

// Generate fills tables (all when empty) in load order. counts overrides the
// row count per table. Only connection and catalog failures are returned as
// errors; everything else is recorded in the report.
func (s *Seeder) Generate(ctx context.Context, tables []string, counts map[string]int) (*Report, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	start := s.now()
	if err := s.ping(ctx); err != nil {
		return nil, err
	}
	if s.model.Load() == nil {
		if _, err := s.analyze(ctx); err != nil {
			return nil, err
		}
	}

	ref, err := s.cfg.ReferenceTime(start)
	if err != nil {
		return nil, err
	}
	seed := s.cfg.Seeds.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	report := &Report{Schema: s.schema, Seed: seed}
	selected := s.selectTables(tables, report)

	cache := NewReferentialCache()
	enforcer := NewEnforcer(s.model.Load(), s.cfg, NewDataGenerator(s.cfg, seed, ref), cache, s.db, s.log)
	loader := NewLoader(s.db, s.model.Load(), cache, s.cfg.Optimization, s.log)

	s.log.Info("🌱 Generating data for %d tables...", len(selected))
	for i, table := range selected {
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("run interrupted before %s: %v", table, err))
			break
		}
		s.log.Info("[%d/%d] %s", i+1, len(selected), table)
		report.add(s.generateTable(ctx, table, s.RowCount(table, counts), enforcer, loader))
	}

	report.Elapsed = s.now().Sub(start)
	s.log.Success("Inserted %d rows into %d tables in %s", report.Total, len(report.Tables), report.Elapsed.Round(time.Millisecond))
	if report.Discarded > 0 {
		s.log.Warn("%d rows discarded because a required column had no value", report.Discarded)
	}
	return report, nil
}

// selectTables keeps load order and reports names that are not in the schema.
func (s *Seeder) selectTables(tables []string, report *Report) []string {
	if len(tables) == 0 {
		return append([]string{}, s.model.Load().LoadOrder...)
	}

	wanted := make(map[string]bool, len(tables))
	for _, t := range tables {
		if !s.model.Load().HasTable(t) {
			msg := fmt.Sprintf("table %s not found in schema %s", t, s.schema)
			s.log.Warn("Skipping %s", msg)
			report.Errors = append(report.Errors, msg)
			continue
		}
		wanted[t] = true
	}

	var selected []string
	for _, t := range s.model.Load().LoadOrder {
		if wanted[t] {
			selected = append(selected, t)
		}
	}
	return selected
}

func (s *Seeder) generateTable(ctx context.Context, table string, n int, enforcer *Enforcer, loader *Loader) TableReport {
	tr := TableReport{Table: table, Requested: n, State: StatePending}

	plans := enforcer.plan(table)
	if len(plans) == 0 {
		s.log.Warn("%s has no columns to generate, skipping", table)
		tr.State = StateDone
		return tr
	}

	tr.State = StateGenerating
	s.log.Info("  📝 Generating %d rows for %s...", n, table)
	rows := make([][]any, 0, n)
	for i := 0; i < n; i++ {
		row, ok := enforcer.buildRow(ctx, table, plans)
		if !ok {
			tr.Discarded++
			continue
		}
		rows = append(rows, row)
	}
	if tr.Discarded > 0 {
		s.log.Warn("  %d rows of %s discarded: a NOT NULL column had no value", tr.Discarded, table)
	}
	if len(rows) == 0 && n > 0 {
		tr.State = StateFailed
		tr.Errors = append(tr.Errors, fmt.Sprintf("all %d rows discarded", n))
		s.log.Error("%s: no rows inserted", table)
		return tr
	}

	out, err := loader.Load(ctx, table, plans, rows)
	tr.Inserted = out.Inserted
	tr.State = out.State
	tr.Path = out.Path
	tr.Errors = out.Errors
	if err != nil && !containsError(tr.Errors, err) {
		tr.Errors = append(tr.Errors, err.Error())
	}

	switch tr.State {
	case StateDone:
		s.log.Success("%s: %d rows inserted (%s)", table, tr.Inserted, tr.Path)
	default:
		s.log.Error("%s: no rows inserted", table)
	}
	return tr
}

func containsError(list []string, err error) bool {
	for _, e := range list {
		if strings.Contains(e, err.Error()) {
			return true
		}
	}
	return false
}

// Truncate empties tables (all when empty) in reverse load order. Every
// table is attempted; failures are joined.
func (s *Seeder) Truncate(ctx context.Context, tables []string) error {
	if !s.mu.TryLock() {
		return ErrRunInProgress
	}
	defer s.mu.Unlock()

	if err := s.ping(ctx); err != nil {
		return err
	}
	if s.model.Load() == nil {
		if _, err := s.analyze(ctx); err != nil {
			return err
		}
	}

	report := &Report{}
	selected := s.selectTables(tables, report)

	s.log.Warn("🗑️  Truncating %d tables...", len(selected))
	var errs []error
	for i := len(selected) - 1; i >= 0; i-- {
		table := selected[i]
		if err := s.db.Truncate(ctx, s.schema, table); err != nil {
			s.log.Warn("  Failed to truncate %s: %v", table, err)
			errs = append(errs, fmt.Errorf("failed to truncate %s: %w", table, err))
			continue
		}
		s.log.Info("  Truncated %s", table)
	}
	for _, msg := range report.Errors {
		errs = append(errs, errors.New(msg))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.log.Success("Tables truncated")
	return nil
}
