package seeder

import (
	"sort"

	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
)

type DependencyGraph struct {
	tables map[string]map[string]bool
	order  []string
	cycles [][]string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		tables: make(map[string]map[string]bool),
	}
}

// AddTable registers a table and the tables it references. Self references
// are not dependencies.
func (g *DependencyGraph) AddTable(table string, dependsOn ...string) {
	deps, ok := g.tables[table]
	if !ok {
		deps = make(map[string]bool)
		g.tables[table] = deps
	}
	for _, dep := range dependsOn {
		if dep != table {
			deps[dep] = true
		}
	}
}

// BuildInsertionOrder sorts tables so referenced tables come first. Tables
// with no dependencies are visited first, then a full sweep; both in name
// order. A cycle is recorded and broken at the edge that closes it.
func (g *DependencyGraph) BuildInsertionOrder() ([]string, [][]string) {
	visited := make(map[string]bool)
	inProgress := make(map[string]bool)
	var stack []string
	var order []string
	var cycles [][]string

	var visit func(string)
	visit = func(tableName string) {
		if inProgress[tableName] {
			cycles = append(cycles, cyclePath(stack, tableName))
			return
		}
		if visited[tableName] {
			return
		}

		inProgress[tableName] = true
		stack = append(stack, tableName)

		for _, dep := range g.dependencies(tableName) {
			visit(dep)
		}

		stack = stack[:len(stack)-1]
		inProgress[tableName] = false
		visited[tableName] = true
		order = append(order, tableName)
	}

	names := make([]string, 0, len(g.tables))
	for name := range g.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, tableName := range names {
		if len(g.tables[tableName]) == 0 {
			visit(tableName)
		}
	}
	for _, tableName := range names {
		visit(tableName)
	}

	g.order = order
	g.cycles = cycles
	return order, cycles
}

func (g *DependencyGraph) GetOrder() []string {
	return g.order
}

// dependencies returns the known tables tableName depends on, sorted.
// References to tables outside the graph are ignored.
func (g *DependencyGraph) dependencies(tableName string) []string {
	var deps []string
	for dep := range g.tables[tableName] {
		if _, known := g.tables[dep]; known {
			deps = append(deps, dep)
		}
	}
	sort.Strings(deps)
	return deps
}

func cyclePath(stack []string, closing string) []string {
	for i, name := range stack {
		if name == closing {
			path := append([]string{}, stack[i:]...)
			return append(path, closing)
		}
	}
	return []string{closing, closing}
}

// Resolve orders tables for loading from their foreign keys.
func Resolve(tables []string, foreignKeys map[string][]types.ForeignKey) ([]string, [][]string) {
	g := NewDependencyGraph()
	for _, table := range tables {
		var refs []string
		for _, fk := range foreignKeys[table] {
			refs = append(refs, fk.ReferencedTable)
		}
		g.AddTable(table, refs...)
	}
	return g.BuildInsertionOrder()
}
