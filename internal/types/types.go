package types

import (
	"strings"
)

// ColumnDescriptor is one column as reported by the catalog.
type ColumnDescriptor struct {
	Name              string   `yaml:"name" json:"name"`
	DeclaredType      string   `yaml:"declared_type" json:"declared_type"`
	RawUDTName        string   `yaml:"udt_name" json:"udt_name"`
	MaxLength         *int     `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	NumericPrecision  *int     `yaml:"numeric_precision,omitempty" json:"numeric_precision,omitempty"`
	NumericScale      *int     `yaml:"numeric_scale,omitempty" json:"numeric_scale,omitempty"`
	Nullable          bool     `yaml:"nullable" json:"nullable"`
	DefaultExpression *string  `yaml:"default,omitempty" json:"default,omitempty"`
	IsIdentity        bool     `yaml:"identity,omitempty" json:"identity,omitempty"`
	OrdinalPosition   int      `yaml:"position" json:"position"`
	EnumValues        []string `yaml:"enum_values,omitempty" json:"enum_values,omitempty"`
}

// IsAutoIncrement reports whether the database assigns the value itself
// (serial sequences or identity columns).
func (c ColumnDescriptor) IsAutoIncrement() bool {
	if c.IsIdentity {
		return true
	}
	return c.DefaultExpression != nil && strings.Contains(strings.ToLower(*c.DefaultExpression), "nextval(")
}

// TypeName returns the lower-cased engine type name used for matching.
func (c ColumnDescriptor) TypeName() string {
	if c.RawUDTName != "" {
		return strings.ToLower(c.RawUDTName)
	}
	return strings.ToLower(c.DeclaredType)
}

// Length returns the declared maximum length or 0 when unbounded.
func (c ColumnDescriptor) Length() int {
	if c.MaxLength == nil {
		return 0
	}
	return *c.MaxLength
}

type ForeignKey struct {
	Column           string `yaml:"column" json:"column"`
	ReferencedTable  string `yaml:"referenced_table" json:"referenced_table"`
	ReferencedColumn string `yaml:"referenced_column" json:"referenced_column"`
}

type Sequence struct {
	Name      string `yaml:"name" json:"name"`
	DataType  string `yaml:"data_type" json:"data_type"`
	Start     string `yaml:"start" json:"start"`
	Min       string `yaml:"min" json:"min"`
	Max       string `yaml:"max" json:"max"`
	Increment string `yaml:"increment" json:"increment"`
}

type Index struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []string `yaml:"columns" json:"columns"`
	Unique  bool     `yaml:"unique" json:"unique"`
}

// SchemaModel is the structural snapshot of one schema. It is rebuilt on
// every analysis and never updated in place.
type SchemaModel struct {
	Schema            string                        `yaml:"schema" json:"schema"`
	Tables            []string                      `yaml:"tables" json:"tables"`
	Columns           map[string][]ColumnDescriptor `yaml:"columns" json:"columns"`
	PrimaryKeys       map[string][]string           `yaml:"primary_keys" json:"primary_keys"`
	ForeignKeys       map[string][]ForeignKey       `yaml:"foreign_keys" json:"foreign_keys"`
	UniqueConstraints map[string][]string           `yaml:"unique_constraints" json:"unique_constraints"`
	// CheckConstraints holds raw predicate text; it is collected but not
	// evaluated during generation.
	CheckConstraints map[string][]string `yaml:"check_constraints" json:"check_constraints"`
	Sequences        []Sequence          `yaml:"sequences" json:"sequences"`
	Indices          map[string][]Index  `yaml:"indices" json:"indices"`
	Enums            map[string][]string `yaml:"enums" json:"enums"`
	LoadOrder        []string            `yaml:"load_order" json:"load_order"`
}

func NewSchemaModel(schema string) *SchemaModel {
	return &SchemaModel{
		Schema:            schema,
		Tables:            []string{},
		Columns:           make(map[string][]ColumnDescriptor),
		PrimaryKeys:       make(map[string][]string),
		ForeignKeys:       make(map[string][]ForeignKey),
		UniqueConstraints: make(map[string][]string),
		CheckConstraints:  make(map[string][]string),
		Sequences:         []Sequence{},
		Indices:           make(map[string][]Index),
		Enums:             make(map[string][]string),
		LoadOrder:         []string{},
	}
}

func (m *SchemaModel) HasTable(table string) bool {
	_, ok := m.Columns[table]
	return ok
}

func (m *SchemaModel) Column(table, column string) (ColumnDescriptor, bool) {
	for _, c := range m.Columns[table] {
		if c.Name == column {
			return c, true
		}
	}
	return ColumnDescriptor{}, false
}

func (m *SchemaModel) IsPrimaryKey(table, column string) bool {
	return contains(m.PrimaryKeys[table], column)
}

func (m *SchemaModel) IsUnique(table, column string) bool {
	return contains(m.UniqueConstraints[table], column)
}

func (m *SchemaModel) ForeignKeyFor(table, column string) (ForeignKey, bool) {
	for _, fk := range m.ForeignKeys[table] {
		if fk.Column == column {
			return fk, true
		}
	}
	return ForeignKey{}, false
}

// ReferencedColumns returns the columns of table that some foreign key in the
// schema points at, primary key columns first.
func (m *SchemaModel) ReferencedColumns(table string) []string {
	cols := append([]string{}, m.PrimaryKeys[table]...)
	for _, t := range m.Tables {
		for _, fk := range m.ForeignKeys[t] {
			if fk.ReferencedTable == table && !contains(cols, fk.ReferencedColumn) {
				cols = append(cols, fk.ReferencedColumn)
			}
		}
	}
	return cols
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
