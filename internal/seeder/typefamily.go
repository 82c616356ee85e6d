package seeder

import (
	"strings"

	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
)

// TypeFamily groups engine types that share a generation strategy.
type TypeFamily int

const (
	FamilyUnknown TypeFamily = iota
	FamilyText
	FamilyLongText
	FamilySmallInt
	FamilyInteger
	FamilyBigInt
	FamilyNumeric
	FamilyFloat
	FamilyDate
	FamilyTimestamp
	FamilyTime
	FamilyInterval
	FamilyBoolean
	FamilyUUID
	FamilyJSON
	FamilyArray
	FamilyNetwork
	FamilyBinary
	FamilyEnum

	familyCount
)

var familyNames = [familyCount]string{
	FamilyUnknown:   "unknown",
	FamilyText:      "text",
	FamilyLongText:  "long text",
	FamilySmallInt:  "smallint",
	FamilyInteger:   "integer",
	FamilyBigInt:    "bigint",
	FamilyNumeric:   "numeric",
	FamilyFloat:     "float",
	FamilyDate:      "date",
	FamilyTimestamp: "timestamp",
	FamilyTime:      "time",
	FamilyInterval:  "interval",
	FamilyBoolean:   "boolean",
	FamilyUUID:      "uuid",
	FamilyJSON:      "json",
	FamilyArray:     "array",
	FamilyNetwork:   "network",
	FamilyBinary:    "binary",
	FamilyEnum:      "enum",
}

func (f TypeFamily) String() string {
	if f < 0 || f >= familyCount {
		return "unknown"
	}
	return familyNames[f]
}

var typeFamilies = map[string]TypeFamily{
	"varchar": FamilyText, "character varying": FamilyText,
	"bpchar": FamilyText, "char": FamilyText, "character": FamilyText,
	"name": FamilyText, "citext": FamilyText,
	"text": FamilyLongText,
	"int2": FamilySmallInt, "smallint": FamilySmallInt,
	"int4": FamilyInteger, "integer": FamilyInteger, "int": FamilyInteger,
	"int8": FamilyBigInt, "bigint": FamilyBigInt,
	"numeric": FamilyNumeric, "decimal": FamilyNumeric, "money": FamilyNumeric,
	"float4": FamilyFloat, "float8": FamilyFloat, "real": FamilyFloat, "double precision": FamilyFloat,
	"date":      FamilyDate,
	"timestamp": FamilyTimestamp, "timestamptz": FamilyTimestamp,
	"timestamp without time zone": FamilyTimestamp, "timestamp with time zone": FamilyTimestamp,
	"time": FamilyTime, "timetz": FamilyTime,
	"time without time zone": FamilyTime, "time with time zone": FamilyTime,
	"interval": FamilyInterval,
	"bool":     FamilyBoolean, "boolean": FamilyBoolean,
	"uuid": FamilyUUID,
	"json": FamilyJSON, "jsonb": FamilyJSON,
	"inet": FamilyNetwork, "cidr": FamilyNetwork, "macaddr": FamilyNetwork,
	"bytea": FamilyBinary,
}

// familyOf classifies a column by its engine type name.
func familyOf(col types.ColumnDescriptor) TypeFamily {
	if len(col.EnumValues) > 0 {
		return FamilyEnum
	}
	name := col.TypeName()
	if strings.HasPrefix(name, "_") || strings.HasSuffix(name, "[]") || strings.EqualFold(col.DeclaredType, "ARRAY") {
		return FamilyArray
	}
	return familyOfName(name)
}

func familyOfName(name string) TypeFamily {
	name = strings.ToLower(strings.TrimSpace(name))
	if i := strings.Index(name, "("); i > 0 {
		name = strings.TrimSpace(name[:i])
	}
	if f, ok := typeFamilies[name]; ok {
		return f
	}
	return FamilyUnknown
}

// elementType returns the element type name of an array column.
func elementType(col types.ColumnDescriptor) string {
	name := col.TypeName()
	switch {
	case strings.HasPrefix(name, "_"):
		return name[1:]
	case strings.HasSuffix(name, "[]"):
		return strings.TrimSuffix(name, "[]")
	default:
		return "text"
	}
}

func isTextFamily(f TypeFamily) bool {
	return f == FamilyText || f == FamilyLongText
}

func isIntegerFamily(f TypeFamily) bool {
	return f == FamilySmallInt || f == FamilyInteger || f == FamilyBigInt
}

func isTemporalFamily(f TypeFamily) bool {
	return f == FamilyDate || f == FamilyTimestamp
}
