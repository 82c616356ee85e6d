package seeder

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultTextLength = 50
	maxArrayItems     = 5
)

// arrayValue carries array items with the family needed to encode them.
type arrayValue struct {
	Elem  TypeFamily
	Items []any
}

type DataGenerator struct {
	rand  *rand.Rand
	cfg   config.GenerationConfig
	ref   time.Time
	words []string
}

// NewDataGenerator builds a generator whose output depends only on seed, cfg
// and ref.
func NewDataGenerator(cfg config.GenerationConfig, seed int64, ref time.Time) *DataGenerator {
	words := append([]string{}, loremWords...)
	for _, w := range cfg.Text.CustomWords {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return &DataGenerator{
		rand:  rand.New(rand.NewSource(seed)),
		cfg:   cfg,
		ref:   ref,
		words: words,
	}
}

type typeFunc func(g *DataGenerator, col types.ColumnDescriptor) any

// typeGenerators is filled in init because the array generator recurses
// into it.
var typeGenerators [familyCount]typeFunc

func init() {
	typeGenerators = [familyCount]typeFunc{
		FamilyUnknown:   func(g *DataGenerator, _ types.ColumnDescriptor) any { return g.Text(defaultTextLength) },
		FamilyText:      genText,
		FamilyLongText:  genLongText,
		FamilySmallInt:  genSmallInt,
		FamilyInteger:   genInteger,
		FamilyBigInt:    genBigInt,
		FamilyNumeric:   genNumeric,
		FamilyFloat:     func(g *DataGenerator, _ types.ColumnDescriptor) any { return round(g.rand.Float64()*10000, 2) },
		FamilyDate:      func(g *DataGenerator, _ types.ColumnDescriptor) any { return g.dateIn(g.cfg.DateRanges.Date) },
		FamilyTimestamp: func(g *DataGenerator, _ types.ColumnDescriptor) any { return g.timestampIn(g.cfg.DateRanges.Timestamp) },
		FamilyTime:      genTime,
		FamilyInterval:  genInterval,
		FamilyBoolean:   func(g *DataGenerator, _ types.ColumnDescriptor) any { return g.rand.Intn(2) == 1 },
		FamilyUUID:      func(g *DataGenerator, _ types.ColumnDescriptor) any { return g.uuid() },
		FamilyJSON:      genJSON,
		FamilyArray:     genArray,
		FamilyNetwork:   genNetwork,
		FamilyBinary:    genBinary,
		FamilyEnum:      genEnum,
	}
}

// ByType generates a value from the column's type alone.
func (g *DataGenerator) ByType(col types.ColumnDescriptor) any {
	return typeGenerators[familyOf(col)](g, col)
}

func genText(g *DataGenerator, col types.ColumnDescriptor) any {
	maxLen := col.Length()
	if maxLen == 0 {
		maxLen = defaultTextLength
	}
	return g.Text(min(maxLen, g.cfg.Text.MaxLengthText))
}

func genLongText(g *DataGenerator, col types.ColumnDescriptor) any {
	limit := g.cfg.Text.MaxLengthText
	if l := col.Length(); l > 0 && l < limit {
		limit = l
	}
	n := 100 + g.rand.Intn(401)
	return g.Text(min(n, limit))
}

func genSmallInt(g *DataGenerator, _ types.ColumnDescriptor) any {
	r := g.cfg.Ranges.SmallInt
	return g.int64Between(clamp(r.Min, math.MinInt16, math.MaxInt16), clamp(r.Max, math.MinInt16, math.MaxInt16))
}

func genInteger(g *DataGenerator, _ types.ColumnDescriptor) any {
	r := g.cfg.Ranges.Integer
	return g.int64Between(clamp(r.Min, math.MinInt32, math.MaxInt32), clamp(r.Max, math.MinInt32, math.MaxInt32))
}

func genBigInt(g *DataGenerator, _ types.ColumnDescriptor) any {
	r := g.cfg.Ranges.BigInt
	return g.int64Between(r.Min, r.Max)
}

func genNumeric(g *DataGenerator, col types.ColumnDescriptor) any {
	upper, scale := g.numericBounds(col)
	return g.decimalBetween(decimal.Zero, upper, scale)
}

func genTime(g *DataGenerator, _ types.ColumnDescriptor) any {
	return fmt.Sprintf("%02d:%02d:%02d", g.rand.Intn(24), g.rand.Intn(60), g.rand.Intn(60))
}

func genInterval(g *DataGenerator, _ types.ColumnDescriptor) any {
	return fmt.Sprintf("%d days %02d:%02d:%02d", g.rand.Intn(365), g.rand.Intn(24), g.rand.Intn(60), g.rand.Intn(60))
}

func genJSON(g *DataGenerator, _ types.ColumnDescriptor) any {
	return map[string]any{
		"id":     1 + g.rand.Intn(1000),
		"valor":  g.Text(20),
		"activo": g.rand.Intn(2) == 1,
	}
}

func genArray(g *DataGenerator, col types.ColumnDescriptor) any {
	elem := types.ColumnDescriptor{
		Name:             col.Name,
		RawUDTName:       elementType(col),
		NumericPrecision: col.NumericPrecision,
		NumericScale:     col.NumericScale,
	}
	fam := familyOfName(elem.RawUDTName)
	if fam == FamilyArray || fam == FamilyEnum {
		fam = FamilyText
	}

	n := 1 + g.rand.Intn(maxArrayItems)
	items := make([]any, n)
	for i := range items {
		items[i] = typeGenerators[fam](g, elem)
	}
	return arrayValue{Elem: fam, Items: items}
}

func genNetwork(g *DataGenerator, col types.ColumnDescriptor) any {
	switch col.TypeName() {
	case "cidr":
		return fmt.Sprintf("10.%d.%d.0/24", g.rand.Intn(256), g.rand.Intn(256))
	case "macaddr":
		b := make([]byte, 6)
		g.rand.Read(b)
		b[0] &^= 1
		return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", b[0], b[1], b[2], b[3], b[4], b[5])
	default:
		return fmt.Sprintf("10.%d.%d.%d", g.rand.Intn(256), g.rand.Intn(256), 1+g.rand.Intn(254))
	}
}

func genBinary(g *DataGenerator, _ types.ColumnDescriptor) any {
	b := make([]byte, 16)
	g.rand.Read(b)
	return b
}

func genEnum(g *DataGenerator, col types.ColumnDescriptor) any {
	if len(col.EnumValues) == 0 {
		return g.Text(defaultTextLength)
	}
	return pick(g, col.EnumValues)
}

// Text returns space-separated filler words no longer than maxLen runes.
func (g *DataGenerator) Text(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	var sb strings.Builder
	n := 0
	for {
		word := pick(g, g.words)
		extra := utf8.RuneCountInString(word)
		if n > 0 {
			extra++
		}
		if n+extra > maxLen {
			break
		}
		if n > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(word)
		n += extra
	}

	if sb.Len() == 0 {
		return g.letters(maxLen)
	}
	return sb.String()
}

func (g *DataGenerator) uuid() uuid.UUID {
	id, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		return uuid.New()
	}
	return id
}

// int64Between returns a value in [lo, hi]; the span is computed unsigned so
// the full int64 range does not overflow.
func (g *DataGenerator) int64Between(lo, hi int64) int64 {
	if lo >= hi {
		return lo
	}
	span := uint64(hi) - uint64(lo)
	if span < math.MaxInt64 {
		return lo + g.rand.Int63n(int64(span)+1)
	}
	if span == math.MaxUint64 {
		return int64(g.rand.Uint64())
	}
	return int64(uint64(lo) + g.rand.Uint64()%(span+1))
}

func (g *DataGenerator) float64Between(lo, hi float64) float64 {
	return lo + g.rand.Float64()*(hi-lo)
}

// decimalBetween truncates toward zero so the result never leaves the
// column's precision.
func (g *DataGenerator) decimalBetween(lo, hi decimal.Decimal, scale int32) decimal.Decimal {
	if hi.LessThanOrEqual(lo) {
		return lo.Truncate(scale)
	}
	frac := decimal.NewFromFloat(g.rand.Float64())
	return lo.Add(hi.Sub(lo).Mul(frac)).Truncate(scale)
}

// numericBounds returns the largest value a numeric column holds, capped by
// the configured maximum, and the scale to round to.
func (g *DataGenerator) numericBounds(col types.ColumnDescriptor) (decimal.Decimal, int32) {
	precision, scale := int32(10), int32(2)
	if col.NumericPrecision != nil && *col.NumericPrecision > 0 {
		precision = int32(*col.NumericPrecision)
	}
	if col.NumericScale != nil {
		scale = int32(*col.NumericScale)
	}

	upper := decimal.New(1, precision-scale).Sub(decimal.New(1, -scale))
	if limit := decimal.NewFromFloat(g.cfg.Ranges.Numeric.MaxValue); limit.IsPositive() && upper.GreaterThan(limit) {
		upper = limit
	}
	return upper, scale
}

func (g *DataGenerator) dateIn(w config.DateWindow) time.Time {
	offset := -w.DaysBack + g.rand.Intn(w.DaysBack+w.DaysForward+1)
	y, m, d := g.ref.AddDate(0, 0, offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (g *DataGenerator) timestampIn(w config.DateWindow) time.Time {
	offset := -w.DaysBack + g.rand.Intn(w.DaysBack+w.DaysForward+1)
	seconds := g.rand.Intn(24 * 60 * 60)
	return g.ref.AddDate(0, 0, offset).Add(-time.Duration(seconds) * time.Second).Truncate(time.Second)
}

func (g *DataGenerator) digits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + g.rand.Intn(10))
	}
	return string(b)
}

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func (g *DataGenerator) letters(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[g.rand.Intn(len(alphanumeric))]
	}
	return string(b)
}

func pick[T any](g *DataGenerator, list []T) T {
	return list[g.rand.Intn(len(list))]
}

// pickFitting picks among the entries no longer than maxLen runes.
func pickFitting(g *DataGenerator, list []string, maxLen int) (string, bool) {
	if maxLen <= 0 {
		return pick(g, list), true
	}
	var fitting []string
	for _, s := range list {
		if utf8.RuneCountInString(s) <= maxLen {
			fitting = append(fitting, s)
		}
	}
	if len(fitting) == 0 {
		return "", false
	}
	return pick(g, fitting), true
}

// fit cuts s to maxLen runes; zero means unbounded.
func fit(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:maxLen]))
}

func clamp(v, lo, hi int64) int64 {
	return max(lo, min(v, hi))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
