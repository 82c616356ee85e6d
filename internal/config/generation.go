package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// documentKey is the optional wrapper key used by saved generation documents.
const documentKey = "config_generacion"

const dateLayout = "2006-01-02"

// GenerationConfig drives one generation run. Build it with
// LoadGeneration or Merge; the engine treats it as read-only.
type GenerationConfig struct {
	BaseCount             int                       `mapstructure:"cantidad_base" yaml:"cantidad_base" json:"cantidad_base"`
	CountPerTable         map[string]int            `mapstructure:"cantidad_por_tabla" yaml:"cantidad_por_tabla" json:"cantidad_por_tabla"`
	FKMultiplier          FKMultiplier              `mapstructure:"multiplicadores_fk" yaml:"multiplicadores_fk" json:"multiplicadores_fk"`
	Nulls                 NullPolicy                `mapstructure:"generacion_nulls" yaml:"generacion_nulls" json:"generacion_nulls"`
	Cleanup               CleanupPolicy             `mapstructure:"limpieza_previa" yaml:"limpieza_previa" json:"limpieza_previa"`
	Ranges                NumericRanges             `mapstructure:"rangos_personalizados" yaml:"rangos_personalizados" json:"rangos_personalizados"`
	DateRanges            DateRanges                `mapstructure:"rangos_fechas" yaml:"rangos_fechas" json:"rangos_fechas"`
	Text                  TextOptions               `mapstructure:"texto" yaml:"texto" json:"texto"`
	Optimization          Optimization              `mapstructure:"optimizacion" yaml:"optimizacion" json:"optimizacion"`
	Seeds                 Seeds                     `mapstructure:"seeds" yaml:"seeds" json:"seeds"`
	ColumnOverrides       map[string]ColumnOverride `mapstructure:"columnas_personalizadas" yaml:"columnas_personalizadas" json:"columnas_personalizadas"`
}

type FKMultiplier struct {
	Enabled bool    `mapstructure:"habilitado" yaml:"habilitado" json:"habilitado"`
	Factor  float64 `mapstructure:"factor" yaml:"factor" json:"factor"`
}

type NullPolicy struct {
	Enabled     bool    `mapstructure:"habilitado" yaml:"habilitado" json:"habilitado"`
	Probability float64 `mapstructure:"probabilidad" yaml:"probabilidad" json:"probabilidad"`
	ExcludePKs  bool    `mapstructure:"excluir_pks" yaml:"excluir_pks" json:"excluir_pks"`
	ExcludeFKs  bool    `mapstructure:"excluir_fks" yaml:"excluir_fks" json:"excluir_fks"`
}

type CleanupPolicy struct {
	Ask       bool `mapstructure:"preguntar" yaml:"preguntar" json:"preguntar"`
	Automatic bool `mapstructure:"automatico" yaml:"automatico" json:"automatico"`
}

type IntRange struct {
	Min int64 `mapstructure:"min" yaml:"min" json:"min"`
	Max int64 `mapstructure:"max" yaml:"max" json:"max"`
}

type NumericRange struct {
	MaxValue float64 `mapstructure:"max_valor" yaml:"max_valor" json:"max_valor"`
}

type NumericRanges struct {
	SmallInt IntRange     `mapstructure:"smallint" yaml:"smallint" json:"smallint"`
	Integer  IntRange     `mapstructure:"integer" yaml:"integer" json:"integer"`
	BigInt   IntRange     `mapstructure:"bigint" yaml:"bigint" json:"bigint"`
	Numeric  NumericRange `mapstructure:"numeric" yaml:"numeric" json:"numeric"`
}

// DateWindow is expressed in days relative to the reference date.
type DateWindow struct {
	DaysBack    int `mapstructure:"dias_atras" yaml:"dias_atras" json:"dias_atras"`
	DaysForward int `mapstructure:"dias_adelante" yaml:"dias_adelante" json:"dias_adelante"`
}

type DateRanges struct {
	Date      DateWindow `mapstructure:"date" yaml:"date" json:"date"`
	Timestamp DateWindow `mapstructure:"timestamp" yaml:"timestamp" json:"timestamp"`
}

type TextOptions struct {
	MaxLengthText int      `mapstructure:"max_length_text" yaml:"max_length_text" json:"max_length_text"`
	CustomWords   []string `mapstructure:"palabras_personalizadas" yaml:"palabras_personalizadas" json:"palabras_personalizadas"`
}

type Optimization struct {
	UseCopy   bool `mapstructure:"usar_copy" yaml:"usar_copy" json:"usar_copy"`
	BatchSize int  `mapstructure:"batch_size" yaml:"batch_size" json:"batch_size"`
}

type Seeds struct {
	RandomSeed    int64  `mapstructure:"random_seed" yaml:"random_seed" json:"random_seed"`
	ReferenceDate string `mapstructure:"fecha_referencia" yaml:"fecha_referencia,omitempty" json:"fecha_referencia,omitempty"`
}

// ColumnOverride replaces inference for one "table.column".
type ColumnOverride struct {
	Type   string         `mapstructure:"tipo" yaml:"tipo" json:"tipo"`
	Config OverrideConfig `mapstructure:"config" yaml:"config" json:"config"`
}

type OverrideConfig struct {
	Min         *float64 `mapstructure:"min" yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64 `mapstructure:"max" yaml:"max,omitempty" json:"max,omitempty"`
	Decimals    *int     `mapstructure:"decimales" yaml:"decimales,omitempty" json:"decimales,omitempty"`
	Length      int      `mapstructure:"longitud" yaml:"longitud,omitempty" json:"longitud,omitempty"`
	Realistic   bool     `mapstructure:"usar_faker" yaml:"usar_faker,omitempty" json:"usar_faker,omitempty"`
	DateFrom    string   `mapstructure:"fecha_inicio" yaml:"fecha_inicio,omitempty" json:"fecha_inicio,omitempty"`
	DateTo      string   `mapstructure:"fecha_fin" yaml:"fecha_fin,omitempty" json:"fecha_fin,omitempty"`
	ProbTrue    *float64 `mapstructure:"prob_true" yaml:"prob_true,omitempty" json:"prob_true,omitempty"`
}

func defaultDocument() map[string]any {
	return map[string]any{
		"cantidad_base":      100,
		"cantidad_por_tabla": map[string]any{},
		"multiplicadores_fk": map[string]any{
			"habilitado": true,
			"factor":     1.0,
		},
		"generacion_nulls": map[string]any{
			"habilitado":   true,
			"probabilidad": 0.2,
			"excluir_pks":  true,
			"excluir_fks":  false,
		},
		"limpieza_previa": map[string]any{
			"preguntar":  true,
			"automatico": false,
		},
		"rangos_personalizados": map[string]any{
			"integer":  map[string]any{"min": 1, "max": int64(math.MaxInt32)},
			"bigint":   map[string]any{"min": 1, "max": int64(math.MaxInt64)},
			"smallint": map[string]any{"min": 1, "max": int64(math.MaxInt16)},
			"numeric":  map[string]any{"max_valor": 999999.0},
		},
		"rangos_fechas": map[string]any{
			"date":      map[string]any{"dias_atras": 1825, "dias_adelante": 0},
			"timestamp": map[string]any{"dias_atras": 730, "dias_adelante": 0},
		},
		"texto": map[string]any{
			"max_length_text":         500,
			"palabras_personalizadas": []any{},
		},
		"optimizacion": map[string]any{
			"usar_copy":  true,
			"batch_size": 100,
		},
		"seeds": map[string]any{
			"random_seed": 0,
		},
		"columnas_personalizadas": map[string]any{},
	}
}

// DefaultGeneration returns the hard-coded defaults.
func DefaultGeneration() GenerationConfig {
	cfg, err := decodeDocument(defaultDocument())
	if err != nil {
		panic(fmt.Sprintf("invalid default generation config: %v", err))
	}
	return cfg
}

// LoadGeneration reads an optional YAML or JSON document and deep-merges it
// over the defaults. A missing file yields the defaults.
func LoadGeneration(path string) (GenerationConfig, error) {
	if path == "" {
		return DefaultGeneration(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultGeneration(), nil
		}
		return GenerationConfig{}, fmt.Errorf("failed to read generation config %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return GenerationConfig{}, fmt.Errorf("failed to parse generation config %s: %w", path, err)
	}

	return DefaultGeneration().Merge(doc)
}

// SaveGeneration writes cfg to path, as YAML for .yaml/.yml and as a
// wrapped JSON document otherwise.
func SaveGeneration(path string, cfg GenerationConfig) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(map[string]any{documentKey: cfg})
	default:
		data, err = json.MarshalIndent(map[string]any{documentKey: cfg}, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode generation config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Merge deep-merges doc over c and returns the result as a new value.
func (c GenerationConfig) Merge(doc map[string]any) (GenerationConfig, error) {
	if wrapped, ok := doc[documentKey].(map[string]any); ok {
		doc = wrapped
	}

	base, err := c.document()
	if err != nil {
		return GenerationConfig{}, err
	}

	merged, err := decodeDocument(mergeMaps(base, doc))
	if err != nil {
		return GenerationConfig{}, err
	}

	if err := merged.Validate(); err != nil {
		return GenerationConfig{}, err
	}

	return merged, nil
}

// WithColumnOverrides returns a copy of c whose per-column overrides are
// replaced by overrides.
func (c GenerationConfig) WithColumnOverrides(overrides map[string]ColumnOverride) GenerationConfig {
	out := c.clone()
	out.ColumnOverrides = make(map[string]ColumnOverride, len(overrides))
	for k, v := range overrides {
		out.ColumnOverrides[k] = v
	}
	return out
}

// WithBaseCount returns a copy of c with a different default row count.
func (c GenerationConfig) WithBaseCount(n int) GenerationConfig {
	out := c.clone()
	out.BaseCount = n
	return out
}

// Override returns the per-column override for table.column, if any.
func (c GenerationConfig) Override(table, column string) (ColumnOverride, bool) {
	o, ok := c.ColumnOverrides[table+"."+column]
	return o, ok
}

// ReferenceTime is the anchor for temporal windows. Seeded runs without an
// explicit date anchor at the start of the current day.
func (c GenerationConfig) ReferenceTime(now time.Time) (time.Time, error) {
	if c.Seeds.ReferenceDate != "" {
		t, err := time.ParseInLocation(dateLayout, c.Seeds.ReferenceDate, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid seeds.fecha_referencia %q: %w", c.Seeds.ReferenceDate, err)
		}
		return t, nil
	}
	if c.Seeds.RandomSeed != 0 {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	return now, nil
}

func (c GenerationConfig) Validate() error {
	if c.BaseCount < 0 {
		return fmt.Errorf("cantidad_base must be >= 0, got %d", c.BaseCount)
	}
	for table, n := range c.CountPerTable {
		if n < 0 {
			return fmt.Errorf("cantidad_por_tabla.%s must be >= 0, got %d", table, n)
		}
	}
	if c.FKMultiplier.Factor < 0 {
		return fmt.Errorf("multiplicadores_fk.factor must be >= 0, got %v", c.FKMultiplier.Factor)
	}
	if p := c.Nulls.Probability; p < 0 || p > 1 {
		return fmt.Errorf("generacion_nulls.probabilidad must be within [0,1], got %v", p)
	}
	for name, r := range map[string]IntRange{
		"smallint": c.Ranges.SmallInt,
		"integer":  c.Ranges.Integer,
		"bigint":   c.Ranges.BigInt,
	} {
		if r.Min > r.Max {
			return fmt.Errorf("rangos_personalizados.%s: min %d > max %d", name, r.Min, r.Max)
		}
	}
	if c.Ranges.Numeric.MaxValue <= 0 {
		return fmt.Errorf("rangos_personalizados.numeric.max_valor must be > 0")
	}
	for name, w := range map[string]DateWindow{"date": c.DateRanges.Date, "timestamp": c.DateRanges.Timestamp} {
		if w.DaysBack < 0 || w.DaysForward < 0 {
			return fmt.Errorf("rangos_fechas.%s: day windows must be >= 0", name)
		}
	}
	if c.Text.MaxLengthText <= 0 {
		return fmt.Errorf("texto.max_length_text must be > 0")
	}
	if c.Optimization.BatchSize <= 0 {
		return fmt.Errorf("optimizacion.batch_size must be > 0")
	}
	if c.Seeds.ReferenceDate != "" {
		if _, err := time.Parse(dateLayout, c.Seeds.ReferenceDate); err != nil {
			return fmt.Errorf("invalid seeds.fecha_referencia %q: %w", c.Seeds.ReferenceDate, err)
		}
	}
	for key, o := range c.ColumnOverrides {
		if err := o.validate(key); err != nil {
			return err
		}
	}
	return nil
}

func (o ColumnOverride) validate(key string) error {
	if !strings.Contains(key, ".") {
		return fmt.Errorf("columnas_personalizadas key %q must be table.column", key)
	}
	cfg := o.Config
	if cfg.Min != nil && cfg.Max != nil && *cfg.Min > *cfg.Max {
		return fmt.Errorf("columnas_personalizadas.%s: min %v > max %v", key, *cfg.Min, *cfg.Max)
	}
	if cfg.Decimals != nil && (*cfg.Decimals < 0 || *cfg.Decimals > 10) {
		return fmt.Errorf("columnas_personalizadas.%s: decimales must be within [0,10]", key)
	}
	if cfg.Length < 0 {
		return fmt.Errorf("columnas_personalizadas.%s: longitud must be >= 0", key)
	}
	if cfg.ProbTrue != nil && (*cfg.ProbTrue < 0 || *cfg.ProbTrue > 1) {
		return fmt.Errorf("columnas_personalizadas.%s: prob_true must be within [0,1]", key)
	}
	for _, d := range []string{cfg.DateFrom, cfg.DateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("columnas_personalizadas.%s: invalid date %q", key, d)
		}
	}
	return nil
}

func (c GenerationConfig) clone() GenerationConfig {
	out := c
	out.CountPerTable = make(map[string]int, len(c.CountPerTable))
	for k, v := range c.CountPerTable {
		out.CountPerTable[k] = v
	}
	out.ColumnOverrides = make(map[string]ColumnOverride, len(c.ColumnOverrides))
	for k, v := range c.ColumnOverrides {
		out.ColumnOverrides[k] = v
	}
	out.Text.CustomWords = append([]string(nil), c.Text.CustomWords...)
	return out
}

// document renders c back into its generic map form.
func (c GenerationConfig) document() (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation config: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode generation config: %w", err)
	}
	return doc, nil
}

func decodeDocument(doc map[string]any) (GenerationConfig, error) {
	var cfg GenerationConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return GenerationConfig{}, err
	}
	if err := decoder.Decode(doc); err != nil {
		return GenerationConfig{}, fmt.Errorf("failed to decode generation config: %w", err)
	}
	if cfg.CountPerTable == nil {
		cfg.CountPerTable = map[string]int{}
	}
	if cfg.ColumnOverrides == nil {
		cfg.ColumnOverrides = map[string]ColumnOverride{}
	}
	return cfg, nil
}

// mergeMaps copies src over dst recursively; nested maps merge, anything
// else is replaced.
func mergeMaps(dst, src map[string]any) map[string]any {
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = mergeMaps(dstMap, srcMap)
			continue
		}
		dst[key] = value
	}
	return dst
}
