package seeder

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type TableReport struct {
	Table     string     `yaml:"table" json:"table"`
	Requested int        `yaml:"requested" json:"requested"`
	Inserted  int64      `yaml:"inserted" json:"inserted"`
	Discarded int        `yaml:"discarded" json:"discarded"`
	State     TableState `yaml:"state" json:"state"`
	Path      string     `yaml:"path,omitempty" json:"path,omitempty"`
	Errors    []string   `yaml:"errors,omitempty" json:"errors,omitempty"`
}

// Report summarizes one generation run. Tables keep load order.
type Report struct {
	Schema    string        `yaml:"schema" json:"schema"`
	Seed      int64         `yaml:"seed" json:"seed"`
	Total     int64         `yaml:"total_inserted" json:"total_inserted"`
	Discarded int           `yaml:"discarded_rows" json:"discarded_rows"`
	Elapsed   time.Duration `yaml:"elapsed" json:"elapsed"`
	Tables    []TableReport `yaml:"tables" json:"tables"`
	Errors    []string      `yaml:"errors,omitempty" json:"errors,omitempty"`
}

func (r *Report) add(t TableReport) {
	r.Tables = append(r.Tables, t)
	r.Total += t.Inserted
	r.Discarded += t.Discarded
	for _, e := range t.Errors {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", t.Table, e))
	}
}

// Table returns the entry for table, if it was part of the run.
func (r *Report) Table(table string) (TableReport, bool) {
	for _, t := range r.Tables {
		if t.Table == table {
			return t, true
		}
	}
	return TableReport{}, false
}

func (r *Report) WriteYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
