package wage

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed minimum_wage.yaml
var defaultTableYAML []byte

var ErrEmptyTable = errors.New("minimum wage table has no entries")

type Entry struct {
	Year   int   `yaml:"year" json:"year"`
	Hourly int64 `yaml:"hourly" json:"hourly"`
}

type tableFile struct {
	MinimumWages []Entry `yaml:"minimumWages"`
}

// Table maps calendar years to the base hourly minimum wage.
type Table struct {
	entries []Entry
}

func DefaultTable() *Table {
	table, err := ParseTable(defaultTableYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded minimum wage table: %v", err))
	}
	return table
}

// LoadTable reads a YAML table from path, or the embedded table when path is
// empty.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read minimum wage table: %w", err)
	}
	return ParseTable(data)
}

func ParseTable(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse minimum wage table: %w", err)
	}
	if len(file.MinimumWages) == 0 {
		return nil, ErrEmptyTable
	}
	seen := map[int]bool{}
	for _, entry := range file.MinimumWages {
		if entry.Hourly <= 0 {
			return nil, fmt.Errorf("minimum wage for %d must be positive", entry.Year)
		}
		if seen[entry.Year] {
			return nil, fmt.Errorf("duplicate minimum wage year %d", entry.Year)
		}
		seen[entry.Year] = true
	}
	entries := append([]Entry(nil), file.MinimumWages...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Year < entries[j].Year })
	return &Table{entries: entries}, nil
}

// BaseFor returns the entry in force for year: the latest entry at or before
// year, or the earliest entry for years before the table starts.
func (t *Table) BaseFor(year int) Entry {
	out := t.entries[0]
	for _, entry := range t.entries {
		if entry.Year > year {
			break
		}
		out = entry
	}
	return out
}

func (t *Table) Latest() Entry {
	return t.entries[len(t.entries)-1]
}

func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Schedule is the read side of a minimum wage table.
type Schedule interface {
	BaseFor(year int) Entry
	Latest() Entry
	Entries() []Entry
}
