package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ehr/practice/internal/platform/query"
	"github.com/ehr/practice/internal/platform/querysql"
)

type fileCatalog struct {
	Entities []fileEntity `yaml:"entities"`
}

type fileEntity struct {
	Name         string               `yaml:"name"`
	Table        string               `yaml:"table,omitempty"`
	PrimaryKey   string               `yaml:"primary_key"`
	Columns      []string             `yaml:"columns,omitempty"`
	ColumnMap    map[string]string    `yaml:"column_map,omitempty"`
	Search       []string             `yaml:"search,omitempty"`
	Filters      map[string]fileField `yaml:"filters"`
	Sortable     []string             `yaml:"sortable,omitempty"`
	DefaultSort  fileSort             `yaml:"default_sort"`
	DefaultLimit int                  `yaml:"default_limit,omitempty"`
	MaxLimit     int                  `yaml:"max_limit,omitempty"`
}

type fileField struct {
	Type   string   `yaml:"type"`
	Values []string `yaml:"values,omitempty"`
}

// UnmarshalYAML accepts either a bare type name or a mapping:
//
//	is_active: boolean
//	status: {type: enum, values: [OPEN, CLOSED]}
func (f *fileField) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Type = node.Value
		return nil
	}
	type plain fileField
	return node.Decode((*plain)(f))
}

type fileSort struct {
	Field     string `yaml:"field"`
	Direction string `yaml:"direction"`
}

// Load reads entity definitions from a YAML catalog file.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return defs, nil
}

// Parse decodes entity definitions from YAML.
func Parse(data []byte) ([]Definition, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(fc.Entities) == 0 {
		return nil, fmt.Errorf("no entities declared")
	}

	defs := make([]Definition, 0, len(fc.Entities))
	for _, fe := range fc.Entities {
		d, err := fe.definition()
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", fe.Name, err)
		}
		defs = append(defs, d)
	}
	return defs, nil
}

func (fe fileEntity) definition() (Definition, error) {
	filterable := make(map[string]query.Field, len(fe.Filters))
	for name, ff := range fe.Filters {
		t, err := query.ParseFieldType(ff.Type)
		if err != nil {
			return Definition{}, fmt.Errorf("filter %q: %w", name, err)
		}
		filterable[name] = query.Field{Type: t, EnumValues: ff.Values}
	}

	dir, ok := query.ParseDirection(fe.DefaultSort.Direction)
	if !ok {
		if fe.DefaultSort.Direction != "" {
			return Definition{}, fmt.Errorf("default_sort direction %q must be ASC or DESC", fe.DefaultSort.Direction)
		}
		dir = query.Asc
	}

	table := fe.Table
	if table == "" {
		table = fe.Name
	}

	return Definition{
		Name: fe.Name,
		Table: querysql.Table{
			Name:       table,
			PrimaryKey: fe.PrimaryKey,
			Columns:    fe.Columns,
			ColumnMap:  fe.ColumnMap,
		},
		Schema: query.Schema{
			SearchFields: fe.Search,
			Filterable:   filterable,
			Sortable:     fe.Sortable,
			DefaultSort:  query.Sort{Field: fe.DefaultSort.Field, Direction: dir},
			DefaultLimit: fe.DefaultLimit,
			MaxLimit:     fe.MaxLimit,
		},
	}, nil
}
