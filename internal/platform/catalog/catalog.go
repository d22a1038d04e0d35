// Package catalog holds the listable entities of the practice-management
// API: the table each one reads from and the query schema its list
// endpoint compiles against.
package catalog

import (
	"fmt"
	"sort"

	"github.com/ehr/practice/internal/platform/query"
	"github.com/ehr/practice/internal/platform/querysql"
)

// Definition declares one listable entity.
type Definition struct {
	Name   string
	Table  querysql.Table
	Schema query.Schema
}

// Entity is a validated Definition with its prebuilt compiler.
type Entity struct {
	Definition
	compiler *query.Compiler
}

// Compiler returns the entity's compiler. It is safe for concurrent use.
func (e *Entity) Compiler() *query.Compiler { return e.compiler }

// Catalog is an immutable set of entities keyed by name.
type Catalog struct {
	entities map[string]*Entity
}

// New validates every definition and builds its compiler.
func New(defs []Definition, opts ...query.Option) (*Catalog, error) {
	c := &Catalog{entities: make(map[string]*Entity, len(defs))}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("entity with empty name")
		}
		if _, dup := c.entities[d.Name]; dup {
			return nil, fmt.Errorf("entity %q declared twice", d.Name)
		}
		if d.Table.Name == "" {
			d.Table.Name = d.Name
		}
		if err := checkSortable(d); err != nil {
			return nil, err
		}
		comp, err := query.NewCompiler(d.Schema, opts...)
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", d.Name, err)
		}
		c.entities[d.Name] = &Entity{Definition: d, compiler: comp}
	}
	return c, nil
}

// checkSortable rejects sort fields the table cannot order by when the
// table has an explicit select list.
func checkSortable(d Definition) error {
	if len(d.Table.Columns) == 0 {
		return nil
	}
	known := make(map[string]bool, len(d.Table.Columns))
	for _, col := range d.Table.Columns {
		known[col] = true
	}
	for field := range d.Table.ColumnMap {
		known[field] = true
	}
	for _, f := range append([]string{d.Schema.DefaultSort.Field}, d.Schema.Sortable...) {
		if !known[f] {
			return fmt.Errorf("entity %q: sort field %q is not a selected column", d.Name, f)
		}
	}
	return nil
}

// Lookup returns the entity registered under name.
func (c *Catalog) Lookup(name string) (*Entity, bool) {
	e, ok := c.entities[name]
	return e, ok
}

// Names returns the entity names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.entities))
	for name := range c.entities {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FromConfig loads the catalog file when one is configured and falls
// back to the built-in entities otherwise.
func FromConfig(file string, opts ...query.Option) (*Catalog, error) {
	if file == "" {
		return New(Builtin(), opts...)
	}
	defs, err := Load(file)
	if err != nil {
		return nil, err
	}
	return New(defs, opts...)
}
