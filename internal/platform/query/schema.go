package query

import (
	"fmt"
	"strings"

	"github.com/ehr/practice/pkg/pagination"
)

// FieldType is the semantic type a filterable field is coerced to.
type FieldType int

const (
	FieldString FieldType = iota
	FieldUUID
	FieldBoolean
	FieldDate
	FieldInteger
	FieldFloat
	FieldEnum
)

var fieldTypeNames = map[FieldType]string{
	FieldString:  "string",
	FieldUUID:    "uuid",
	FieldBoolean: "boolean",
	FieldDate:    "date",
	FieldInteger: "integer",
	FieldFloat:   "float",
	FieldEnum:    "enum",
}

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// Ordered reports whether the type has a natural ordering, i.e. whether
// range operators are meaningful on it.
func (t FieldType) Ordered() bool {
	switch t {
	case FieldDate, FieldInteger, FieldFloat:
		return true
	}
	return false
}

// ParseFieldType maps a declared type name to its FieldType.
func ParseFieldType(s string) (FieldType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range fieldTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown field type %q", s)
}

// Field declares a filterable field. Enum operands match EnumValues
// case-insensitively and compile to their uppercase form.
type Field struct {
	Type       FieldType
	EnumValues []string
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection normalizes a sort direction case-insensitively.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	}
	return "", false
}

// Sort is one ordering entry.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Reserved parameter keys. They are routed to the search, pagination and
// sort compilers and never reach the filter path, even when a schema
// declares a filterable field of the same name.
const (
	KeySearch    = "search"
	KeyLimit     = "limit"
	KeyOffset    = "offset"
	KeySortBy    = "sort_by"
	KeySortOrder = "sort_order"
)

var reservedKeys = map[string]bool{
	KeySearch:    true,
	KeyLimit:     true,
	KeyOffset:    true,
	KeySortBy:    true,
	KeySortOrder: true,
}

// IsReserved reports whether key is a control key.
func IsReserved(key string) bool {
	return reservedKeys[key]
}

// Schema declares what an entity's list endpoint may search, filter and
// sort on. A Schema is treated as immutable once handed to the compiler.
type Schema struct {
	SearchFields []string
	Filterable   map[string]Field
	Sortable     []string
	DefaultSort  Sort
	DefaultLimit int
	MaxLimit     int
}

// Bounds returns the normalized page bounds of the schema.
func (s Schema) Bounds() pagination.Bounds {
	return pagination.Bounds{DefaultLimit: s.DefaultLimit, MaxLimit: s.MaxLimit}.Normalize()
}

// IsSortable reports whether field may be used in sort_by.
func (s Schema) IsSortable(field string) bool {
	for _, f := range s.Sortable {
		if f == field {
			return true
		}
	}
	return false
}

// ShadowedFields lists filterable fields that collide with a reserved key
// and therefore can never be filtered.
func (s Schema) ShadowedFields() []string {
	var out []string
	for name := range s.Filterable {
		if IsReserved(name) {
			out = append(out, name)
		}
	}
	return sortedStrings(out)
}

// Validate checks the schema for declarations the compiler cannot honor.
func (s Schema) Validate() error {
	if s.DefaultSort.Field == "" {
		return fmt.Errorf("default sort field is required")
	}
	if _, ok := ParseDirection(string(s.DefaultSort.Direction)); !ok {
		return fmt.Errorf("default sort direction %q must be ASC or DESC", s.DefaultSort.Direction)
	}
	if s.DefaultLimit < 0 || s.MaxLimit < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	for name, f := range s.Filterable {
		if name == "" {
			return fmt.Errorf("filterable field with empty name")
		}
		if _, ok := fieldTypeNames[f.Type]; !ok {
			return fmt.Errorf("field %q: unknown type %d", name, int(f.Type))
		}
		if f.Type == FieldEnum && len(f.EnumValues) == 0 {
			return fmt.Errorf("field %q: enum requires at least one value", name)
		}
	}
	for _, name := range s.SearchFields {
		if name == "" {
			return fmt.Errorf("search field with empty name")
		}
	}
	return nil
}

// normalized returns a defensive copy with upper-cased direction so the
// compiler never shares slices or maps with the caller.
func (s Schema) normalized() Schema {
	out := Schema{
		SearchFields: append([]string(nil), s.SearchFields...),
		Sortable:     append([]string(nil), s.Sortable...),
		Filterable:   make(map[string]Field, len(s.Filterable)),
		DefaultSort:  s.DefaultSort,
		DefaultLimit: s.DefaultLimit,
		MaxLimit:     s.MaxLimit,
	}
	for name, f := range s.Filterable {
		out.Filterable[name] = Field{Type: f.Type, EnumValues: append([]string(nil), f.EnumValues...)}
	}
	if d, ok := ParseDirection(string(s.DefaultSort.Direction)); ok {
		out.DefaultSort.Direction = d
	}
	return out
}
