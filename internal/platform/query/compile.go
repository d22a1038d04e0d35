// Package query compiles flat list-request parameters into a validated
// filter specification against a declared field schema.
//
// A request such as
//
//	?search=john&is_active=true&age_gte=18&age_lte=65&limit=25&sort_by=last_name
//
// compiles to typed predicates (is_active = true, 18 <= age <= 65), an OR
// search group over the schema's search fields, a clamped page window and
// exactly one sort entry. Keys that name no filterable field are ignored;
// invalid values on filterable fields fail the whole compilation with a
// *CompileError. Pagination and sort input never fails and degrades to
// the schema defaults instead.
//
// The compiler is pure: no I/O and no shared mutable state, so a single
// *Compiler may serve concurrent requests.
package query

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithStrictOrdering rejects gt/gte/lt/lte/between on fields whose type
// has no natural ordering (uuid, boolean, enum, string).
func WithStrictOrdering() Option {
	return func(c *Compiler) { c.strict = true }
}

// WithLogger logs ignored keys at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// Compiler compiles parameters against one schema.
type Compiler struct {
	schema Schema
	strict bool
	logger zerolog.Logger
}

// NewCompiler validates schema and returns a compiler bound to it.
func NewCompiler(schema Schema, opts ...Option) (*Compiler, error) {
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	c := &Compiler{schema: schema.normalized(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Compile is the one-shot form of NewCompiler followed by Compile.
func Compile(schema Schema, params Params, opts ...Option) (*Spec, error) {
	c, err := NewCompiler(schema, opts...)
	if err != nil {
		return nil, err
	}
	return c.Compile(params)
}

// Schema returns the compiler's schema.
func (c *Compiler) Schema() Schema { return c.schema.normalized() }

// Strict reports whether ordering operators are restricted to ordered types.
func (c *Compiler) Strict() bool { return c.strict }

// Compile turns params into a filter specification. The first invalid
// filter value, in parameter order, aborts compilation.
func (c *Compiler) Compile(params Params) (*Spec, error) {
	spec := &Spec{}
	index := make(map[string]int)

	for _, p := range params {
		key, ok := ParseKey(p.Key, c.schema.Filterable)
		if !ok {
			if !IsReserved(p.Key) {
				c.logger.Debug().Str("key", p.Key).Msg("ignoring unknown filter key")
			}
			continue
		}

		cond, err := compileCondition(key, c.schema.Filterable[key.Field], p.Value, c.strict)
		if err != nil {
			return nil, err
		}

		if i, ok := index[key.Field]; ok {
			spec.Predicates[i].Conditions = append(spec.Predicates[i].Conditions, cond)
			continue
		}
		index[key.Field] = len(spec.Predicates)
		spec.Predicates = append(spec.Predicates, Predicate{Field: key.Field, Conditions: []Condition{cond}})
	}

	spec.Search = compileSearch(c.schema.SearchFields, params)
	spec.Page = compilePage(c.schema, params)
	spec.Sort = compileSort(c.schema, params)
	return spec, nil
}
