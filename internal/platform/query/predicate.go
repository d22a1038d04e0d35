package query

import (
	"encoding/json"

	"github.com/ehr/practice/pkg/pagination"
)

// Condition is one typed comparison on a field. Single-operand operators
// use Value; In and Between use Values; IsNull and IsNotNull use neither.
type Condition struct {
	Operator Operator
	Value    any
	Values   []any
	// Implicit marks an equality written without an operator suffix.
	Implicit bool
}

func (c Condition) MarshalJSON() ([]byte, error) {
	out := struct {
		Op     Operator `json:"op"`
		Value  any      `json:"value,omitempty"`
		Values []any    `json:"values,omitempty"`
	}{Op: c.Operator, Values: c.Values}
	if !c.Operator.IsMulti() && c.Operator != OpIsNull && c.Operator != OpIsNotNull {
		out.Value = c.Value
	}
	return json.Marshal(out)
}

// Predicate collects every condition on one field. Conditions are combined
// with AND in the order they were compiled, so age_gte and age_lte become
// a single bounded range.
type Predicate struct {
	Field      string
	Conditions []Condition
}

// Equality returns the operand when the predicate is a lone implicit
// equality, the shorthand form "field=value".
func (p Predicate) Equality() (any, bool) {
	if len(p.Conditions) == 1 && p.Conditions[0].Implicit {
		return p.Conditions[0].Value, true
	}
	return nil, false
}

// Condition returns the first condition using op.
func (p Predicate) Condition(op Operator) (Condition, bool) {
	for _, c := range p.Conditions {
		if c.Operator == op {
			return c, true
		}
	}
	return Condition{}, false
}

// MarshalJSON renders an implicit equality as the bare operand and any
// other predicate as its condition list.
func (p Predicate) MarshalJSON() ([]byte, error) {
	if v, ok := p.Equality(); ok {
		return json.Marshal(v)
	}
	return json.Marshal(p.Conditions)
}

// SearchCondition is one member of the search OR-group.
type SearchCondition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"op"`
	Operand  string   `json:"operand"`
}

// SearchGroup matches a row when any of its conditions matches.
type SearchGroup struct {
	Term       string            `json:"term"`
	Conditions []SearchCondition `json:"conditions"`
}

// Spec is the compiled filter specification handed to a data layer. It
// is built fresh per request and must not be modified after Compile
// returns it.
type Spec struct {
	Predicates []Predicate
	Search     *SearchGroup
	Page       pagination.Params
	Sort       []Sort
}

// Predicate looks up the predicate on field.
func (s *Spec) Predicate(field string) (Predicate, bool) {
	for _, p := range s.Predicates {
		if p.Field == field {
			return p, true
		}
	}
	return Predicate{}, false
}

// Fields returns the filtered field names in compile order.
func (s *Spec) Fields() []string {
	out := make([]string, len(s.Predicates))
	for i, p := range s.Predicates {
		out[i] = p.Field
	}
	return out
}

func (s *Spec) MarshalJSON() ([]byte, error) {
	preds := make(map[string]Predicate, len(s.Predicates))
	for _, p := range s.Predicates {
		preds[p.Field] = p
	}
	return json.Marshal(struct {
		Predicates map[string]Predicate `json:"predicates"`
		Search     *SearchGroup         `json:"search_group,omitempty"`
		Pagination pagination.Params    `json:"pagination"`
		Sort       []Sort               `json:"sort"`
	}{preds, s.Search, s.Page, s.Sort})
}
