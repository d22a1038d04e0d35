package query

import "fmt"

// Operator is a filter comparison recognized from a key suffix.
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpBetween
	OpIsNull
	OpIsNotNull
	OpLike
	OpILike
)

var operatorNames = [...]string{
	OpEq:        "eq",
	OpNe:        "ne",
	OpGt:        "gt",
	OpGte:       "gte",
	OpLt:        "lt",
	OpLte:       "lte",
	OpIn:        "in",
	OpBetween:   "between",
	OpIsNull:    "null",
	OpIsNotNull: "not_null",
	OpLike:      "like",
	OpILike:     "ilike",
}

func (o Operator) String() string {
	if o >= 0 && int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// MarshalText renders the operator by name in JSON output.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// IsRange reports whether the operator compares by ordering.
func (o Operator) IsRange() bool {
	switch o {
	case OpGt, OpGte, OpLt, OpLte, OpBetween:
		return true
	}
	return false
}

// IsMulti reports whether the operator takes a list operand.
func (o Operator) IsMulti() bool {
	return o == OpIn || o == OpBetween
}

// suffixes lists key suffixes longest-match first; "_not_null" must be
// tried before "_null" and "_ilike" before "_like".
var suffixes = []struct {
	suffix string
	op     Operator
}{
	{"_between", OpBetween},
	{"_not_null", OpIsNotNull},
	{"_null", OpIsNull},
	{"_gte", OpGte},
	{"_lte", OpLte},
	{"_ilike", OpILike},
	{"_like", OpLike},
	{"_in", OpIn},
	{"_gt", OpGt},
	{"_lt", OpLt},
	{"_ne", OpNe},
	{"_eq", OpEq},
}

// Operators returns the operators a field of the given type accepts
// without strict ordering rejecting them. Used to describe schemas.
func Operators(t FieldType, strict bool) []Operator {
	out := make([]Operator, 0, len(operatorNames))
	for op := OpEq; op <= OpILike; op++ {
		if strict && op.IsRange() && !t.Ordered() {
			continue
		}
		out = append(out, op)
	}
	return out
}
