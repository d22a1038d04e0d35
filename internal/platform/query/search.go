package query

import "strings"

// compileSearch builds the OR-group for the free-text search term. A
// blank term or a schema without search fields yields nil.
func compileSearch(fields []string, params Params) *SearchGroup {
	if len(fields) == 0 {
		return nil
	}
	v, ok := params.Get(KeySearch)
	if !ok {
		return nil
	}
	term := strings.TrimSpace(v.Scalar())
	if term == "" {
		return nil
	}

	g := &SearchGroup{Term: term, Conditions: make([]SearchCondition, len(fields))}
	for i, f := range fields {
		g.Conditions[i] = SearchCondition{Field: f, Operator: OpLike, Operand: "%" + term + "%"}
	}
	return g
}
