package query

import "strings"

// ParsedKey is a filter key decomposed into field and operator.
type ParsedKey struct {
	Field    string
	Operator Operator
	// Implicit is set for suffix-less keys, which compare by equality.
	Implicit bool
}

// ParseKey decomposes a request key against the filterable fields. It
// returns false for reserved keys and for keys that name no filterable
// field; such keys are ignored by the compiler.
func ParseKey(key string, filterable map[string]Field) (ParsedKey, bool) {
	if IsReserved(key) {
		return ParsedKey{}, false
	}

	for _, s := range suffixes {
		if !strings.HasSuffix(key, s.suffix) {
			continue
		}
		field := strings.TrimSuffix(key, s.suffix)
		if _, ok := filterable[field]; ok && !IsReserved(field) {
			return ParsedKey{Field: field, Operator: s.op}, true
		}
	}

	if _, ok := filterable[key]; ok {
		return ParsedKey{Field: key, Operator: OpEq, Implicit: true}, true
	}
	return ParsedKey{}, false
}
