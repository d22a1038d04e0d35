package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

type valueKind int

const (
	kindString valueKind = iota
	kindList
	kindBool
)

// Value is a raw request value: a string, a list of strings, or a bool
// already decoded by the HTTP layer.
type Value struct {
	kind valueKind
	str  string
	list []string
	b    bool
}

func StringValue(s string) Value { return Value{kind: kindString, str: s} }

func ListValue(items ...string) Value {
	return Value{kind: kindList, list: append([]string(nil), items...)}
}

func BoolValue(b bool) Value { return Value{kind: kindBool, b: b} }

// IsBool reports whether the value arrived as a native boolean.
func (v Value) IsBool() bool { return v.kind == kindBool }

// Scalar returns the single string form of the value. Lists yield their
// first element, booleans "true" or "false".
func (v Value) Scalar() string {
	switch v.kind {
	case kindList:
		if len(v.list) == 0 {
			return ""
		}
		return v.list[0]
	case kindBool:
		return strconv.FormatBool(v.b)
	}
	return v.str
}

// Elements returns the value as a list for multi-value operators. Every
// element is split on commas and each piece trimmed.
func (v Value) Elements() []string {
	var raw []string
	switch v.kind {
	case kindList:
		raw = v.list
	case kindBool:
		raw = []string{strconv.FormatBool(v.b)}
	default:
		raw = []string{v.str}
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			out = append(out, strings.TrimSpace(part))
		}
	}
	return out
}

func (v Value) String() string {
	switch v.kind {
	case kindList:
		return strings.Join(v.list, ",")
	case kindBool:
		return strconv.FormatBool(v.b)
	}
	return v.str
}

// Param is one request key/value pair.
type Param struct {
	Key   string
	Value Value
}

// Params is the ordered parameter set of one request. Order decides the
// order in which conditions on the same field are merged.
type Params []Param

// Add appends a parameter.
func (p *Params) Add(key string, v Value) {
	*p = append(*p, Param{Key: key, Value: v})
}

// Get returns the first value stored under key.
func (p Params) Get(key string) (Value, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return Value{}, false
}

// FromMap builds Params from a plain string map with keys in sorted order.
func FromMap(m map[string]string) Params {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Params, 0, len(keys))
	for _, k := range keys {
		out = append(out, Param{Key: k, Value: StringValue(m[k])})
	}
	return out
}

// FromValues builds Params from decoded query-string values with keys in
// sorted order. Repeated keys become list values.
func FromValues(values url.Values) Params {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Params, 0, len(keys))
	for _, k := range keys {
		vs := values[k]
		switch len(vs) {
		case 0:
			continue
		case 1:
			out = append(out, Param{Key: k, Value: StringValue(vs[0])})
		default:
			out = append(out, Param{Key: k, Value: ListValue(vs...)})
		}
	}
	return out
}

func sortedStrings(in []string) []string {
	sort.Strings(in)
	return in
}
