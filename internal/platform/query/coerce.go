package query

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// dateLayouts are tried in order; layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// Coerce converts a raw operand into the semantic type of f. The returned
// value is one of uuid.UUID, time.Time, bool, int64, float64 or string.
func Coerce(f Field, raw string) (any, error) {
	switch f.Type {
	case FieldUUID:
		return coerceUUID(raw)
	case FieldDate:
		return coerceDate(raw)
	case FieldBoolean:
		return coerceBool(raw)
	case FieldInteger:
		return coerceInteger(raw)
	case FieldFloat:
		return coerceFloat(raw)
	case FieldEnum:
		return coerceEnum(raw, f.EnumValues)
	default:
		return raw, nil
	}
}

// coerceValue is Coerce for a raw Value; native booleans skip string
// parsing on boolean fields.
func coerceValue(f Field, v Value) (any, error) {
	if v.IsBool() && f.Type == FieldBoolean {
		return v.b, nil
	}
	return Coerce(f, v.Scalar())
}

func coerceUUID(raw string) (uuid.UUID, error) {
	// uuid.Parse also accepts urn and braced forms; only the canonical
	// hyphenated form is a valid filter value.
	if len(raw) != 36 {
		return uuid.Nil, &coercionError{kind: KindInvalidUUID, value: raw, reason: "is not a well-formed UUID"}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &coercionError{kind: KindInvalidUUID, value: raw, reason: "is not a well-formed UUID"}
	}
	return id, nil
}

func coerceDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &coercionError{kind: KindInvalidDate, value: raw, reason: "is not an ISO-8601 date or date-time"}
}

func coerceBool(raw string) (bool, error) {
	switch raw {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, &coercionError{kind: KindInvalidBoolean, value: raw, reason: "must be true, false, 1 or 0"}
}

func coerceInteger(raw string) (int64, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	// Integral decimals such as "3.0" are integers; "3.5" is not.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f < math.MinInt64 || f >= math.MaxInt64 || !isDecimal(raw) {
		return 0, &coercionError{kind: KindInvalidInteger, value: raw, reason: "is not an integer"}
	}
	return int64(f), nil
}

func coerceFloat(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || !isDecimal(raw) {
		return 0, &coercionError{kind: KindInvalidFloat, value: raw, reason: "is not a number"}
	}
	return f, nil
}

func coerceEnum(raw string, values []string) (string, error) {
	upper := strings.ToUpper(raw)
	for _, v := range values {
		if strings.ToUpper(v) == upper {
			return upper, nil
		}
	}
	return "", &coercionError{
		kind:   KindInvalidEnumValue,
		value:  raw,
		reason: "must be one of " + strings.Join(values, ", "),
	}
}

// isDecimal accepts plain decimal notation with an optional exponent.
// strconv also parses hex floats and "Inf"/"NaN", which are not numbers
// a query string should carry.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
		case (r == '-' || r == '+') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		case (r == 'e' || r == 'E') && i > 0:
		default:
			return false
		}
	}
	return true
}
