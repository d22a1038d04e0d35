package query

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable reason a compilation failed.
type ErrorKind string

const (
	KindInvalidUUID         ErrorKind = "InvalidUUID"
	KindInvalidDate         ErrorKind = "InvalidDate"
	KindInvalidBoolean      ErrorKind = "InvalidBoolean"
	KindInvalidInteger      ErrorKind = "InvalidInteger"
	KindInvalidFloat        ErrorKind = "InvalidFloat"
	KindInvalidEnumValue    ErrorKind = "InvalidEnumValue"
	KindTooManyValues       ErrorKind = "TooManyValues"
	KindInvalidRangeCount   ErrorKind = "InvalidRangeCount"
	KindUnsupportedOperator ErrorKind = "UnsupportedOperator"
)

// Sentinels for errors.Is. A *CompileError matches the sentinel of its kind.
var (
	ErrInvalidUUID         = &CompileError{Kind: KindInvalidUUID}
	ErrInvalidDate         = &CompileError{Kind: KindInvalidDate}
	ErrInvalidBoolean      = &CompileError{Kind: KindInvalidBoolean}
	ErrInvalidInteger      = &CompileError{Kind: KindInvalidInteger}
	ErrInvalidFloat        = &CompileError{Kind: KindInvalidFloat}
	ErrInvalidEnumValue    = &CompileError{Kind: KindInvalidEnumValue}
	ErrTooManyValues       = &CompileError{Kind: KindTooManyValues}
	ErrInvalidRangeCount   = &CompileError{Kind: KindInvalidRangeCount}
	ErrUnsupportedOperator = &CompileError{Kind: KindUnsupportedOperator}
)

// CompileError reports a rejected filter parameter. All kinds are caller
// input problems and map to a 400-class response.
type CompileError struct {
	Kind     ErrorKind
	Field    string
	Operator Operator
	Value    string
	Reason   string
}

func (e *CompileError) Error() string {
	if e.Field == "" {
		return string(e.Kind)
	}
	msg := fmt.Sprintf("invalid filter %q (%s): %s", e.Field, e.Operator, e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether target is a CompileError of the same kind.
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first CompileError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}

// coercionError is the field-agnostic failure returned by the coercion
// functions; the operator compiler attaches field and operator.
type coercionError struct {
	kind   ErrorKind
	value  string
	reason string
}

func (e *coercionError) Error() string {
	return fmt.Sprintf("%s: %q %s", e.kind, e.value, e.reason)
}

func (e *coercionError) withField(field string, op Operator) *CompileError {
	return &CompileError{Kind: e.kind, Field: field, Operator: op, Value: e.value, Reason: e.reason}
}
