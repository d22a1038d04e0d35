package query

// MaxInValues caps the operand count of an _in filter.
const MaxInValues = 100

// compileCondition turns one parsed key and its raw value into a typed
// condition.
func compileCondition(key ParsedKey, f Field, v Value, strict bool) (Condition, error) {
	op := key.Operator

	if strict && op.IsRange() && !f.Type.Ordered() {
		return Condition{}, &CompileError{
			Kind:     KindUnsupportedOperator,
			Field:    key.Field,
			Operator: op,
			Value:    v.String(),
			Reason:   "ordering comparison on a " + f.Type.String() + " field",
		}
	}

	switch op {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		val, err := coerceValue(f, v)
		if err != nil {
			return Condition{}, fieldError(err, key.Field, op)
		}
		return Condition{Operator: op, Value: val, Implicit: key.Implicit}, nil

	case OpIn:
		elems := v.Elements()
		if len(elems) > MaxInValues {
			return Condition{}, &CompileError{
				Kind:     KindTooManyValues,
				Field:    key.Field,
				Operator: op,
				Value:    v.String(),
				Reason:   "at most 100 values are allowed",
			}
		}
		vals, err := coerceAll(f, elems, key.Field, op)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Operator: op, Values: vals}, nil

	case OpBetween:
		elems := v.Elements()
		if len(elems) != 2 {
			return Condition{}, &CompileError{
				Kind:     KindInvalidRangeCount,
				Field:    key.Field,
				Operator: op,
				Value:    v.String(),
				Reason:   "expected exactly 2 values (lower,upper)",
			}
		}
		vals, err := coerceAll(f, elems, key.Field, op)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Operator: op, Values: vals}, nil

	case OpIsNull, OpIsNotNull:
		flag, err := coerceValue(Field{Type: FieldBoolean}, v)
		if err != nil {
			return Condition{}, fieldError(err, key.Field, op)
		}
		// field_null=false asserts not-null, field_not_null=false asserts null.
		if !flag.(bool) {
			if op == OpIsNull {
				op = OpIsNotNull
			} else {
				op = OpIsNull
			}
		}
		return Condition{Operator: op}, nil

	case OpLike, OpILike:
		return Condition{Operator: op, Value: "%" + v.Scalar() + "%"}, nil
	}

	panic("query: unhandled operator " + op.String())
}

func coerceAll(f Field, elems []string, field string, op Operator) ([]any, error) {
	out := make([]any, len(elems))
	for i, e := range elems {
		val, err := Coerce(f, e)
		if err != nil {
			return nil, fieldError(err, field, op)
		}
		out[i] = val
	}
	return out, nil
}

func fieldError(err error, field string, op Operator) error {
	if ce, ok := err.(*coercionError); ok {
		return ce.withField(field, op)
	}
	return err
}
