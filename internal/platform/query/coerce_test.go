package query

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCoerce_UUID(t *testing.T) {
	f := Field{Type: FieldUUID}

	v, err := Coerce(f, "3f2504e0-4f89-11d3-9a0c-0305e82c3301")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301") {
		t.Errorf("unexpected uuid: %v", v)
	}

	for _, raw := range []string{"", "not-a-uuid", "3f2504e04f8911d39a0c0305e82c3301", "urn:uuid:3f2504e0-4f89-11d3-9a0c-0305e82c3301", "3f2504e0-4f89-11d3-9a0c-0305e82c330z"} {
		if _, err := Coerce(f, raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestCoerce_Date(t *testing.T) {
	f := Field{Type: FieldDate}
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-03-15T10:30:00.250Z", time.Date(2024, 3, 15, 10, 30, 0, 250000000, time.UTC)},
		{"2024-03-15T12:30:00+02:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-03-15T10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-03-15T10:30", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-01-15T10:30Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-01-15T10:30+02:00", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"2024-03", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := Coerce(f, tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, ok := v.(time.Time)
			if !ok {
				t.Fatalf("expected time.Time, got %T", v)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	for _, raw := range []string{"", "yesterday", "2024-13-01", "15/03/2024", "2024-02-30"} {
		_, err := Coerce(f, raw)
		var ce *coercionError
		if !errors.As(err, &ce) || ce.kind != KindInvalidDate {
			t.Errorf("expected %s for %q, got %v", KindInvalidDate, raw, err)
		}
	}
}

func TestCoerce_Boolean(t *testing.T) {
	f := Field{Type: FieldBoolean}
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"1", true, false},
		{"false", false, false},
		{"0", false, false},
		{"yes", false, true},
		{"TRUE", false, true},
		{"", false, true},
		{" true", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := Coerce(f, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.want {
				t.Errorf("got %v, want %v", v, tt.want)
			}
		})
	}
}

func TestCoerceValue_NativeBool(t *testing.T) {
	v, err := coerceValue(Field{Type: FieldBoolean}, BoolValue(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != true {
		t.Errorf("expected true, got %v", v)
	}

	// A native bool on a string field is its string form.
	v, err = coerceValue(Field{Type: FieldString}, BoolValue(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "false" {
		t.Errorf("expected \"false\", got %v", v)
	}
}

func TestCoerce_Integer(t *testing.T) {
	f := Field{Type: FieldInteger}
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"-7", -7, false},
		{"+3", 3, false},
		{"3.0", 3, false},
		{"3.5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"1e3", 1000, false},
		{"0x10", 0, true},
		{"Inf", 0, true},
		{"NaN", 0, true},
		{"99999999999999999999", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := Coerce(f, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.raw, v)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.want {
				t.Errorf("got %v (%T), want %d", v, v, tt.want)
			}
		})
	}
}

func TestCoerce_Float(t *testing.T) {
	f := Field{Type: FieldFloat}
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"1.5", 1.5, false},
		{"-0.25", -0.25, false},
		{"10", 10, false},
		{"2.5e2", 250, false},
		{"abc", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"0x1p-2", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := Coerce(f, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.raw, v)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.want {
				t.Errorf("got %v, want %v", v, tt.want)
			}
		})
	}
}

func TestCoerce_Enum(t *testing.T) {
	f := Field{Type: FieldEnum, EnumValues: []string{"MALE", "FEMALE", "OTHER"}}

	for _, raw := range []string{"female", "Female", "FEMALE"} {
		v, err := Coerce(f, raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if v != "FEMALE" {
			t.Errorf("expected FEMALE for %q, got %v", raw, v)
		}
	}

	_, err := Coerce(f, "alien")
	if err == nil {
		t.Fatal("expected error for unknown enum value")
	}
	ce, ok := err.(*coercionError)
	if !ok {
		t.Fatalf("expected *coercionError, got %T", err)
	}
	if ce.kind != KindInvalidEnumValue {
		t.Errorf("expected %s, got %s", KindInvalidEnumValue, ce.kind)
	}
}

func TestCoerce_EnumUppercasesLowercaseDeclarations(t *testing.T) {
	f := Field{Type: FieldEnum, EnumValues: []string{"male", "female"}}

	for _, raw := range []string{"FEMALE", "female", "Female"} {
		v, err := Coerce(f, raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if v != "FEMALE" {
			t.Errorf("expected FEMALE for %q, got %v", raw, v)
		}
	}
}

func TestCoerce_StringPassThrough(t *testing.T) {
	for _, raw := range []string{"", "  padded  ", "O'Brien; DROP TABLE patient"} {
		v, err := Coerce(Field{Type: FieldString}, raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != raw {
			t.Errorf("expected %q unchanged, got %q", raw, v)
		}
	}
}
