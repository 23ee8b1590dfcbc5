// Package jsonval carries JSON scalars through the service without coercing
// them, so an identifier the backend sends as a string stays a string and a
// number stays a number.
package jsonval

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind is the JSON type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "null"
	}
}

// Value holds a compacted raw JSON value. The zero Value is JSON null.
type Value struct {
	raw []byte
}

// FromRaw wraps already-valid JSON. Whitespace is compacted and a literal
// null collapses to the zero Value.
func FromRaw(raw json.RawMessage) Value {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Value{}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return Value{raw: append([]byte(nil), trimmed...)}
	}
	return Value{raw: buf.Bytes()}
}

// Text returns a JSON string value.
func Text(s string) Value {
	encoded, _ := json.Marshal(s)
	return Value{raw: encoded}
}

// Number returns a JSON integer value.
func Number(n int64) Value {
	return Value{raw: []byte(strconv.FormatInt(n, 10))}
}

func (v Value) Kind() Kind {
	if len(v.raw) == 0 {
		return KindNull
	}
	switch v.raw[0] {
	case '"':
		return KindString
	case '{':
		return KindObject
	case '[':
		return KindArray
	case 't', 'f':
		return KindBool
	case 'n':
		return KindNull
	default:
		return KindNumber
	}
}

func (v Value) IsNull() bool { return v.Kind() == KindNull }

// IsScalar reports whether v is a string, number, or bool.
func (v Value) IsScalar() bool {
	switch v.Kind() {
	case KindString, KindNumber, KindBool:
		return true
	}
	return false
}

// AsString returns the decoded string when v is a JSON string.
func (v Value) AsString() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// String renders scalars as display text: strings unquoted, numbers and
// bools verbatim, null as "". Objects and arrays render as compact JSON.
func (v Value) String() string {
	if s, ok := v.AsString(); ok {
		return s
	}
	if v.IsNull() {
		return ""
	}
	return string(v.raw)
}

// Raw returns a copy of the compacted JSON, or "null".
func (v Value) Raw() json.RawMessage {
	if len(v.raw) == 0 {
		return json.RawMessage("null")
	}
	return append(json.RawMessage(nil), v.raw...)
}

// Equal compares the JSON encodings, so "7" and 7 differ.
func (v Value) Equal(other Value) bool {
	return bytes.Equal(v.raw, other.raw)
}

// SameID reports whether two scalar identifiers render to the same text.
// Null never matches, not even another null.
func (v Value) SameID(other Value) bool {
	if !v.IsScalar() || !other.IsScalar() {
		return false
	}
	return v.String() == other.String()
}

func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	*v = FromRaw(data)
	return nil
}
