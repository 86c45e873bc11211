// Package jsonvalue is a tagged JSON value for payloads whose shape the
// client does not own, such as the metadata object Plaid Link hands back.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind is the JSON type of a Value.
type Kind int

// The JSON types. KindNull is the zero Kind.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

// String returns the JSON name of the type, e.g. "object".
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "invalid"
}

// Value is one JSON value. The zero Value is null.
type Value struct {
	kind Kind
	str  string // string contents, or the number literal
	b    bool
	arr  []Value
	obj  map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns true or false.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Array returns an array of the given elements. No arguments give [].
func Array(v ...Value) Value { return Value{kind: KindArray, arr: v} }

// Float returns a number value. NaN and infinities have no JSON form and
// become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, str: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Int returns an integer number value.
func Int(i int64) Value { return Value{kind: KindNumber, str: strconv.FormatInt(i, 10)} }

// Number wraps a numeric literal, keeping it exactly as written.
func Number(n json.Number) (Value, error) {
	if _, err := n.Float64(); err != nil {
		return Value{}, fmt.Errorf("jsonvalue: invalid number %q", n)
	}
	return Value{kind: KindNumber, str: n.String()}, nil
}

// Object builds an object value. The map is not copied.
func Object(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindObject, obj: m}
}

// Kind returns the value's JSON type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the contents of a string value.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsBool returns the value of a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns a number's literal as it was written or constructed.
func (v Value) AsNumber() (json.Number, bool) {
	return json.Number(v.str), v.kind == KindNumber
}

// AsFloat returns a number as float64. It fails for literals out of range.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.str, 64)
	return f, err == nil
}

// AsArray returns the elements of an array value. The slice is shared.
func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// AsObject returns the members of an object value. The map is shared.
func (v Value) AsObject() (map[string]Value, bool) {
	return v.obj, v.kind == KindObject
}

// Get returns the member key of an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	m, ok := v.obj[key]
	return m, ok
}

// Equal compares structurally. Numbers compare by numeric value, so 1 and
// 1.0 are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if v.str == o.str {
			return true
		}
		a, errA := strconv.ParseFloat(v.str, 64)
		b, errB := strconv.ParseFloat(o.str, 64)
		return errA == nil && errB == nil && a == b
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, a := range v.obj {
			b, ok := o.obj[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON writes v with object members in key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.str)
	case KindString:
		b, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, el := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := el.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if err := v.obj[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("jsonvalue: invalid kind %d", v.kind)
	}
	return nil
}

// UnmarshalJSON parses any single JSON document.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	parsed, err := decode(dec)
	if err != nil {
		return err
	}
	if dec.More() {
		return errors.New("jsonvalue: unexpected data after value")
	}
	*v = parsed
	return nil
}

func decode(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Value{kind: KindNumber, str: t.String()}, nil
	case json.Delim:
		switch t {
		case '[':
			arr := []Value{}
			for dec.More() {
				el, err := decode(dec)
				if err != nil {
					return Value{}, err
				}
				arr = append(arr, el)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Array(arr...), nil
		case '{':
			obj := map[string]Value{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, _ := kt.(string)
				el, err := decode(dec)
				if err != nil {
					return Value{}, err
				}
				obj[key] = el
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Object(obj), nil
		}
	}
	return Value{}, fmt.Errorf("jsonvalue: unexpected token %v", tok)
}

// FromAny converts the output of encoding/json decoding into a Value.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Float(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case json.Number:
		return Number(t)
	case []any:
		arr := make([]Value, len(t))
		for i, el := range t {
			v, err := FromAny(el)
			if err != nil {
				return Value{}, err
			}
			arr[i] = v
		}
		return Array(arr...), nil
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, el := range t {
			v, err := FromAny(el)
			if err != nil {
				return Value{}, err
			}
			obj[k] = v
		}
		return Object(obj), nil
	case map[string]string:
		obj := make(map[string]Value, len(t))
		for k, s := range t {
			obj[k] = String(s)
		}
		return Object(obj), nil
	}
	return Value{}, fmt.Errorf("jsonvalue: unsupported type %T", x)
}
