package httpclient

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
)

// ErrEmptyBody is returned by Unmarshal when there is nothing to decode.
var ErrEmptyBody = errors.New("empty body")

// FieldError reports a value that is absent or null where the target type
// needs one.
type FieldError struct {
	// Path locates the value, e.g. "$.user.subscriptionStatus" or "$[2].ticker".
	Path string
	// Reason is "missing" or "null".
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s value at %s", e.Reason, e.Path)
}

// Marshal encodes v as JSON with struct field names rewritten from camelCase
// to snake_case at any depth.
//
// Only the keys of objects encoded from structs are rewritten. Map keys keep
// their spelling, and a value with its own MarshalJSON or MarshalText is
// written as is. Values held in interface-typed positions have no field
// names to go by, so every key inside them is rewritten.
func Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tree, err := decodeTree(raw)
	if err != nil {
		return nil, err
	}
	return encodeTree(rewriteFor(reflect.TypeOf(v), tree, SnakeCase))
}

// Unmarshal rewrites the snake_case keys of objects that decode into structs
// to camelCase and decodes the result into v, which must be a non-nil
// pointer. Map keys and self-decoding values are left alone as in Marshal.
//
// Unlike encoding/json, absent keys are not silently left at their zero
// value: a struct field is required unless its type is a pointer, map, slice
// or interface, or its tag carries omitempty. A missing or null required
// value fails with *FieldError.
func Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &json.InvalidUnmarshalError{Type: reflect.TypeOf(v)}
	}

	tree, err := decodeTree(data)
	if err != nil {
		return err
	}
	target := rv.Type().Elem()
	tree = rewriteFor(target, tree, CamelCase)

	if tree == nil && !nillable(target) {
		return &FieldError{Path: "$", Reason: "null"}
	}
	if err := checkRequired(target, tree, "$"); err != nil {
		return err
	}

	camel, err := encodeTree(tree)
	if err != nil {
		return err
	}
	return json.Unmarshal(camel, v)
}

// decodeTree parses a single JSON document into generic values, keeping
// numbers as json.Number so their literal survives re-encoding.
func decodeTree(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyBody
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid character after top-level value")
	}
	return tree, nil
}

func encodeTree(tree any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// rewriteFor converts the keys of node that name fields of t. Map keys are
// kept, values that encode themselves are left untouched and untyped
// positions are rewritten at every depth.
func rewriteFor(t reflect.Type, node any, convert func(string) string) any {
	if node == nil {
		return nil
	}
	if t == nil || t.Kind() == reflect.Interface {
		return rewriteKeys(node, convert)
	}
	if ownCodec(t) {
		return node
	}
	switch t.Kind() {
	case reflect.Pointer:
		return rewriteFor(t.Elem(), node, convert)
	case reflect.Struct:
		obj, ok := node.(map[string]any)
		if !ok {
			return node
		}
		fields := cachedFields(t)
		out, from := renameKeys(obj, convert)
		for k, v := range out {
			f, ok := fieldNamed(fields, k)
			if !ok {
				f, ok = fieldNamed(fields, from[k])
			}
			if ok {
				out[k] = rewriteFor(f.typ, v, convert)
			}
		}
		return out
	case reflect.Map:
		obj, ok := node.(map[string]any)
		if !ok {
			return node
		}
		out := make(map[string]any, len(obj))
		for k, v := range obj {
			out[k] = rewriteFor(t.Elem(), v, convert)
		}
		return out
	case reflect.Slice, reflect.Array:
		arr, ok := node.([]any)
		if !ok {
			return node
		}
		out := make([]any, len(arr))
		for i, v := range arr {
			out[i] = rewriteFor(t.Elem(), v, convert)
		}
		return out
	}
	return node
}

// rewriteKeys applies convert to every object key in the tree.
func rewriteKeys(node any, convert func(string) string) any {
	switch n := node.(type) {
	case map[string]any:
		out, _ := renameKeys(n, convert)
		for k, v := range out {
			out[k] = rewriteKeys(v, convert)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = rewriteKeys(v, convert)
		}
		return out
	default:
		return node
	}
}

// renameKeys converts the keys of one object and reports which original key
// each new key came from. When two keys collide after conversion, the one
// already in target form wins.
func renameKeys(obj map[string]any, convert func(string) string) (map[string]any, map[string]string) {
	out := make(map[string]any, len(obj))
	from := make(map[string]string, len(obj))
	for k, v := range obj {
		if convert(k) == k {
			out[k] = v
			from[k] = k
		}
	}
	for k, v := range obj {
		ck := convert(k)
		if ck == k {
			continue
		}
		if _, taken := out[ck]; !taken {
			out[ck] = v
			from[ck] = k
		}
	}
	return out, from
}

// fieldNamed finds the field a key decodes into, matching the way
// encoding/json does.
func fieldNamed(fields []fieldInfo, key string) (fieldInfo, bool) {
	for _, f := range fields {
		if f.name == key {
			return f, true
		}
	}
	for _, f := range fields {
		if strings.EqualFold(f.name, key) {
			return f, true
		}
	}
	return fieldInfo{}, false
}

var (
	jsonMarshalerType   = reflect.TypeFor[json.Marshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// checkRequired walks node alongside t and reports the first required value
// that is absent or null. Shape mismatches are left to encoding/json.
func checkRequired(t reflect.Type, node any, path string) error {
	if node == nil || customDecoding(t) {
		return nil
	}
	switch t.Kind() {
	case reflect.Pointer:
		return checkRequired(t.Elem(), node, path)
	case reflect.Struct:
		obj, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		for _, f := range cachedFields(t) {
			val, present := lookupKey(obj, f.name)
			child := path + "." + f.name
			switch {
			case !present && f.required:
				return &FieldError{Path: child, Reason: "missing"}
			case present && val == nil && f.required:
				return &FieldError{Path: child, Reason: "null"}
			case present:
				if err := checkRequired(f.typ, val, child); err != nil {
					return err
				}
			}
		}
	case reflect.Slice, reflect.Array:
		arr, ok := node.([]any)
		if !ok {
			return nil
		}
		for i, el := range arr {
			child := fmt.Sprintf("%s[%d]", path, i)
			if el == nil && !nillable(t.Elem()) {
				return &FieldError{Path: child, Reason: "null"}
			}
			if err := checkRequired(t.Elem(), el, child); err != nil {
				return err
			}
		}
	case reflect.Map:
		obj, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		for k, el := range obj {
			if err := checkRequired(t.Elem(), el, path+"."+k); err != nil {
				return err
			}
		}
	}
	return nil
}

func customDecoding(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		return false
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(jsonUnmarshalerType) || pt.Implements(textUnmarshalerType)
}

// ownCodec reports whether t controls its own JSON form in either direction.
func ownCodec(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		return false
	}
	pt := reflect.PointerTo(t)
	return customDecoding(t) || pt.Implements(jsonMarshalerType) || pt.Implements(textMarshalerType)
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return true
	}
	return false
}

// lookupKey mirrors encoding/json: exact match first, then case-insensitive.
func lookupKey(obj map[string]any, name string) (any, bool) {
	if v, ok := obj[name]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

type fieldInfo struct {
	name     string
	typ      reflect.Type
	required bool
}

var fieldCache sync.Map // map[reflect.Type][]fieldInfo

func cachedFields(t reflect.Type) []fieldInfo {
	if f, ok := fieldCache.Load(t); ok {
		return f.([]fieldInfo)
	}
	f, _ := fieldCache.LoadOrStore(t, structFields(t, false))
	return f.([]fieldInfo)
}

// structFields lists the JSON-visible fields of t, flattening untagged
// embedded structs. Fields reached through an embedded pointer are optional.
func structFields(t reflect.Type, optional bool) []fieldInfo {
	var fields []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if sf.Anonymous && name == "" {
			et := sf.Type
			embeddedOptional := optional
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
				embeddedOptional = true
			}
			if et.Kind() == reflect.Struct {
				fields = append(fields, structFields(et, embeddedOptional)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		omit := strings.Contains(opts, "omitempty") || strings.Contains(opts, "omitzero")
		fields = append(fields, fieldInfo{
			name:     name,
			typ:      sf.Type,
			required: !optional && !omit && !nillable(sf.Type),
		})
	}
	return fields
}
