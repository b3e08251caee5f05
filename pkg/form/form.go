// Package form provides the renderable form structure and its per-request
// processing state.
//
// A Form is an ordered, arbitrarily nested string-keyed tree. Values are
// heterogeneous: strings, bools, numbers, slices, nested *Form children.
// Property keys starting with "#" describe the element itself (type, title,
// required, ...); other keys are child elements. Insertion order is
// preserved and survives JSON encoding, because later rendering depends on
// element order.
//
// Every handle to a Form is a live reference: mutations made through one
// reference are visible through all others. The form-alter pipeline relies
// on this — listeners mutate the single shared instance in sequence.
package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Form is an ordered mapping from element keys to heterogeneous values.
// Not safe for concurrent mutation; the build pipeline is strictly
// sequential per request.
type Form struct {
	keys   []string
	values map[string]any
}

// New creates an empty Form.
func New() *Form {
	return &Form{values: make(map[string]any)}
}

// Set stores value under key, appending the key to the order on first
// insert. Setting an existing key replaces its value but keeps its position.
func (f *Form) Set(key string, value any) *Form {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
	return f
}

// Get returns the value stored under key, or nil when absent.
func (f *Form) Get(key string) any {
	if f == nil || f.values == nil {
		return nil
	}
	return f.values[key]
}

// GetString returns the value under key as a string, or "" when absent or
// not a string.
func (f *Form) GetString(key string) string {
	s, _ := f.Get(key).(string)
	return s
}

// Has reports whether key is present.
func (f *Form) Has(key string) bool {
	if f == nil || f.values == nil {
		return false
	}
	_, ok := f.values[key]
	return ok
}

// Delete removes key and its value. Deleting an absent key is a no-op.
func (f *Form) Delete(key string) {
	if f == nil || f.values == nil {
		return
	}
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the element keys in insertion order. The returned slice is a
// copy; mutating it does not affect the form.
func (f *Form) Keys() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of keys.
func (f *Form) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Child returns the nested Form stored under key, creating and storing an
// empty one when the key is absent. Returns nil (without storing) when the
// key holds a non-Form value.
func (f *Form) Child(key string) *Form {
	switch v := f.Get(key).(type) {
	case *Form:
		return v
	case nil:
		child := New()
		f.Set(key, child)
		return child
	default:
		return nil
	}
}

// Elements returns the keys that name child elements, skipping "#" property
// keys, in insertion order.
func (f *Form) Elements() []string {
	var out []string
	for _, k := range f.keys {
		if len(k) > 0 && k[0] == '#' {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Walk visits every element of the tree depth-first in insertion order.
// fn receives the element key and its subtree; returning false stops the
// descent into that subtree.
func (f *Form) Walk(fn func(key string, element *Form) bool) {
	if f == nil {
		return
	}
	for _, k := range f.Elements() {
		child, ok := f.values[k].(*Form)
		if !ok {
			continue
		}
		if fn(k, child) {
			child.Walk(fn)
		}
	}
}

// ─── Element property helpers ─────────────────────────────────────────────────

// SetType sets the "#type" property (textfield, email, checkbox, file, ...).
func (f *Form) SetType(t string) *Form { return f.Set("#type", t) }

// SetTitle sets the "#title" property.
func (f *Form) SetTitle(title string) *Form { return f.Set("#title", title) }

// SetRequired marks the element required.
func (f *Form) SetRequired(required bool) *Form { return f.Set("#required", required) }

// SetDefault sets the "#default_value" property.
func (f *Form) SetDefault(v any) *Form { return f.Set("#default_value", v) }

// SetWeight sets the "#weight" property used for render ordering.
func (f *Form) SetWeight(w int) *Form { return f.Set("#weight", w) }

// Type returns the "#type" property, or "".
func (f *Form) Type() string { return f.GetString("#type") }

// Required reports the "#required" property.
func (f *Form) Required() bool {
	b, _ := f.Get("#required").(bool)
	return b
}

// Weight returns the "#weight" property, or 0.
func (f *Form) Weight() int {
	switch w := f.Get("#weight").(type) {
	case int:
		return w
	case float64:
		return int(w)
	}
	return 0
}

// SortByWeight reorders the top-level element keys by their "#weight"
// property, stable for equal weights. Property keys keep their positions
// relative to each other at the front of the order.
func (f *Form) SortByWeight() {
	sort.SliceStable(f.keys, func(i, j int) bool {
		return f.weightOf(f.keys[i]) < f.weightOf(f.keys[j])
	})
}

func (f *Form) weightOf(key string) int {
	// Property keys sort before any element.
	if len(key) > 0 && key[0] == '#' {
		return -1 << 30
	}
	if child, ok := f.values[key].(*Form); ok {
		return child.Weight()
	}
	return 0
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

// MarshalJSON encodes the form as a JSON object preserving key order.
// Non-serialisable values (funcs etc.) are skipped.
func (f *Form) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	wrote := false
	for _, k := range f.keys {
		val, err := json.Marshal(f.values[k])
		if err != nil {
			continue // callbacks and other non-serialisable values
		}
		if wrote {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("form: marshal key %q: %w", k, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
		wrote = true
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving its key order. Nested
// objects decode as nested *Form values.
func (f *Form) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("form: decode: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("form: expected JSON object, got %v", tok)
	}

	f.keys = nil
	f.values = make(map[string]any)
	return f.decodeObject(dec)
}

func (f *Form) decodeObject(dec *json.Decoder) error {
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("form: decode key: %w", err)
		}
		key := keyTok.(string)

		val, err := decodeValue(dec)
		if err != nil {
			return err
		}
		f.Set(key, val)
	}
	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("form: decode: %w", err)
	}
	return nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("form: decode value: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			child := New()
			if err := child.decodeObject(dec); err != nil {
				return nil, err
			}
			return child, nil
		case '[':
			var arr []any
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, fmt.Errorf("form: decode array: %w", err)
			}
			return arr, nil
		}
		return nil, fmt.Errorf("form: unexpected delimiter %v", t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		fl, _ := t.Float64()
		return fl, nil
	default:
		return t, nil
	}
}
