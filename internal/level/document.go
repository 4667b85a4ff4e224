package level

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Object is a JSON-style object that remembers key insertion order.
// Level files are edited by hand, so exporting in the author's key order
// keeps diffs readable and round-trips stable.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set inserts or replaces a key. New keys append to the order.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Delete removes a key, preserving the order of the remaining keys.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Float reads a numeric field. Returns false when the key is absent or not
// a number.
func (o *Object) Float(key string) (float64, bool) {
	v, ok := o.values[key]
	if !ok {
		return 0, false
	}
	return asFloat(v)
}

// Bool reads a boolean field. The format also spells booleans as the
// strings "Enabled"/"Disabled", which count as true/false here.
func (o *Object) Bool(key string) (bool, bool) {
	switch v := o.values[key].(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "Enabled", "True", "true":
			return true, true
		case "Disabled", "False", "false":
			return false, true
		}
	}
	return false, false
}

// String reads a string field.
func (o *Object) String(key string) (string, bool) {
	s, ok := o.values[key].(string)
	return s, ok
}

// FloatPair reads a two-element numeric array field, e.g. a 2D offset.
func (o *Object) FloatPair(key string) (x, y float64, ok bool) {
	arr, isArr := o.values[key].([]any)
	if !isArr || len(arr) != 2 {
		return 0, 0, false
	}
	x, xok := asFloat(arr[0])
	y, yok := asFloat(arr[1])
	return x, y, xok && yok
}

// Clone returns a shallow copy with an independent key order.
func (o *Object) Clone() *Object {
	c := NewObject()
	for _, k := range o.keys {
		c.Set(k, o.values[k])
	}
	return c
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// decodeValue converts a decoded yaml node into the value model used by the
// rest of the package: *Object for mappings, []any for sequences, and
// string/float64/int/bool/nil for scalars.
func decodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, &ParseError{Reason: "document must hold exactly one value"}
		}
		return decodeValue(n.Content[0])
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			val, err := decodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := decodeValue(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.AliasNode:
		return decodeValue(n.Alias)
	}
	return nil, &ParseError{Reason: fmt.Sprintf("unsupported node kind %v at line %d", n.Kind, n.Line)}
}

func decodeScalar(n *yaml.Node) (any, error) {
	switch n.Tag {
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("bad integer %q at line %d", n.Value, n.Line)}
		}
		return int(v), nil
	case "!!float":
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("bad number %q at line %d", n.Value, n.Line)}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ParseError{Reason: fmt.Sprintf("non-finite number at line %d", n.Line)}
		}
		return v, nil
	case "!!bool":
		return n.Value == "true" || n.Value == "True", nil
	case "!!null":
		return nil, nil
	default:
		return n.Value, nil
	}
}
