package level

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Export serializes a level back to text in the canonical layout the
// format's tooling expects: top-level keys one per line at 2-space indent,
// all-primitive arrays on a single line, and arrays of objects one element
// per line with each element flattened to a single line. Values below the
// top level are never spread over multiple lines. Whitespace may differ
// from the input, values never do.
func Export(l *Level) string {
	doc := NewObject()
	doc.Set("angleData", headingsToValues(l.Headings))
	doc.Set("settings", l.Settings)
	doc.Set("actions", flattenActions(l.Actions))
	doc.Set("decorations", flattenDecorations(l.Decorations))

	var b strings.Builder
	b.WriteString("{\n")
	for i, key := range doc.Keys() {
		v, _ := doc.Get(key)
		b.WriteString("  ")
		b.WriteString(quoteString(key))
		b.WriteString(": ")
		writeTopValue(&b, v)
		if i < doc.Len()-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func headingsToValues(headings []float64) []any {
	out := make([]any, len(headings))
	for i, h := range headings {
		out[i] = h
	}
	return out
}

// flattenActions reattaches the explicit floor field and restores the
// on-disk key order: floor, eventType, then the payload fields.
func flattenActions(actions []FlatAction) []any {
	out := make([]any, len(actions))
	for i, a := range actions {
		obj := NewObject()
		obj.Set("floor", a.Floor)
		obj.Set("eventType", a.Tag)
		for _, k := range a.Fields.Keys() {
			v, _ := a.Fields.Get(k)
			obj.Set(k, v)
		}
		out[i] = obj
	}
	return out
}

func flattenDecorations(decorations []FlatDecoration) []any {
	out := make([]any, len(decorations))
	for i, d := range decorations {
		obj := NewObject()
		obj.Set("floor", d.Floor)
		obj.Set("eventType", d.Tag)
		for _, k := range d.Fields.Keys() {
			v, _ := d.Fields.Get(k)
			obj.Set(k, v)
		}
		out[i] = obj
	}
	return out
}

// writeTopValue renders the value of a top-level key. Objects get one key
// per line; arrays of objects get one element per line; everything else is
// a single line.
func writeTopValue(b *strings.Builder, v any) {
	switch val := v.(type) {
	case *Object:
		if val.Len() == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for i, k := range val.Keys() {
			inner, _ := val.Get(k)
			b.WriteString("    ")
			b.WriteString(quoteString(k))
			b.WriteString(": ")
			b.WriteString(inline(inner))
			if i < val.Len()-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("  }")
	case []any:
		if allPrimitive(val) {
			b.WriteString(inline(val))
			return
		}
		b.WriteString("[\n")
		for i, elem := range val {
			b.WriteString("    ")
			b.WriteString(inline(elem))
			if i < len(val)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("  ]")
	default:
		b.WriteString(inline(v))
	}
}

func allPrimitive(arr []any) bool {
	for _, v := range arr {
		switch v.(type) {
		case *Object, []any:
			return false
		}
	}
	return true
}

// inline renders any value on a single line.
func inline(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return quoteString(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return formatNumber(val)
	case []any:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = inline(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Object:
		parts := make([]string, 0, val.Len())
		for _, k := range val.Keys() {
			inner, _ := val.Get(k)
			parts = append(parts, quoteString(k)+": "+inline(inner))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return quoteString("")
	}
}

// formatNumber renders whole floats without a fractional part, matching the
// integer spelling the files use for quantized headings.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// quoteString produces a JSON-compatible quoted string.
func quoteString(s string) string {
	out, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(out)
}
