// Package level implements the rail-path level format: text repair, the
// permissive parser, the path-code table, and the round-trip exporter.
// The format is loosely JSON and routinely hand-edited, so parsing runs
// through Repair first and then a YAML decoder, which accepts the JSON
// superset quirks (unquoted keys, single quotes) the files exhibit.
package level

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Level is a parsed level: the per-tile heading sequence plus the flat
// action and decoration lists exactly as they appear on disk.
type Level struct {
	Headings    []float64 // degrees, or MidspinHeading
	Settings    *Object
	Actions     []FlatAction
	Decorations []FlatDecoration
}

// BPM returns the level's base tempo from settings.
func (l *Level) BPM() (float64, error) {
	bpm, ok := l.Settings.Float("bpm")
	if !ok {
		return 0, &ParseError{Reason: "settings has no numeric bpm field"}
	}
	if bpm <= 0 {
		return 0, &ParseError{Reason: fmt.Sprintf("bpm must be positive, got %v", bpm)}
	}
	return bpm, nil
}

// Parse repairs and decodes raw level text.
func Parse(text string) (*Level, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(Repair(text)), &root); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("unreadable level text: %v", err)}
	}
	val, err := decodeValue(&root)
	if err != nil {
		return nil, err
	}
	doc, ok := val.(*Object)
	if !ok {
		return nil, &ParseError{Reason: "top-level value is not an object"}
	}
	return FromDocument(doc)
}

// FromDocument builds a Level from an already-decoded document object.
func FromDocument(doc *Object) (*Level, error) {
	headings, err := headingsFrom(doc)
	if err != nil {
		return nil, err
	}

	settingsVal, ok := doc.Get("settings")
	if !ok {
		return nil, &ParseError{Reason: "missing settings object"}
	}
	settings, ok := settingsVal.(*Object)
	if !ok {
		return nil, &ParseError{Reason: "settings is not an object"}
	}

	actions, err := actionsFrom(doc)
	if err != nil {
		return nil, err
	}
	decorations, err := decorationsFrom(doc)
	if err != nil {
		return nil, err
	}

	return &Level{
		Headings:    headings,
		Settings:    settings,
		Actions:     actions,
		Decorations: decorations,
	}, nil
}

// headingsFrom resolves the heading array: an explicit angleData array wins,
// otherwise pathData is decoded through the code table. One of the two must
// be present.
func headingsFrom(doc *Object) ([]float64, error) {
	if raw, ok := doc.Get("angleData"); ok {
		arr, isArr := raw.([]any)
		if !isArr {
			return nil, &ParseError{Reason: "angleData is not an array"}
		}
		headings := make([]float64, 0, len(arr))
		for i, v := range arr {
			deg, numOK := asFloat(v)
			if !numOK {
				return nil, &ParseError{Reason: fmt.Sprintf("angleData[%d] is not a number", i)}
			}
			if deg == 555 || deg == 666 || deg == 777 || deg == 888 {
				return nil, &ParseError{Reason: fmt.Sprintf("angleData[%d]: reserved heading %v is not supported", i, deg)}
			}
			headings = append(headings, deg)
		}
		return headings, nil
	}

	if raw, ok := doc.Get("pathData"); ok {
		s, isStr := raw.(string)
		if !isStr {
			return nil, &ParseError{Reason: "pathData is not a string"}
		}
		return DecodePathData(s)
	}

	return nil, &ParseError{Reason: "level has neither pathData nor angleData"}
}

func actionsFrom(doc *Object) ([]FlatAction, error) {
	raw, ok := doc.Get("actions")
	if !ok {
		return nil, nil
	}
	arr, isArr := raw.([]any)
	if !isArr {
		return nil, &ParseError{Reason: "actions is not an array"}
	}
	actions := make([]FlatAction, 0, len(arr))
	for i, v := range arr {
		obj, isObj := v.(*Object)
		if !isObj {
			return nil, &ParseError{Reason: fmt.Sprintf("actions[%d] is not an object", i)}
		}
		floor, tag, fields, err := splitEvent(obj, "actions", i)
		if err != nil {
			return nil, err
		}
		actions = append(actions, FlatAction{
			Floor: floor,
			Action: Action{
				Kind:   KindOf(tag),
				Tag:    tag,
				Fields: fields,
			},
		})
	}
	return actions, nil
}

func decorationsFrom(doc *Object) ([]FlatDecoration, error) {
	raw, ok := doc.Get("decorations")
	if !ok {
		return nil, nil
	}
	arr, isArr := raw.([]any)
	if !isArr {
		return nil, &ParseError{Reason: "decorations is not an array"}
	}
	decorations := make([]FlatDecoration, 0, len(arr))
	for i, v := range arr {
		obj, isObj := v.(*Object)
		if !isObj {
			return nil, &ParseError{Reason: fmt.Sprintf("decorations[%d] is not an object", i)}
		}
		floor, tag, fields, err := splitEvent(obj, "decorations", i)
		if err != nil {
			return nil, err
		}
		decorations = append(decorations, FlatDecoration{
			Floor: floor,
			Decoration: Decoration{
				Tag:    tag,
				Fields: fields,
			},
		})
	}
	return decorations, nil
}

// splitEvent extracts the floor index and eventType tag from a flat event
// object and returns the remaining payload fields in their original order.
func splitEvent(obj *Object, section string, i int) (int, string, *Object, error) {
	floorVal, ok := obj.Float("floor")
	if !ok || floorVal != float64(int(floorVal)) {
		return 0, "", nil, &ParseError{Reason: fmt.Sprintf("%s[%d] has no integer floor field", section, i)}
	}
	tag, ok := obj.String("eventType")
	if !ok {
		return 0, "", nil, &ParseError{Reason: fmt.Sprintf("%s[%d] has no eventType field", section, i)}
	}
	fields := obj.Clone()
	fields.Delete("floor")
	fields.Delete("eventType")
	return int(floorVal), tag, fields, nil
}
