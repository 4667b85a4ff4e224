package level

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// levelSchema is the strict shape of a level document. Validation is
// optional (the parser itself is deliberately permissive); it exists for
// tooling that wants to flag sloppy files before sharing them.
const levelSchema = `{
  "type": "object",
  "required": ["settings"],
  "anyOf": [
    {"required": ["pathData"]},
    {"required": ["angleData"]}
  ],
  "properties": {
    "pathData": {"type": "string"},
    "angleData": {
      "type": "array",
      "items": {"type": "number"}
    },
    "settings": {
      "type": "object",
      "required": ["bpm"],
      "properties": {
        "bpm": {"type": "number", "exclusiveMinimum": 0}
      }
    },
    "actions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["floor", "eventType"],
        "properties": {
          "floor": {"type": "integer", "minimum": 0},
          "eventType": {"type": "string"}
        }
      }
    },
    "decorations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["floor", "eventType"],
        "properties": {
          "floor": {"type": "integer", "minimum": 0},
          "eventType": {"type": "string"}
        }
      }
    }
  }
}`

var compiledSchema = func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("level.schema.json", strings.NewReader(levelSchema)); err != nil {
		panic(fmt.Sprintf("level: schema resource: %v", err))
	}
	s, err := c.Compile("level.schema.json")
	if err != nil {
		panic(fmt.Sprintf("level: schema compile: %v", err))
	}
	return s
}()

// Validate checks repaired level text against the strict document schema.
// Returns nil when the document conforms.
func Validate(text string) error {
	var doc any
	if err := yaml.Unmarshal([]byte(Repair(text)), &doc); err != nil {
		return &ParseError{Reason: fmt.Sprintf("unreadable level text: %v", err)}
	}
	if err := compiledSchema.Validate(normalizeForSchema(doc)); err != nil {
		return fmt.Errorf("level: schema violation: %w", err)
	}
	return nil
}

// normalizeForSchema converts the yaml decoding (map[string]any with int
// values) into the plain-JSON shapes the schema validator expects.
func normalizeForSchema(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = normalizeForSchema(inner)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[fmt.Sprintf("%v", k)] = normalizeForSchema(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = normalizeForSchema(inner)
		}
		return out
	case int:
		// The validator treats whole float64 values as integers.
		return float64(val)
	default:
		return v
	}
}
