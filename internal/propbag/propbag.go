// Package propbag loads the flat property bag of a run from JSON or YAML
// files into cty values, the form the property injector consumes.
package propbag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// FromFile loads a property bag, dispatching on the file extension. JSON and
// YAML files must hold a single top-level object.
func FromFile(path string) (map[string]cty.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading properties file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FromJSON(data)
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return nil, fmt.Errorf("properties file %s: unsupported extension, want .json, .yaml or .yml", path)
	}
}

// FromJSON decodes a JSON object into a property bag.
func FromJSON(data []byte) (map[string]cty.Value, error) {
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return nil, fmt.Errorf("properties JSON: %w", err)
	}
	if !ty.IsObjectType() {
		return nil, fmt.Errorf("properties JSON: want a top-level object, got %s", ty.FriendlyName())
	}

	val, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return nil, fmt.Errorf("properties JSON: %w", err)
	}
	return val.AsValueMap(), nil
}

// FromYAML decodes a YAML mapping into a property bag.
func FromYAML(data []byte) (map[string]cty.Value, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("properties YAML: %w", err)
	}

	bag := make(map[string]cty.Value, len(raw))
	for name, v := range raw {
		val, err := toCty(v)
		if err != nil {
			return nil, fmt.Errorf("properties YAML: key %q: %w", name, err)
		}
		bag[name] = val
	}
	return bag, nil
}

// toCty maps the decoded YAML value shapes onto cty values.
func toCty(v any) (cty.Value, error) {
	switch v := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case bool:
		return cty.BoolVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case uint64:
		return cty.NumberUIntVal(v), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	case string:
		return cty.StringVal(v), nil
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(v))
		for i, e := range v {
			ev, err := toCty(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}
			elems = append(elems, ev)
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(v) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(v))
		for k, e := range v {
			ev, err := toCty(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("attribute %q: %w", k, err)
			}
			attrs[k] = ev
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", v)
	}
}
