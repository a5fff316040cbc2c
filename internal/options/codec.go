package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Encode renders o as a flat JSON object whose attributes are exactly Schema().
// Unset optional values are written as null.
func (o *Options) Encode() ([]byte, error) {
	attrs := make(map[string]cty.Value, len(fields))
	for _, f := range fields {
		v, err := f.value(o)
		if err != nil {
			return nil, fmt.Errorf("failed to encode option %s: %w", f.key, err)
		}
		attrs[f.key] = v
	}
	obj := cty.ObjectVal(attrs)
	return ctyjson.Marshal(obj, obj.Type())
}

// Decode reconstructs an option set from a document written by Encode.
// Known keys are decoded through their schema type and missing keys take
// their defaults. Keys the schema does not know are skipped and returned,
// sorted, so callers can report them. Group exclusivity is not re-checked.
//
// A document that is not a JSON object, or that holds a value whose JSON
// kind differs from the schema type ("true" for a bool, 5 for a string),
// yields an error wrapping ErrCorruptFile.
func Decode(data []byte) (*Options, []string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, corruptf("%v", err)
	}
	if raw == nil {
		return nil, nil, corruptf("document is not a JSON object")
	}

	schema := Schema()
	o := Defaults()
	var ignored []string
	for key, msg := range raw {
		if !schema.HasAttribute(key) {
			ignored = append(ignored, key)
			continue
		}
		ty := schema.AttributeType(key)
		if err := checkKind(msg, ty); err != nil {
			return nil, nil, corruptf("key %q: %v", key, err)
		}
		v, err := ctyjson.Unmarshal(bytes.TrimSpace(msg), ty)
		if err != nil {
			return nil, nil, corruptf("key %q: %v", key, err)
		}
		if err := fieldsByKey[key].assign(&o, v); err != nil {
			return nil, nil, corruptf("key %q: %v", key, err)
		}
	}
	sort.Strings(ignored)
	return &o, ignored, nil
}

// checkKind reports whether msg holds the JSON kind ty is written as.
// cty's JSON decoder converts between primitives, so this runs first.
// A top-level null is allowed; a null list element is not.
func checkKind(msg json.RawMessage, ty cty.Type) error {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return matchKind(v, ty)
}

func matchKind(v any, ty cty.Type) error {
	ok := false
	switch {
	case ty.Equals(cty.String):
		_, ok = v.(string)
	case ty.Equals(cty.Bool):
		_, ok = v.(bool)
	case ty.Equals(cty.Number):
		_, ok = v.(json.Number)
	case ty.IsListType():
		var elems []any
		if elems, ok = v.([]any); ok {
			for i, e := range elems {
				if err := matchKind(e, ty.ElementType()); err != nil {
					return fmt.Errorf("element %d: %w", i, err)
				}
			}
		}
	}
	if !ok {
		return fmt.Errorf("want %s, got %s", ty.FriendlyName(), jsonKind(v))
	}
	return nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	case []any:
		return "array"
	default:
		return "object"
	}
}
