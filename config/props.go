package config

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/achilleasa/prism/types"
	"github.com/mitchellh/mapstructure"
)

// Props is a name-keyed, possibly nested, property record used to configure
// assets, primitives and acceleration structures. Values typically originate
// from decoded JSON documents.
type Props map[string]interface{}

// Returns true if key is defined.
func (p Props) Has(key string) bool {
	_, exists := p[key]
	return exists
}

func (p Props) lookup(key string) (interface{}, error) {
	val, exists := p[key]
	if !exists {
		return nil, fmt.Errorf("%w '%s'", ErrMissingProp, key)
	}
	return val, nil
}

// Get a string property.
func (p Props) String(key string) (string, error) {
	val, err := p.lookup(key)
	if err != nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", mismatch(key, "string", val)
	}
	return s, nil
}

// Get a string property or def if the key is not defined.
func (p Props) StringOr(key, def string) (string, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.String(key)
}

// Get a numeric property.
func (p Props) Float(key string) (float32, error) {
	val, err := p.lookup(key)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(val)
	if !ok {
		return 0, mismatch(key, "number", val)
	}
	return f, nil
}

// Get an integer property. Numbers with a fractional part are rejected.
func (p Props) Int(key string) (int, error) {
	f, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	if float32(int(f)) != f {
		return 0, mismatch(key, "integer", p[key])
	}
	return int(f), nil
}

// Get a boolean property.
func (p Props) Bool(key string) (bool, error) {
	val, err := p.lookup(key)
	if err != nil {
		return false, err
	}
	b, ok := val.(bool)
	if !ok {
		return false, mismatch(key, "bool", val)
	}
	return b, nil
}

// Get a 3 component vector property. A single number is splatted to all
// components.
func (p Props) Vec3(key string) (types.Vec3, error) {
	val, err := p.lookup(key)
	if err != nil {
		return types.Vec3{}, err
	}
	v, ok := toVec3(val)
	if !ok {
		return types.Vec3{}, mismatch(key, "vec3", val)
	}
	return v, nil
}

// Get a nested property record.
func (p Props) Sub(key string) (Props, error) {
	val, err := p.lookup(key)
	if err != nil {
		return nil, err
	}
	switch sub := val.(type) {
	case Props:
		return sub, nil
	case map[string]interface{}:
		return Props(sub), nil
	}
	return nil, mismatch(key, "object", val)
}

// Decode props into the struct pointed to by out. Fields are matched using
// their mapstructure tags; fields not present in props keep their current
// value so callers can pre-populate defaults. Unknown keys are rejected.
func Decode(props Props, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       vec3Hook,
	})
	if err != nil {
		return err
	}
	if err = decoder.Decode(map[string]interface{}(props)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

var vec3Type = reflect.TypeOf(types.Vec3{})

// Allow scalars and numeric arrays to populate types.Vec3 fields.
func vec3Hook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != vec3Type {
		return data, nil
	}
	v, ok := toVec3(data)
	if !ok {
		return nil, fmt.Errorf("%w: cannot decode %v into vec3", ErrTypeMismatch, data)
	}
	return v, nil
}

func mismatch(key, exp string, val interface{}) error {
	return fmt.Errorf("%w: property '%s' should be a %s; got %T", ErrTypeMismatch, key, exp, val)
}

func toFloat(val interface{}) (float32, bool) {
	switch v := val.(type) {
	case float64:
		return float32(v), true
	case float32:
		return v, true
	case int:
		return float32(v), true
	case int64:
		return float32(v), true
	case json.Number:
		f, err := v.Float64()
		return float32(f), err == nil
	}
	return 0, false
}

func toVec3(val interface{}) (types.Vec3, bool) {
	if f, ok := toFloat(val); ok {
		return types.Splat3(f), true
	}

	var out types.Vec3
	switch v := val.(type) {
	case types.Vec3:
		return v, true
	case []float32:
		if len(v) != 3 {
			return out, false
		}
		copy(out[:], v)
		return out, true
	case []float64:
		if len(v) != 3 {
			return out, false
		}
		for i := range out {
			out[i] = float32(v[i])
		}
		return out, true
	case []interface{}:
		if len(v) != 3 {
			return out, false
		}
		for i := range out {
			f, ok := toFloat(v[i])
			if !ok {
				return out, false
			}
			out[i] = f
		}
		return out, true
	}
	return out, false
}

// Convert a numeric array into a float slice.
func toFloats(val interface{}) ([]float32, bool) {
	switch v := val.(type) {
	case []float32:
		return v, true
	case []float64:
		out := make([]float32, len(v))
		for i := range v {
			out[i] = float32(v[i])
		}
		return out, true
	case []interface{}:
		out := make([]float32, len(v))
		for i := range v {
			f, ok := toFloat(v[i])
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}
