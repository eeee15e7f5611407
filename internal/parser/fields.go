package parser

import (
	"fmt"
	"math"

	"mycfg/internal/errors"
	"mycfg/internal/ir"
)

// Helpers for reading the generic tree value: objects are map[string]any,
// sequences are []any, scalars are string, bool and numbers.

type object map[string]any

func child(path []string, segment string) []string {
	next := make([]string, len(path), len(path)+1)
	copy(next, path)
	return append(next, segment)
}

func index(path []string, key string, i int) []string {
	return child(path, fmt.Sprintf("%s[%d]", key, i))
}

func asObject(node any, path []string) (object, error) {
	switch obj := node.(type) {
	case map[string]any:
		return obj, nil
	case object:
		return obj, nil
	default:
		return nil, errors.Malformed(path, "expected an object, got %T", node)
	}
}

func asList(node any, path []string) ([]any, error) {
	switch list := node.(type) {
	case []any:
		return list, nil
	case []string:
		items := make([]any, len(list))
		for i, s := range list {
			items[i] = s
		}
		return items, nil
	default:
		return nil, errors.Malformed(path, "expected a list, got %T", node)
	}
}

// requiredString reads a string field that must be present
func (o object) requiredString(key string, path []string) (string, error) {
	s, ok, err := o.optionalString(key, path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.Malformed(path, "missing required field %q", key)
	}
	return s, nil
}

func (o object) optionalString(key string, path []string) (string, bool, error) {
	raw, ok := o[key]
	if !ok {
		return "", false, nil
	}
	s, isString := raw.(string)
	if !isString {
		return "", false, errors.Malformed(child(path, key), "expected a string, got %T", raw)
	}
	return s, true, nil
}

func (o object) optionalStrings(key string, path []string) ([]string, error) {
	raw, ok := o[key]
	if !ok {
		return nil, nil
	}
	list, err := asList(raw, child(path, key))
	if err != nil {
		return nil, err
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, isString := item.(string)
		if !isString {
			return nil, errors.Malformed(index(path, key, i), "expected a string, got %T", item)
		}
		out[i] = s
	}
	return out, nil
}

// optionalType reads a type field. Anything present that is not exactly
// "int" or "bool" is an InvalidType error.
func (o object) optionalType(key string, path []string) (ir.Type, error) {
	raw, ok := o[key]
	if !ok {
		return ir.NoType, nil
	}
	return decodeType(raw, child(path, key))
}

func decodeType(raw any, path []string) (ir.Type, error) {
	name, isString := raw.(string)
	if !isString {
		return ir.NoType, errors.InvalidType(path, raw)
	}
	t, known := ir.LookupType(name)
	if !known {
		return ir.NoType, errors.InvalidType(path, raw)
	}
	return t, nil
}

type int64er interface {
	Int64() (int64, error)
}

// decodeValue tags a literal by the tree value's own kind, not by any
// declared type.
func decodeValue(raw any, path []string) (*ir.Value, error) {
	switch v := raw.(type) {
	case bool:
		return ir.BoolValue(v), nil
	case int:
		return ir.IntValue(int64(v)), nil
	case int64:
		return ir.IntValue(v), nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return nil, errors.Malformed(path, "value %v is not a signed integer", v)
		}
		return ir.IntValue(int64(v)), nil
	case int64er:
		n, err := v.Int64()
		if err != nil {
			return nil, errors.Malformed(path, "value %v is not a signed integer", v)
		}
		return ir.IntValue(n), nil
	default:
		return nil, errors.Malformed(path, "value must be an integer or boolean, got %T", raw)
	}
}
