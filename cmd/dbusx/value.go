package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dbusx/dbusx"
)

// valueForJSON converts one JSON document into a Value shaped for the
// given complete type. Numbers map to integer or double values, arrays
// to arrays or structs as the signature dictates, and objects to
// dictionaries. Variants are written as a two-element array of
// [signature, value].
func valueForJSON(sig, doc string) (dbusx.Value, error) {
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return dbusx.Value{}, fmt.Errorf("parsing JSON: %w", err)
	}
	return valueFor(sig, x)
}

func valueFor(sig string, x any) (dbusx.Value, error) {
	switch sig[0] {
	case 'y', 'n', 'q', 'i', 'u', 'x', 't', 'h':
		return intValue(sig, x)
	case 'b':
		v, ok := x.(bool)
		if !ok {
			return dbusx.Value{}, fmt.Errorf("%s: want a JSON boolean, got %T", sig, x)
		}
		return dbusx.Bool(v), nil
	case 'd':
		n, ok := x.(json.Number)
		if !ok {
			return dbusx.Value{}, fmt.Errorf("%s: want a JSON number, got %T", sig, x)
		}
		f, err := n.Float64()
		if err != nil {
			return dbusx.Value{}, fmt.Errorf("%s: %w", sig, err)
		}
		return dbusx.Double(f), nil
	case 's':
		v, ok := x.(string)
		if !ok {
			return dbusx.Value{}, fmt.Errorf("%s: want a JSON string, got %T", sig, x)
		}
		return dbusx.String(v), nil
	case 'o':
		v, ok := x.(string)
		if !ok {
			return dbusx.Value{}, fmt.Errorf("%s: want a JSON string, got %T", sig, x)
		}
		return dbusx.ObjectPath(v), nil
	case 'g':
		v, ok := x.(string)
		if !ok {
			return dbusx.Value{}, fmt.Errorf("%s: want a JSON string, got %T", sig, x)
		}
		return dbusx.Signature(v), nil
	case 'v':
		pair, ok := x.([]any)
		if !ok || len(pair) != 2 {
			return dbusx.Value{}, fmt.Errorf("%s: want a [signature, value] pair", sig)
		}
		vsig, ok := pair[0].(string)
		if !ok {
			return dbusx.Value{}, fmt.Errorf("%s: variant signature must be a string", sig)
		}
		inner, err := valueFor(vsig, pair[1])
		if err != nil {
			return dbusx.Value{}, err
		}
		return dbusx.Variant(vsig, inner), nil
	case 'a':
		return arrayValue(sig, x)
	case '(':
		return structValue(sig, x)
	case '{':
		return entryValue(sig, x)
	default:
		return dbusx.Value{}, fmt.Errorf("unhandled type code %q", sig[0])
	}
}

func intValue(sig string, x any) (dbusx.Value, error) {
	n, ok := x.(json.Number)
	if !ok {
		return dbusx.Value{}, fmt.Errorf("%s: want a JSON number, got %T", sig, x)
	}
	if i, err := n.Int64(); err == nil {
		return dbusx.Int64(i), nil
	}
	u, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return dbusx.Value{}, fmt.Errorf("%s: %q is not an integer", sig, n)
	}
	return dbusx.Uint64(u), nil
}

func arrayValue(sig string, x any) (dbusx.Value, error) {
	elem := sig[1:]
	if elem[0] == '{' {
		return dictValue(elem, x)
	}
	if elem[0] == 'y' {
		// Byte arrays also accept a JSON string for convenience.
		if s, ok := x.(string); ok {
			return dbusx.Bytes([]byte(s)), nil
		}
	}
	items, ok := x.([]any)
	if !ok {
		return dbusx.Value{}, fmt.Errorf("%s: want a JSON array, got %T", sig, x)
	}
	if elem[0] == 'y' {
		bs := make([]byte, len(items))
		for i, it := range items {
			v, err := intValue(elem, it)
			if err != nil {
				return dbusx.Value{}, err
			}
			bs[i] = byte(v.Uint64())
		}
		return dbusx.Bytes(bs), nil
	}
	vals := make([]dbusx.Value, len(items))
	for i, it := range items {
		v, err := valueFor(elem, it)
		if err != nil {
			return dbusx.Value{}, err
		}
		vals[i] = v
	}
	return dbusx.Array(vals...), nil
}

func dictValue(sig string, x any) (dbusx.Value, error) {
	parts, err := dbusx.SplitSignature(sig[1 : len(sig)-1])
	if err != nil {
		return dbusx.Value{}, err
	}
	if len(parts) != 2 {
		return dbusx.Value{}, fmt.Errorf("%s: dict entry must contain a key and a value", sig)
	}
	obj, ok := x.(map[string]any)
	if !ok {
		return dbusx.Value{}, fmt.Errorf("a%s: want a JSON object, got %T", sig, x)
	}
	dict := dbusx.NewDict()
	for k, raw := range obj {
		key, err := keyValue(parts[0], k)
		if err != nil {
			return dbusx.Value{}, err
		}
		val, err := valueFor(parts[1], raw)
		if err != nil {
			return dbusx.Value{}, err
		}
		dict.Set(key, val)
	}
	return dbusx.DictValue(dict), nil
}

// keyValue parses a JSON object key, which is always a string, into a
// value for the dict's key type.
func keyValue(sig, key string) (dbusx.Value, error) {
	switch sig[0] {
	case 's':
		return dbusx.String(key), nil
	case 'o':
		return dbusx.ObjectPath(key), nil
	case 'g':
		return dbusx.Signature(key), nil
	case 'b':
		v, err := strconv.ParseBool(key)
		if err != nil {
			return dbusx.Value{}, fmt.Errorf("%s: %q is not a boolean", sig, key)
		}
		return dbusx.Bool(v), nil
	case 'd':
		f, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return dbusx.Value{}, fmt.Errorf("%s: %q is not a number", sig, key)
		}
		return dbusx.Double(f), nil
	default:
		return intValue(sig, json.Number(key))
	}
}

func structValue(sig string, x any) (dbusx.Value, error) {
	parts, err := dbusx.SplitSignature(sig[1 : len(sig)-1])
	if err != nil {
		return dbusx.Value{}, err
	}
	items, ok := x.([]any)
	if !ok {
		return dbusx.Value{}, fmt.Errorf("%s: want a JSON array, got %T", sig, x)
	}
	if len(items) != len(parts) {
		return dbusx.Value{}, fmt.Errorf("%s: want %d fields, got %d", sig, len(parts), len(items))
	}
	fields := make([]dbusx.Value, len(items))
	for i, it := range items {
		v, err := valueFor(parts[i], it)
		if err != nil {
			return dbusx.Value{}, err
		}
		fields[i] = v
	}
	return dbusx.Struct(fields...), nil
}

func entryValue(sig string, x any) (dbusx.Value, error) {
	parts, err := dbusx.SplitSignature(sig[1 : len(sig)-1])
	if err != nil {
		return dbusx.Value{}, err
	}
	if len(parts) != 2 {
		return dbusx.Value{}, fmt.Errorf("%s: dict entry must contain a key and a value", sig)
	}
	items, ok := x.([]any)
	if !ok || len(items) != 2 {
		return dbusx.Value{}, fmt.Errorf("%s: want a [key, value] pair", sig)
	}
	key, err := valueFor(parts[0], items[0])
	if err != nil {
		return dbusx.Value{}, err
	}
	val, err := valueFor(parts[1], items[1])
	if err != nil {
		return dbusx.Value{}, err
	}
	return dbusx.DictEntry(key, val), nil
}
