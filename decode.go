package dbusx

import (
	"bytes"
	"fmt"

	"github.com/dbusx/dbusx/fragments"
)

// Unmarshal decodes the wire bytes of a message body described by
// sig, using the given byte order, and returns its values in order.
// An empty signature yields no values.
//
// Decoding trusts the sender's signature the way libdbus's message
// iterator does: text values and nesting depth are not re-validated,
// only the structure needed to walk the bytes is checked. Truncated
// input surfaces as an error wrapping [io.ErrUnexpectedEOF].
func Unmarshal(sig string, data []byte, ord fragments.ByteOrder) ([]Value, error) {
	d := fragments.Decoder{Order: ord, In: bytes.NewReader(data)}
	return DecodeFrom(&d, sig)
}

// DecodeFrom decodes one value per top-level complete type of sig
// from d, returning the values in order.
func DecodeFrom(d *fragments.Decoder, sig string) ([]Value, error) {
	parts, err := SplitSignature(sig)
	if err != nil {
		return nil, err
	}
	var ret []Value
	for _, part := range parts {
		v, err := decodeValue(d, part)
		if err != nil {
			return nil, err
		}
		ret = append(ret, v)
	}
	return ret, nil
}

// decodeValue decodes one value of the complete type sig.
func decodeValue(d *fragments.Decoder, sig string) (Value, error) {
	switch sig[0] {
	case 'y':
		v, err := d.Uint8()
		return Byte(v), err
	case 'b':
		v, err := d.Bool()
		return Bool(v), err
	case 'n':
		v, err := d.Int16()
		return Int16(v), err
	case 'q':
		v, err := d.Uint16()
		return Uint16(v), err
	case 'i':
		v, err := d.Int32()
		return Int32(v), err
	case 'u':
		v, err := d.Uint32()
		return Uint32(v), err
	case 'x':
		v, err := d.Int64()
		return Int64(v), err
	case 't':
		v, err := d.Uint64()
		return Uint64(v), err
	case 'd':
		v, err := d.Float64()
		return Double(v), err
	case 'h':
		v, err := d.Uint32()
		return UnixFD(v), err
	case 's':
		v, err := d.String()
		return String(v), err
	case 'o':
		v, err := d.String()
		return ObjectPath(v), err
	case 'g':
		v, err := d.Signature()
		return Signature(v), err
	case 'v':
		return decodeVariant(d)
	case '(':
		return decodeStruct(d, sig)
	case '{':
		return decodeDictEntry(d, sig)
	case 'a':
		return decodeArray(d, sig)
	default:
		return Value{}, sigErr(sig, 0, "unknown type code %q", sig[0])
	}
}

func decodeVariant(d *fragments.Decoder) (Value, error) {
	sig, err := d.Signature()
	if err != nil {
		return Value{}, fmt.Errorf("reading variant signature: %w", err)
	}
	parts, err := SplitSignature(sig)
	if err != nil {
		return Value{}, err
	}
	if len(parts) != 1 {
		return Value{}, sigErr(sig, 0, "variant signature must be exactly one complete type")
	}
	inner, err := decodeValue(d, sig)
	if err != nil {
		return Value{}, fmt.Errorf("reading variant value (signature %q): %w", sig, err)
	}
	return Variant(sig, inner), nil
}

func decodeStruct(d *fragments.Decoder, sig string) (Value, error) {
	parts, err := SplitSignature(sig[1 : len(sig)-1])
	if err != nil {
		return Value{}, err
	}
	fields := make([]Value, 0, len(parts))
	err = d.Struct(func() error {
		for _, part := range parts {
			v, err := decodeValue(d, part)
			if err != nil {
				return err
			}
			fields = append(fields, v)
		}
		return nil
	})
	if err != nil {
		return Value{}, err
	}
	return Struct(fields...), nil
}

func decodeDictEntry(d *fragments.Decoder, sig string) (Value, error) {
	parts, err := SplitSignature(sig[1 : len(sig)-1])
	if err != nil {
		return Value{}, err
	}
	if len(parts) != 2 {
		return Value{}, sigErr(sig, 0, "dict entry must hold a key and a value")
	}
	var key, val Value
	err = d.Struct(func() error {
		var err error
		if key, err = decodeValue(d, parts[0]); err != nil {
			return err
		}
		val, err = decodeValue(d, parts[1])
		return err
	})
	if err != nil {
		return Value{}, err
	}
	return DictEntry(key, val), nil
}

func decodeArray(d *fragments.Decoder, sig string) (Value, error) {
	elem := sig[1:]
	switch elem[0] {
	case 'y':
		// The contiguous backing bytes become the value directly,
		// with no per-element iteration.
		bs, err := d.Bytes()
		return Bytes(bs), err
	case '{':
		return decodeDict(d, elem)
	}
	var elems []Value
	_, err := d.Array(alignOf(elem), func(int) error {
		v, err := decodeValue(d, elem)
		if err != nil {
			return err
		}
		elems = append(elems, v)
		return nil
	})
	if err != nil {
		return Value{}, err
	}
	return Array(elems...), nil
}

func decodeDict(d *fragments.Decoder, elem string) (Value, error) {
	parts, err := SplitSignature(elem[1 : len(elem)-1])
	if err != nil {
		return Value{}, err
	}
	if len(parts) != 2 {
		return Value{}, sigErr(elem, 0, "dict entry must hold a key and a value")
	}
	dict := new(Dict)
	_, err = d.Array(8, func(int) error {
		return d.Struct(func() error {
			key, err := decodeValue(d, parts[0])
			if err != nil {
				return err
			}
			val, err := decodeValue(d, parts[1])
			if err != nil {
				return err
			}
			// Later occurrences of a key overwrite earlier ones.
			dict.Set(key, val)
			return nil
		})
	})
	if err != nil {
		return Value{}, err
	}
	return DictValue(dict), nil
}
