package dbusx

import (
	"github.com/dbusx/dbusx/fragments"
)

// Marshal returns the DBus wire encoding of values against the type
// signature sig, using the given byte order.
//
// The values must correspond one-to-one, in order, with the top-level
// complete types of sig. All validation happens before the
// corresponding bytes are produced: a malformed signature, a value
// whose shape does not match its type, an out-of-range integer, a
// wrong-arity struct, or a locally authored object path or signature
// that fails its grammar all abort the encode with nothing written.
func Marshal(sig string, values []Value, ord fragments.ByteOrder) ([]byte, error) {
	e := fragments.Encoder{Order: ord}
	if err := EncodeTo(&e, sig, values); err != nil {
		return nil, err
	}
	return e.Out, nil
}

// EncodeTo appends the wire encoding of values against sig to e. On
// error, e is restored to its previous state; a partially encoded
// body is never left behind.
func EncodeTo(e *fragments.Encoder, sig string, values []Value) error {
	if err := CheckSignature(sig); err != nil {
		return err
	}
	parts, err := SplitSignature(sig)
	if err != nil {
		return err
	}
	if len(parts) != len(values) {
		return &ArityError{sig, len(parts), len(values)}
	}
	mark := len(e.Out)
	for i, part := range parts {
		if err := encodeValue(e, part, values[i]); err != nil {
			e.Out = e.Out[:mark]
			return err
		}
	}
	return nil
}

// encodeValue encodes one value against one complete type.
func encodeValue(e *fragments.Encoder, sig string, v Value) error {
	switch sig[0] {
	case 'y', 'n', 'q', 'i', 'u', 'x', 't', 'h':
		return encodeInt(e, sig[0], v)
	case 'b':
		if v.Kind() != KindBool {
			return typeErr(sig, v.Kind(), "boolean value required")
		}
		e.Bool(v.Bool())
	case 'd':
		switch {
		case v.Kind() == KindDouble:
			e.Float64(v.Double())
		case v.isInteger() && v.isSignedKind():
			e.Float64(float64(int64(v.Uint64())))
		case v.isInteger():
			e.Float64(float64(v.Uint64()))
		default:
			return typeErr(sig, v.Kind(), "numeric value required")
		}
	case 's':
		if !v.isText() {
			return typeErr(sig, v.Kind(), "text value required")
		}
		e.String(v.Text())
	case 'o':
		if !v.isText() {
			return typeErr(sig, v.Kind(), "text value required")
		}
		if !ValidObjectPath(v.Text()) {
			return &NameError{"object path", v.Text()}
		}
		e.String(v.Text())
	case 'g':
		if !v.isText() {
			return typeErr(sig, v.Kind(), "text value required")
		}
		if err := CheckSignature(v.Text()); err != nil {
			return err
		}
		e.Signature(v.Text())
	case 'v':
		return encodeVariant(e, v)
	case '(':
		return encodeStruct(e, sig, v)
	case '{':
		return encodeDictEntry(e, sig, v)
	case 'a':
		return encodeArray(e, sig, v)
	default:
		return sigErr(sig, 0, "unknown type code %q", sig[0])
	}
	return nil
}

func encodeInt(e *fragments.Encoder, code byte, v Value) error {
	if !v.isInteger() {
		return typeErr(string(code), v.Kind(), "integer value required")
	}
	if err := checkIntRange(code, v); err != nil {
		return err
	}
	// The range check established that the truncating conversion is
	// exact, for signed and unsigned payloads alike.
	switch code {
	case 'y':
		e.Uint8(uint8(v.num))
	case 'n':
		e.Int16(int16(v.num))
	case 'q':
		e.Uint16(uint16(v.num))
	case 'i':
		e.Int32(int32(v.num))
	case 'u', 'h':
		e.Uint32(uint32(v.num))
	case 'x':
		e.Int64(int64(v.num))
	case 't':
		e.Uint64(v.num)
	}
	return nil
}

func encodeVariant(e *fragments.Encoder, v Value) error {
	if v.Kind() != KindVariant {
		return typeErr("v", v.Kind(), "variant value required")
	}
	sig, inner := v.Variant()
	if err := CheckSignature(sig); err != nil {
		return err
	}
	if parts, _ := SplitSignature(sig); len(parts) != 1 {
		return sigErr(sig, 0, "variant signature must be exactly one complete type")
	}
	e.Signature(sig)
	return encodeValue(e, sig, inner)
}

func encodeStruct(e *fragments.Encoder, sig string, v Value) error {
	if v.Kind() != KindStruct {
		return typeErr(sig, v.Kind(), "struct value required")
	}
	interior := sig[1 : len(sig)-1]
	parts, err := SplitSignature(interior)
	if err != nil {
		return err
	}
	fields := v.Values()
	if len(parts) != len(fields) {
		return &ArityError{interior, len(parts), len(fields)}
	}
	e.Struct(func() {
		for i, part := range parts {
			if err = encodeValue(e, part, fields[i]); err != nil {
				return
			}
		}
	})
	return err
}

func encodeDictEntry(e *fragments.Encoder, sig string, v Value) error {
	if v.Kind() != KindDictEntry {
		return typeErr(sig, v.Kind(), "dict entry value required")
	}
	interior := sig[1 : len(sig)-1]
	parts, err := SplitSignature(interior)
	if err != nil {
		return err
	}
	if len(parts) != 2 {
		return &ArityError{interior, len(parts), 2}
	}
	e.Struct(func() {
		if err = encodeValue(e, parts[0], v.Key()); err != nil {
			return
		}
		err = encodeValue(e, parts[1], v.Val())
	})
	return err
}

func encodeArray(e *fragments.Encoder, sig string, v Value) error {
	elem := sig[1:]
	switch elem[0] {
	case 'y':
		// Byte arrays encode in one contiguous write rather than
		// element by element.
		if v.Kind() != KindBytes {
			return typeErr(sig, v.Kind(), "byte array value required")
		}
		e.Bytes(v.Bytes())
		return nil
	case '{':
		return encodeDict(e, sig, v)
	}
	if v.Kind() != KindArray {
		return typeErr(sig, v.Kind(), "array value required")
	}
	var err error
	e.Array(alignOf(elem), func() {
		for _, ev := range v.Values() {
			if err = encodeValue(e, elem, ev); err != nil {
				return
			}
		}
	})
	return err
}

func encodeDict(e *fragments.Encoder, sig string, v Value) error {
	if v.Kind() != KindDict {
		return typeErr(sig, v.Kind(), "dict value required")
	}
	elem := sig[1:]
	interior := elem[1 : len(elem)-1]
	parts, err := SplitSignature(interior)
	if err != nil {
		return err
	}
	if len(parts) != 2 {
		return &ArityError{interior, len(parts), 2}
	}
	e.Array(8, func() {
		for k, val := range v.Dict().All() {
			e.Struct(func() {
				if err = encodeValue(e, parts[0], k); err != nil {
					return
				}
				err = encodeValue(e, parts[1], val)
			})
			if err != nil {
				return
			}
		}
	})
	return err
}
