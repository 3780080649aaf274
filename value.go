package dbusx

import (
	"bytes"
	"iter"
	"math"
)

// A Kind identifies the variant held by a [Value]. The scalar and
// text kinds correspond one-to-one with DBus basic type codes; the
// container kinds correspond to arrays, structs, dict entries and
// variants.
type Kind int

const (
	KindInvalid Kind = iota
	KindByte
	KindBool
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindDouble
	KindString
	KindObjectPath
	KindSignature
	KindUnixFD
	KindBytes
	KindArray
	KindStruct
	KindDict
	KindDictEntry
	KindVariant
)

var kindNames = map[Kind]string{
	KindInvalid:    "invalid",
	KindByte:       "byte",
	KindBool:       "bool",
	KindInt16:      "int16",
	KindUint16:     "uint16",
	KindInt32:      "int32",
	KindUint32:     "uint32",
	KindInt64:      "int64",
	KindUint64:     "uint64",
	KindDouble:     "double",
	KindString:     "string",
	KindObjectPath: "object path",
	KindSignature:  "signature",
	KindUnixFD:     "unix fd",
	KindBytes:      "byte array",
	KindArray:      "array",
	KindStruct:     "struct",
	KindDict:       "dict",
	KindDictEntry:  "dict entry",
	KindVariant:    "variant",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown kind"
}

// A Value is one node of a DBus value tree: a tagged union over the
// DBus basic types and the four container shapes. The zero Value has
// kind [KindInvalid] and cannot be encoded.
//
// Values are immutable once constructed, except that a [KindDict]
// Value shares its underlying [Dict].
type Value struct {
	kind Kind
	num  uint64 // scalar payload: integer bits, bool, float bits, fd
	str  string // text payload; inner signature for variants
	bs   []byte // byte array payload
	vals []Value
	dict *Dict
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Constructors, one per kind.

func Byte(b uint8) Value     { return Value{kind: KindByte, num: uint64(b)} }
func Int16(n int16) Value    { return Value{kind: KindInt16, num: uint64(int64(n))} }
func Uint16(n uint16) Value  { return Value{kind: KindUint16, num: uint64(n)} }
func Int32(n int32) Value    { return Value{kind: KindInt32, num: uint64(int64(n))} }
func Uint32(n uint32) Value  { return Value{kind: KindUint32, num: uint64(n)} }
func Int64(n int64) Value    { return Value{kind: KindInt64, num: uint64(n)} }
func Uint64(n uint64) Value  { return Value{kind: KindUint64, num: n} }
func Double(f float64) Value { return Value{kind: KindDouble, num: math.Float64bits(f)} }
func UnixFD(fd uint32) Value { return Value{kind: KindUnixFD, num: uint64(fd)} }

func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

// String returns a string value. ObjectPath and Signature return the
// corresponding text values; their grammar is checked at encode time,
// not at construction.
func String(s string) Value     { return Value{kind: KindString, str: s} }
func ObjectPath(s string) Value { return Value{kind: KindObjectPath, str: s} }
func Signature(s string) Value  { return Value{kind: KindSignature, str: s} }

// Bytes returns a byte array value. The slice is kept, not copied.
func Bytes(bs []byte) Value { return Value{kind: KindBytes, bs: bs} }

// Array returns an array of the given elements. The elements must
// all match the array's element signature at encode time; Array does
// not check this.
func Array(elems ...Value) Value { return Value{kind: KindArray, vals: elems} }

// Struct returns a struct with the given fields in order.
func Struct(fields ...Value) Value { return Value{kind: KindStruct, vals: fields} }

// DictEntry returns a single key/value pair. Dict entries only occur
// as array elements on the wire; a decoded mapping uses [Dict].
func DictEntry(key, val Value) Value {
	return Value{kind: KindDictEntry, vals: []Value{key, val}}
}

// Variant returns a variant carrying a value tagged with its own
// signature. sig must be a valid signature describing exactly one
// complete type; this is checked at encode time.
func Variant(sig string, inner Value) Value {
	return Value{kind: KindVariant, str: sig, vals: []Value{inner}}
}

// DictValue returns a dict value sharing d. A nil d is an empty dict.
func DictValue(d *Dict) Value {
	if d == nil {
		d = new(Dict)
	}
	return Value{kind: KindDict, dict: d}
}

// Accessors. Each returns the payload for its kind, and the zero
// value for any other kind.

func (v Value) Byte() uint8     { return uint8(v.num) }
func (v Value) Int16() int16    { return int16(v.num) }
func (v Value) Uint16() uint16  { return uint16(v.num) }
func (v Value) Int32() int32    { return int32(v.num) }
func (v Value) Uint32() uint32  { return uint32(v.num) }
func (v Value) Int64() int64    { return int64(v.num) }
func (v Value) Uint64() uint64  { return v.num }
func (v Value) Bool() bool      { return v.kind == KindBool && v.num == 1 }
func (v Value) Double() float64 { return math.Float64frombits(v.num) }
func (v Value) UnixFD() uint32  { return uint32(v.num) }

// Text returns the payload of a string, object path or signature
// value, and the inner signature of a variant.
func (v Value) Text() string { return v.str }

// Bytes returns the payload of a byte array value. The slice is
// shared, not copied.
func (v Value) Bytes() []byte { return v.bs }

// Values returns the elements of an array or the fields of a struct.
// The slice is shared, not copied.
func (v Value) Values() []Value { return v.vals }

// Key returns the key of a dict entry.
func (v Value) Key() Value {
	if v.kind != KindDictEntry {
		return Value{}
	}
	return v.vals[0]
}

// Val returns the value of a dict entry.
func (v Value) Val() Value {
	if v.kind != KindDictEntry {
		return Value{}
	}
	return v.vals[1]
}

// Variant returns the inner signature and value of a variant.
func (v Value) Variant() (sig string, inner Value) {
	if v.kind != KindVariant {
		return "", Value{}
	}
	return v.str, v.vals[0]
}

// Dict returns the mapping of a dict value, nil for other kinds.
func (v Value) Dict() *Dict { return v.dict }

// isInteger reports whether v holds one of the integer kinds, i.e.
// whether it is acceptable where a fixed-width integer type code
// expects a number.
func (v Value) isInteger() bool {
	switch v.kind {
	case KindByte, KindInt16, KindUint16, KindInt32, KindUint32, KindInt64, KindUint64, KindUnixFD:
		return true
	}
	return false
}

// isSignedKind reports whether v's integer payload is sign-extended.
func (v Value) isSignedKind() bool {
	switch v.kind {
	case KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

// isText reports whether v holds one of the text kinds.
func (v Value) isText() bool {
	switch v.kind {
	case KindString, KindObjectPath, KindSignature:
		return true
	}
	return false
}

// Equal reports whether v and w are deeply equal: same kind and same
// payload, with container contents compared recursively. Dicts
// compare without regard to entry order. Doubles compare by bit
// pattern, so NaN equals NaN.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindString, KindObjectPath, KindSignature:
		return v.str == w.str
	case KindBytes:
		return bytes.Equal(v.bs, w.bs)
	case KindArray, KindStruct, KindDictEntry:
		if len(v.vals) != len(w.vals) {
			return false
		}
		for i := range v.vals {
			if !v.vals[i].Equal(w.vals[i]) {
				return false
			}
		}
		return true
	case KindDict:
		return v.dict.Equal(w.dict)
	case KindVariant:
		return v.str == w.str && v.vals[0].Equal(w.vals[0])
	default:
		return v.num == w.num
	}
}

// Interface converts the value tree to plain Go values: scalars to
// their native types, text kinds to string, byte arrays to []byte,
// arrays and structs to []any, dicts to map[any]any (or a list of
// pairs when a key is itself a container), dict entries and variants
// to [2]any pairs. It is intended for display and
// interoperability, not for re-encoding; the kind tags are lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindByte:
		return v.Byte()
	case KindBool:
		return v.Bool()
	case KindInt16:
		return v.Int16()
	case KindUint16:
		return v.Uint16()
	case KindInt32:
		return v.Int32()
	case KindUint32:
		return v.Uint32()
	case KindInt64:
		return v.Int64()
	case KindUint64:
		return v.Uint64()
	case KindDouble:
		return v.Double()
	case KindString, KindObjectPath, KindSignature:
		return v.str
	case KindUnixFD:
		return v.UnixFD()
	case KindBytes:
		return v.bs
	case KindArray, KindStruct:
		ret := make([]any, len(v.vals))
		for i, e := range v.vals {
			ret[i] = e.Interface()
		}
		return ret
	case KindDict:
		for _, k := range v.dict.Keys() {
			if !k.isInteger() && !k.isText() && k.kind != KindBool && k.kind != KindDouble {
				// Container keys cannot be map keys; fall back to a
				// list of pairs.
				ret := make([]any, 0, v.dict.Len())
				for k, val := range v.dict.All() {
					ret = append(ret, [2]any{k.Interface(), val.Interface()})
				}
				return ret
			}
		}
		ret := make(map[any]any, v.dict.Len())
		for k, val := range v.dict.All() {
			ret[k.Interface()] = val.Interface()
		}
		return ret
	case KindDictEntry:
		return [2]any{v.vals[0].Interface(), v.vals[1].Interface()}
	case KindVariant:
		return [2]any{v.str, v.vals[0].Interface()}
	default:
		return nil
	}
}

// A Dict is an ordered mapping of DBus values. Entries keep their
// insertion order; setting an existing key overwrites its value in
// place. Keys are compared with [Value.Equal]. The zero Dict is an
// empty mapping ready for use.
type Dict struct {
	keys []Value
	vals []Value
}

// NewDict returns a Dict populated with the given entries, in order.
func NewDict(entries ...Value) *Dict {
	d := new(Dict)
	for _, e := range entries {
		d.Set(e.Key(), e.Val())
	}
	return d
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Set inserts or overwrites the entry for key. An overwritten entry
// keeps its original position.
func (d *Dict) Set(key, val Value) {
	for i, k := range d.keys {
		if k.Equal(key) {
			d.vals[i] = val
			return
		}
	}
	d.keys = append(d.keys, key)
	d.vals = append(d.vals, val)
}

// Get returns the value for key, and whether the key is present.
func (d *Dict) Get(key Value) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	for i, k := range d.keys {
		if k.Equal(key) {
			return d.vals[i], true
		}
	}
	return Value{}, false
}

// Keys returns the keys in insertion order. The slice is shared, not
// copied.
func (d *Dict) Keys() []Value {
	if d == nil {
		return nil
	}
	return d.keys
}

// All ranges over the entries in insertion order.
func (d *Dict) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		if d == nil {
			return
		}
		for i, k := range d.keys {
			if !yield(k, d.vals[i]) {
				return
			}
		}
	}
}

// Equal reports whether two dicts hold equal entries, regardless of
// order.
func (d *Dict) Equal(other *Dict) bool {
	if d.Len() != other.Len() {
		return false
	}
	if d == nil {
		return true
	}
	for k, v := range d.All() {
		ov, ok := other.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
