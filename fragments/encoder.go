package fragments

import "math"

// An Encoder accumulates DBus wire format data in a byte slice.
//
// Methods insert padding as needed to conform to DBus alignment
// rules, except for [Encoder.Write] which outputs bytes verbatim.
// Writes cannot fail; the output slice grows as needed.
type Encoder struct {
	// Order is the byte order to use when encoding multi-byte values.
	Order ByteOrder
	// Out is the encoded output.
	Out []byte
}

// Pad inserts padding bytes as needed to make the message a multiple
// of align bytes. If the message is already correctly aligned, no
// padding is inserted.
func (e *Encoder) Pad(align int) {
	extra := len(e.Out) % align
	if extra == 0 {
		return
	}
	var pad [8]byte
	e.Out = append(e.Out, pad[:align-extra]...)
}

// Write writes bs as-is to the output. It is the caller's
// responsibility to ensure correct padding and encoding.
func (e *Encoder) Write(bs []byte) {
	e.Out = append(e.Out, bs...)
}

// Bytes writes bs as a DBus byte array.
func (e *Encoder) Bytes(bs []byte) {
	e.Uint32(uint32(len(bs)))
	e.Out = append(e.Out, bs...)
}

// String writes s as a DBus string.
func (e *Encoder) String(s string) {
	e.Uint32(uint32(len(s)))
	e.Out = append(e.Out, s...)
	e.Out = append(e.Out, 0)
}

// Signature writes s as a DBus signature string. Unlike ordinary
// strings, signatures carry a single-byte length and need no
// alignment.
func (e *Encoder) Signature(s string) {
	e.Uint8(uint8(len(s)))
	e.Out = append(e.Out, s...)
	e.Out = append(e.Out, 0)
}

// Uint8 writes a uint8.
func (e *Encoder) Uint8(u8 uint8) {
	e.Out = append(e.Out, u8)
}

// Uint16 writes a uint16.
func (e *Encoder) Uint16(u16 uint16) {
	e.Pad(2)
	e.Out = e.Order.AppendUint16(e.Out, u16)
}

// Uint32 writes a uint32.
func (e *Encoder) Uint32(u32 uint32) {
	e.Pad(4)
	e.Out = e.Order.AppendUint32(e.Out, u32)
}

// Uint64 writes a uint64.
func (e *Encoder) Uint64(u64 uint64) {
	e.Pad(8)
	e.Out = e.Order.AppendUint64(e.Out, u64)
}

// Int16 writes an int16.
func (e *Encoder) Int16(i16 int16) { e.Uint16(uint16(i16)) }

// Int32 writes an int32.
func (e *Encoder) Int32(i32 int32) { e.Uint32(uint32(i32)) }

// Int64 writes an int64.
func (e *Encoder) Int64(i64 int64) { e.Uint64(uint64(i64)) }

// Float64 writes a float64 as a DBus double.
func (e *Encoder) Float64(f float64) {
	e.Uint64(math.Float64bits(f))
}

// Bool writes a bool as a DBus boolean.
func (e *Encoder) Bool(b bool) {
	if b {
		e.Uint32(1)
	} else {
		e.Uint32(0)
	}
}

// Array writes an array to the output.
//
// Array elements must be added within the provided elements function,
// which is responsible for padding each element to the correct
// alignment for the element type.
//
// elemAlign is the alignment of the array's element type. The array
// length prefix counts the element bytes only; the padding that
// aligns the first element is excluded, which is why the element
// alignment must be known up front even for an empty array.
func (e *Encoder) Array(elemAlign int, elements func()) {
	e.Pad(4)
	offset := len(e.Out)
	e.Uint32(0)
	e.Pad(elemAlign)

	start := len(e.Out)
	elements()
	e.Order.PutUint32(e.Out[offset:], uint32(len(e.Out)-start))
}

// Struct writes a struct to the output.
//
// Struct fields must be added within the provided fields function.
func (e *Encoder) Struct(fields func()) {
	e.Pad(8)
	fields()
}

// ByteOrderFlag writes the DBus byte order flag byte ('l' or 'B')
// that matches [Encoder.Order].
func (e *Encoder) ByteOrderFlag() {
	e.Write([]byte{e.Order.dbusFlag()})
}
