// Package dbusx implements the DBus wire type model: type signatures,
// a tagged value tree, and a codec between the two and the binary
// wire format.
//
// A type signature is a compact string of single-character type codes
// describing one or more nested value shapes, e.g. "a{sv}" for a
// dictionary of string to variant. [CheckSignature] and
// [SplitSignature] implement the signature grammar, including the
// nesting and length limits that peer implementations enforce.
//
// A [Value] is one node of a value tree: eight fixed-width scalars,
// three text kinds, and the array, struct, dict-entry and variant
// containers, plus a contiguous byte-array representation for "ay".
// [Marshal] encodes a sequence of Values against a signature into
// wire bytes; [Unmarshal] walks wire bytes with a signature and
// produces the Values back. The codec is strict on encode (locally
// authored data must be rejected before it reaches a peer) and
// trusting on decode (incoming data already crossed the transport).
//
// The package also provides the name grammars used around the type
// model: [ValidBusName], [ValidObjectPath], [ValidInterfaceName],
// [ValidMemberName] and [ValidErrorName].
//
// Connection management, message dispatch and transport framing are
// out of scope; this package is the codec those layers are built on.
package dbusx
