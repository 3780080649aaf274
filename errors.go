package dbusx

import "fmt"

// SignatureError is the error returned when a type signature is
// malformed: an unknown type code, unbalanced brackets, or a depth or
// length limit exceeded.
type SignatureError struct {
	// Sig is the signature that failed validation.
	Sig string
	// Pos is the byte offset of the offending character, where that
	// is meaningful.
	Pos int
	// Reason is an explanation of what is wrong at Pos.
	Reason string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid type signature %q at offset %d: %s", e.Sig, e.Pos, e.Reason)
}

func sigErr(sig string, pos int, reason string, args ...any) *SignatureError {
	return &SignatureError{sig, pos, fmt.Sprintf(reason, args...)}
}

// NameError is the error returned when a bus name, object path,
// interface name, member name or error name fails its grammar.
type NameError struct {
	// Kind is the category of name that was being validated, e.g.
	// "bus name" or "object path".
	Kind string
	// Name is the rejected name.
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Name)
}

// TypeError is the error returned when a value's shape does not
// match the wire type its signature calls for, e.g. a non-integer
// value against an integer type code, or a non-struct value against a
// struct signature.
type TypeError struct {
	// Sig is the full type the value was being encoded against.
	Sig string
	// Kind is the kind of the mismatched value.
	Kind Kind
	// Reason is an explanation of the mismatch.
	Reason string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot encode %s value as %q: %s", e.Kind, e.Sig, e.Reason)
}

func typeErr(sig string, k Kind, reason string, args ...any) *TypeError {
	return &TypeError{sig, k, fmt.Sprintf(reason, args...)}
}

// RangeError is the error returned when an integer value is outside
// the representable range of the fixed-width wire type it is being
// encoded as.
type RangeError struct {
	// Code is the type code of the target wire type.
	Code byte
	// Value is the string form of the out-of-range value.
	Value string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %s out of range for type code %q", e.Value, e.Code)
}

// ArityError is the error returned when the number of values supplied
// for a struct, dict entry or message body does not match the number
// of full types in its signature.
type ArityError struct {
	// Sig is the signature whose full types were being matched.
	Sig string
	// Want is the number of full types in Sig.
	Want int
	// Got is the number of values supplied.
	Got int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("signature %q describes %d values, got %d", e.Sig, e.Want, e.Got)
}
