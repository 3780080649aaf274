package dbusx

import "github.com/creachadair/mds/mapset"

// Signature grammar. A signature is an ASCII string of type codes: a
// full type is a single basic code, an 'a' followed by one full type,
// or a balanced '('...')' or '{'...'}' group of full types.

const (
	// maxSignatureLen is the maximum length of a type signature.
	maxSignatureLen = 255
	// maxDepth is the maximum nesting depth for arrays, and
	// independently for structs and dict entries.
	maxDepth = 32
)

// basicTypeCodes is the set of type codes that stand alone as a
// complete type.
var basicTypeCodes = mapset.New([]byte("ybnqiuxtdsogvh")...)

// oneFullType returns the offset just past the first complete type in
// sig[pos:end]. It only checks the structure needed to find that
// boundary (array element presence, bracket balance); callers that
// need the full grammar use checkSignature.
func oneFullType(sig string, pos, end int) (int, error) {
	switch open := sig[pos]; open {
	case 'a':
		if pos+1 >= end {
			return 0, sigErr(sig, pos, "array with no element type")
		}
		return oneFullType(sig, pos+1, end)
	case '(', '{':
		closer := byte(')')
		if open == '{' {
			closer = '}'
		}
		depth := 1
		for i := pos + 1; i < end; i++ {
			switch sig[i] {
			case open:
				depth++
			case closer:
				if depth--; depth == 0 {
					return i + 1, nil
				}
			}
		}
		return 0, sigErr(sig, pos, "unbalanced %q", open)
	default:
		return pos + 1, nil
	}
}

// checkSignature validates the grammar of sig[pos:end] at the given
// array and struct/dict nesting depths. The two depths are independent
// counters, each capped at maxDepth.
func checkSignature(sig string, pos, end, arrayDepth, structDepth int) error {
	start := pos
	for pos < end {
		next, err := oneFullType(sig, pos, end)
		if err != nil {
			return err
		}
		switch c := sig[pos]; {
		case next-pos == 1:
			if !basicTypeCodes.Has(c) {
				return sigErr(sig, pos, "unknown type code %q", c)
			}
		case c == 'a':
			if arrayDepth >= maxDepth {
				return sigErr(sig, pos, "array nesting exceeds %d levels", maxDepth)
			}
			if err := checkSignature(sig, pos+1, next, arrayDepth+1, structDepth); err != nil {
				return err
			}
		case c == '(', c == '{':
			if structDepth >= maxDepth {
				return sigErr(sig, pos, "struct nesting exceeds %d levels", maxDepth)
			}
			if err := checkSignature(sig, pos+1, next-1, arrayDepth, structDepth+1); err != nil {
				return err
			}
		}
		pos = next
	}
	if end-start > maxSignatureLen {
		return sigErr(sig, start, "signature exceeds %d bytes", maxSignatureLen)
	}
	return nil
}

// CheckSignature validates sig against the DBus signature grammar:
// every type code must be known, brackets must balance, arrays must
// nest at most 32 deep, structs and dict entries must (independently)
// nest at most 32 deep, and the whole signature must be at most 255
// bytes. The empty signature is valid and describes no values.
func CheckSignature(sig string) error {
	return checkSignature(sig, 0, len(sig), 0, 0)
}

// ValidSignature reports whether sig is a valid DBus type signature.
func ValidSignature(sig string) bool {
	return CheckSignature(sig) == nil
}

// alignOf returns the wire alignment of the complete type sig.
func alignOf(sig string) int {
	switch sig[0] {
	case 'n', 'q':
		return 2
	case 'b', 'i', 'u', 'h', 's', 'o', 'a':
		return 4
	case 'x', 't', 'd', '(', '{':
		return 8
	default: // y, g, v
		return 1
	}
}

// SplitSignature splits sig into its top-level complete types, e.g.
// "ia{sv}" into ["i", "a{sv}"]. It fails if the boundaries of the
// complete types cannot be determined; it does not perform the full
// grammar validation of [CheckSignature].
func SplitSignature(sig string) ([]string, error) {
	var parts []string
	pos := 0
	for pos < len(sig) {
		next, err := oneFullType(sig, pos, len(sig))
		if err != nil {
			return nil, err
		}
		parts = append(parts, sig[pos:next])
		pos = next
	}
	return parts, nil
}
