package dbusx

import (
	"fmt"
	"math"
)

// intRange is the inclusive range of an integer wire type. min is
// meaningful for the signed codes; max is the magnitude cap for
// non-negative values.
type intRange struct {
	min int64
	max uint64
}

// intRanges maps each fixed-width integer type code to its exact
// bounds. The table is consulted on encode only: values arriving off
// the wire are already bounded by their fixed width.
var intRanges = map[byte]intRange{
	'y': {0, 0xff},
	'q': {0, 0xffff},
	'u': {0, 0xffffffff},
	'h': {0, 0xffffffff},
	't': {0, math.MaxUint64},
	'n': {math.MinInt16, math.MaxInt16},
	'i': {math.MinInt32, math.MaxInt32},
	'x': {math.MinInt64, math.MaxInt64},
}

// checkIntRange verifies that integer value v fits the wire type
// named by code. The caller has already established that v is an
// integer kind.
func checkIntRange(code byte, v Value) error {
	r := intRanges[code]
	if v.isSignedKind() {
		i := int64(v.num)
		if i < r.min || (i > 0 && uint64(i) > r.max) {
			return &RangeError{code, fmt.Sprintf("%d", i)}
		}
		return nil
	}
	if v.num > r.max {
		return &RangeError{code, fmt.Sprintf("%d", v.num)}
	}
	return nil
}
