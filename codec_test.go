package dbusx

import (
	"bytes"
	"testing"

	"github.com/dbusx/dbusx/fragments"
	"github.com/google/go-cmp/cmp"
)

func TestMarshalUnmarshal(t *testing.T) {
	type testCase struct {
		name       string
		sig        string
		wantDecode []Value
		toEncode   []Value
		raw        []byte
	}
	ok := func(name, sig string, vals []Value, raw ...byte) testCase {
		return testCase{name, sig, vals, vals, raw}
	}
	asymmetric := func(name, sig string, decoded, toEncode []Value, raw ...byte) testCase {
		return testCase{name, sig, decoded, toEncode, raw}
	}
	body := func(vals ...Value) []Value { return vals }

	tests := []testCase{
		ok("empty body", "", nil),

		ok("true", "b", body(Bool(true)),
			0, 0, 0, 1),
		ok("false", "b", body(Bool(false)),
			0, 0, 0, 0),

		ok("byte", "y", body(Byte(42)),
			42),
		ok("i16", "n", body(Int16(0x1234)),
			0x12, 0x34),
		ok("i16 negative", "n", body(Int16(-2)),
			0xff, 0xfe),
		ok("u16", "q", body(Uint16(0x1234)),
			0x12, 0x34),
		ok("i32", "i", body(Int32(0x12345678)),
			0x12, 0x34, 0x56, 0x78),
		ok("u32", "u", body(Uint32(0x12345678)),
			0x12, 0x34, 0x56, 0x78),
		ok("i64", "x", body(Int64(0x1abbccdd12345678)),
			0x1a, 0xbb, 0xcc, 0xdd,
			0x12, 0x34, 0x56, 0x78),
		ok("u64", "t", body(Uint64(0x1abbccdd12345678)),
			0x1a, 0xbb, 0xcc, 0xdd,
			0x12, 0x34, 0x56, 0x78),
		ok("fd", "h", body(UnixFD(3)),
			0, 0, 0, 3),

		ok("f64", "d", body(Double(3402823700)),
			0x41, 0xE9, 0x5A, 0x5F,
			0x02, 0x80, 0x00, 0x00),

		ok("string", "s", body(String("foobar")),
			// Length
			0, 0, 0, 6,
			// Value
			'f', 'o', 'o', 'b', 'a', 'r',
			// Terminator
			0),

		ok("path", "o", body(ObjectPath("/foo")),
			0, 0, 0, 4,
			'/', 'f', 'o', 'o',
			0),

		ok("signature", "g", body(Signature("a{sv}")),
			5,
			'a', '{', 's', 'v', '}',
			0),

		ok("bytes", "ay", body(Bytes([]byte("foobar"))),
			// Length
			0, 0, 0, 6,
			// Value
			'f', 'o', 'o', 'b', 'a', 'r'),

		ok("two values", "ii", body(Int32(1), Int32(2)),
			0, 0, 0, 1,
			0, 0, 0, 2),

		ok("[]string", "as", body(Array(String("fo"), String("obar"))),
			// array length
			0, 0, 0, 17,
			// "fo"
			0, 0, 0, 2, 'f', 'o', 0,
			// pad
			0,
			// "obar"
			0, 0, 0, 4, 'o', 'b', 'a', 'r', 0),

		ok("[]i32", "ai", body(Array(Int32(1), Int32(2))),
			0, 0, 0, 8,
			0, 0, 0, 1,
			0, 0, 0, 2),

		ok("[]u64", "at", body(Array(Uint64(5))),
			// array length
			0, 0, 0, 8,
			// pad to element alignment
			0, 0, 0, 0,
			// element
			0, 0, 0, 0, 0, 0, 0, 5),

		ok("empty []u64", "at", body(Array()),
			// array length
			0, 0, 0, 0,
			// pad to element alignment
			0, 0, 0, 0),

		ok("struct", "(nb)", body(Struct(Int16(42), Bool(true))),
			// field 0
			0, 42,
			// pad
			0, 0,
			// field 1
			0, 0, 0, 1),

		ok("struct nested", "(y(nb))", body(Struct(Byte(66), Struct(Int16(42), Bool(true)))),
			// field 0
			66,
			// pad to inner struct
			0, 0, 0, 0, 0, 0, 0,
			// field 1.0
			0, 42,
			// pad
			0, 0,
			// field 1.1
			0, 0, 0, 1),

		ok("[]struct", "a(nb)", body(Array(Struct(Int16(42), Bool(true)), Struct(Int16(43), Bool(false)))),
			// array length
			0, 0, 0, 16,
			// pad to element alignment
			0, 0, 0, 0,
			// element 0
			0, 42,
			0, 0,
			0, 0, 0, 1,
			// element 1
			0, 43,
			0, 0,
			0, 0, 0, 0),

		ok("dict", "a{qy}", body(DictValue(NewDict(
			DictEntry(Uint16(1), Byte(2)),
			DictEntry(Uint16(3), Byte(4)),
		))),
			// dict length
			0, 0, 0, 11,
			// pad
			0, 0, 0, 0,
			// key=1
			0, 1,
			// val=2
			2,
			// pad
			0, 0, 0, 0, 0,
			// key=3
			0, 3,
			// val=4
			4),

		ok("dict i32 string", "a{is}", body(DictValue(NewDict(
			DictEntry(Int32(1), String("a")),
		))),
			// dict length
			0, 0, 0, 10,
			// pad
			0, 0, 0, 0,
			// key=1
			0, 0, 0, 1,
			// val="a"
			0, 0, 0, 1, 'a', 0),

		ok("dict of variant", "a{sv}", body(DictValue(NewDict(
			DictEntry(String("a"), Variant("y", Byte(1))),
		))),
			// dict length
			0, 0, 0, 10,
			// pad
			0, 0, 0, 0,
			// key="a"
			0, 0, 0, 1, 'a', 0,
			// signature (byte)
			1, 'y', 0,
			// val=1
			1),

		ok("variant", "v", body(Variant("i", Int32(42))),
			// signature (int32)
			1, 'i', 0,
			// pad
			0,
			// value
			0, 0, 0, 42),

		ok("variant array", "v", body(Variant("ai", Array(Int32(1)))),
			// signature
			2, 'a', 'i', 0,
			// array length
			0, 0, 0, 4,
			// element
			0, 0, 0, 1),

		ok("top-level dict entry", "{ys}", body(DictEntry(Byte(1), String("a"))),
			// key
			1,
			// pad
			0, 0, 0,
			// val
			0, 0, 0, 1, 'a', 0),

		asymmetric("byte from i64", "y",
			body(Byte(42)), body(Int64(42)),
			42),
		asymmetric("double from i32", "d",
			body(Double(2)), body(Int32(2)),
			0x40, 0, 0, 0, 0, 0, 0, 0),
		asymmetric("string from path", "s",
			body(String("/foo")), body(ObjectPath("/foo")),
			0, 0, 0, 4, '/', 'f', 'o', 'o', 0),
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Marshal(tc.sig, tc.toEncode, fragments.BigEndian)
			if err != nil {
				t.Fatalf("Marshal(%q) failed: %v", tc.sig, err)
			}
			if !bytes.Equal(got, tc.raw) {
				t.Fatalf("Marshal(%q) wrong encoding:\n  got: % x\n want: % x", tc.sig, got, tc.raw)
			}
			vals, err := Unmarshal(tc.sig, tc.raw, fragments.BigEndian)
			if err != nil {
				t.Fatalf("Unmarshal(%q) failed: %v\n  raw: % x", tc.sig, err, tc.raw)
			}
			if diff := cmp.Diff(vals, tc.wantDecode); diff != "" {
				t.Fatalf("Unmarshal(%q) wrong values (-got+want):\n%s", tc.sig, diff)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		sig  string
		vals []Value
	}{
		{"", nil},
		{"y", []Value{Byte(255)}},
		{"bdx", []Value{Bool(true), Double(-0.5), Int64(-9e18)}},
		{"a{is}", []Value{DictValue(NewDict(
			DictEntry(Int32(1), String("a")),
			DictEntry(Int32(2), String("b")),
		))}},
		{"aav", []Value{Array(
			Array(Variant("s", String("x"))),
			Array(),
		)}},
		{"(is)", []Value{Struct(Int32(1), String("x"))}},
		{"a{s(ai)}", []Value{DictValue(NewDict(
			DictEntry(String("k"), Struct(Array(Int32(1), Int32(2)))),
		))}},
		{"v", []Value{Variant("(yy)", Struct(Byte(1), Byte(2)))}},
		{"vv", []Value{
			Variant("a{ss}", DictValue(NewDict(DictEntry(String("a"), String("b"))))),
			Variant("ay", Bytes([]byte{1, 2, 3})),
		}},
		{"ayay", []Value{Bytes(nil), Bytes([]byte{9})}},
	}

	for _, ord := range []fragments.ByteOrder{fragments.BigEndian, fragments.LittleEndian} {
		for _, tc := range tests {
			raw, err := Marshal(tc.sig, tc.vals, ord)
			if err != nil {
				t.Errorf("Marshal(%q) failed: %v", tc.sig, err)
				continue
			}
			got, err := Unmarshal(tc.sig, raw, ord)
			if err != nil {
				t.Errorf("Unmarshal(%q) failed: %v\n  raw: % x", tc.sig, err, raw)
				continue
			}
			if diff := cmp.Diff(got, tc.vals); diff != "" {
				t.Errorf("round trip of %q wrong values (-got+want):\n%s", tc.sig, diff)
			}
		}
	}
}
