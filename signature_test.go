package dbusx

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckSignature(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"", true},
		{"y", true},
		{"b", true},
		{"n", true},
		{"q", true},
		{"i", true},
		{"u", true},
		{"x", true},
		{"t", true},
		{"d", true},
		{"s", true},
		{"o", true},
		{"g", true},
		{"v", true},
		{"h", true},
		{"ii", true},
		{"ay", true},
		{"aay", true},
		{"(ii)", true},
		{"()", true},
		{"(i(s))", true},
		{"a{sv}", true},
		{"a{s(ai)}", true},
		{"(ybnqiuxtdsogvh)", true},
		{"a(ii)a{yy}v", true},
		// The validator does not require dict entry keys to be basic
		// types, dict entries to live inside arrays, or dict entries
		// to be non-empty; libdbus's own checks are stricter, but
		// this grammar is not.
		{"a{(ii)s}", true},
		{"{ss}", true},
		{"a{}", true},

		{"Z", false},
		{"iZ", false},
		{"a", false},
		{"aa", false},
		{"(i", false},
		{"i)", false},
		{"(", false},
		{")", false},
		{"{ss", false},
		{"}", false},
		{"(iZ)", false},
		{"a{sZ}", false},

		// 32 levels of array nesting are fine, 33 are not.
		{strings.Repeat("a", 32) + "i", true},
		{strings.Repeat("a", 33) + "i", false},
		// Struct depth has its own 32-level budget, independent of
		// array depth.
		{strings.Repeat("(", 32) + strings.Repeat(")", 32), true},
		{strings.Repeat("(", 33) + strings.Repeat(")", 33), false},
		{strings.Repeat("a", 32) + strings.Repeat("(", 32) + "i" + strings.Repeat(")", 32), true},

		// 255 bytes are fine, 256 are not.
		{strings.Repeat("i", 255), true},
		{strings.Repeat("i", 256), false},
	}

	for _, tc := range tests {
		err := CheckSignature(tc.in)
		if got := err == nil; got != tc.valid {
			t.Errorf("CheckSignature(%q) = %v, want valid=%v", tc.in, err, tc.valid)
		}
		if got := ValidSignature(tc.in); got != tc.valid {
			t.Errorf("ValidSignature(%q) = %v, want %v", tc.in, got, tc.valid)
		}
	}
}

func TestSplitSignature(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"", nil, false},
		{"i", []string{"i"}, false},
		{"ii", []string{"i", "i"}, false},
		{"ai", []string{"ai"}, false},
		{"a{is}", []string{"a{is}"}, false},
		{"aai", []string{"aai"}, false},
		{"(ii)s", []string{"(ii)", "s"}, false},
		{"sa{sv}y", []string{"s", "a{sv}", "y"}, false},
		{"(a(i))v", []string{"(a(i))", "v"}, false},
		{"{ss}{ss}", []string{"{ss}", "{ss}"}, false},

		{"(i", nil, true},
		{"a", nil, true},
		{"ia{s", nil, true},
	}

	for _, tc := range tests {
		got, err := SplitSignature(tc.in)
		if gotErr := err != nil; gotErr != tc.wantErr {
			t.Errorf("SplitSignature(%q) err = %v, want error=%v", tc.in, err, tc.wantErr)
			continue
		}
		if diff := cmp.Diff(got, tc.want); diff != "" {
			t.Errorf("SplitSignature(%q) wrong result (-got+want):\n%s", tc.in, diff)
		}
	}
}

func TestSignatureErrorPosition(t *testing.T) {
	err := CheckSignature("i(sZ)")
	se, ok := err.(*SignatureError)
	if !ok {
		t.Fatalf("CheckSignature returned %T, want *SignatureError", err)
	}
	if se.Pos != 3 {
		t.Errorf("error position = %d, want 3 (the unknown code)", se.Pos)
	}
}
