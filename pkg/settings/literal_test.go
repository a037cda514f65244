// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"reflect"
	"testing"
)

func TestParseLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want any
	}{
		{"5", 5},
		{"-3", -3},
		{"0x10", 16},
		{"2.5", 2.5},
		{"true", true},
		{"false", false},
		{"True", true},
		{"False", false},
		{"null", nil},
		{"None", nil},
		{`"quoted"`, "quoted"},
		{"[1, 2]", []any{1, 2}},
		{`[1, "a", [true]]`, []any{1, "a", []any{true}}},
		{`{a: 1, "b": "x"}`, map[string]any{"a": 1, "b": "x"}},
		{"Bob", "Bob"},
		{"hello world", "hello world"},
		{"a.b", "a.b"},
		{"/tmp/file.txt", "/tmp/file.txt"},
		{"1 + 2", "1 + 2"},
		{"[a, b]", "[a, b]"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got := ParseLiteral(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLiteral(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"x", `"x"`},
		{5, "5"},
		{true, "true"},
		{[]any{1, "a"}, `[1, "a"]`},
		{map[string]any{"b": 2, "a": 1}, `{"a": 1, "b": 2}`},
	}

	for _, tt := range tests {
		if got := FormatLiteral(tt.in); got != tt.want {
			t.Errorf("FormatLiteral(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatLiteralRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []any{1, -4, 2.5, true, nil, "text", []any{1, "x"}, map[string]any{"k": []any{1}}} {
		got := ParseLiteral(FormatLiteral(v))
		if !reflect.DeepEqual(got, v) {
			t.Errorf("ParseLiteral(FormatLiteral(%#v)) = %#v", v, got)
		}
	}
}
