// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"math"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"int64", int64(5), 5},
		{"uint64", uint64(7), 7},
		{"huge uint64", uint64(math.MaxUint64), float64(math.MaxUint64)},
		{"float32", float32(0.5), 0.5},
		{"any-keyed map", map[any]any{1: "a", "b": int64(2)}, map[string]any{"1": "a", "b": 2}},
		{"nested list", []any{int64(1), []any{int64(2)}}, []any{1, []any{2}}},
		{"string", "s", "s"},
	}

	for _, tt := range tests {
		if got := normalize(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: normalize(%#v) = %#v, want %#v", tt.name, tt.in, got, tt.want)
		}
	}
}
