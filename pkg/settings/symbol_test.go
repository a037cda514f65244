// SPDX-License-Identifier: MPL-2.0

package settings

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  SymbolKind
	}{
		{"int", 1, KindVariable},
		{"string", "s", KindVariable},
		{"nil", nil, KindVariable},
		{"slice", []int{1}, KindVariable},
		{"map", map[string]any{"a": 1}, KindVariable},
		{"struct pointer", &testOwner{}, KindVariable},
		{"plain func", func() {}, KindFunction},
		{"documented func", Func(greet, "doc"), KindFunction},
		{"function pointer", &Function{Fn: greet}, KindFunction},
		{"class", Plugin(NewWidgets, ""), KindClass},
		{"class pointer", &Class{New: NewWidgets}, KindClass},
		{"property", Lazy(NewWidgets, ""), KindProperty},
		{"property pointer", &Property{New: NewWidgets}, KindProperty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.value)
			if got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.value, got, tt.want)
			}
			matches := 0
			for _, k := range []SymbolKind{KindVariable, KindFunction, KindClass, KindProperty} {
				if got == k {
					matches++
				}
			}
			if matches != 1 {
				t.Errorf("Classify(%v) matched %d kinds, want exactly 1", tt.value, matches)
			}
		})
	}
}

func TestSymbolKindString(t *testing.T) {
	t.Parallel()

	for kind, want := range map[SymbolKind]string{
		KindVariable:  "variable",
		KindFunction:  "function",
		KindClass:     "class",
		KindProperty:  "property",
		SymbolKind(9): "unknown",
	} {
		if got := kind.String(); got != want {
			t.Errorf("SymbolKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestIsPrivate(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"":        true,
		"_x":      true,
		"__init":  true,
		"x":       false,
		"x_":      false,
		"project": false,
	} {
		if got := IsPrivate(name); got != want {
			t.Errorf("IsPrivate(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestSymbolsMerge(t *testing.T) {
	t.Parallel()

	base := Symbols{"x": 1, "y": 1}
	merged := base.Merge(map[string]any{"x": 2}, map[string]any{"z": 3})

	if merged["x"] != 2 || merged["y"] != 1 || merged["z"] != 3 {
		t.Errorf("Merge() = %v, want x=2 y=1 z=3", merged)
	}
	if base["x"] != 1 {
		t.Errorf("Merge() modified the receiver: %v", base)
	}
}

func TestSymbolsPublic(t *testing.T) {
	t.Parallel()

	pub := Symbols{"a": 1, "_b": 2}.Public()
	if _, ok := pub["_b"]; ok || pub["a"] != 1 {
		t.Errorf("Public() = %v, want only a", pub)
	}
}
