package lang

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// mustFunction extracts the single function defined by src.
func mustFunction(t *testing.T, src string) *Function {
	t.Helper()

	fns, _ := ExtractFunctions(context.Background(), src)
	if len(fns) != 1 {
		t.Fatalf("expected 1 function in %q, got %d", src, len(fns))
	}

	return fns[0]
}

func TestFunctionExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		def   string
		input string
		want  string
	}{
		{
			name:  "statement call",
			def:   "function add(a, b) { a + b }",
			input: "v.x = add(1, 2);",
			want:  "v.x = 1 + 2;",
		},
		{
			name:  "whitespace before parens and semicolon",
			def:   "function add(a, b) { a + b }",
			input: "add (1,2) ;x",
			want:  "1 + 2;x",
		},
		{
			name:  "nested arguments",
			def:   "function add(a, b) { a + b }",
			input: "add(math.max(1, 2), 3);",
			want:  "math.max(1, 2) + 3;",
		},
		{
			name:  "missing argument",
			def:   "function add(a, b) { a + b }",
			input: "add(1);",
			want:  "1 +;",
		},
		{
			name:  "trailing empty argument",
			def:   "function add(a, b) { a + b }",
			input: "add(1, );",
			want:  "1 +;",
		},
		{
			name:  "extra arguments ignored",
			def:   "function add(a, b) { a + b }",
			input: "add(1, 2, 3);",
			want:  "1 + 2;",
		},
		{
			name:  "not followed by parens",
			def:   "function add(a, b) { a + b }",
			input: "v.add + add;",
			want:  "v.add + add;",
		},
		{
			name:  "longer identifier",
			def:   "function add(a, b) { a + b }",
			input: "padd(1, 2);",
			want:  "padd(1, 2);",
		},
		{
			name:  "inside string",
			def:   "function add(a, b) { a + b }",
			input: "'add(1, 2)'; add(1, 2);",
			want:  "'add(1, 2)'; 1 + 2;",
		},
		{
			name:  "unbalanced call",
			def:   "function add(a, b) { a + b }",
			input: "add(1, 2;",
			want:  "add(1, 2;",
		},
		{
			name:  "every call replaced",
			def:   "function one() { 1 }",
			input: "one(); one();",
			want:  "1; 1;",
		},
		{
			name:  "boundary safe substitution",
			def:   "function scale(v) { v * q.v + vv }",
			input: "scale(2);",
			want:  "2 * q.v + vv;",
		},
		{
			name:  "strings in body untouched",
			def:   "function say(x) { 'x' + x }",
			input: "say(1);",
			want:  "'x' + 1;",
		},
		{
			name:  "simultaneous substitution",
			def:   "function sub(a, b) { a - b }",
			input: "sub(b, a);",
			want:  "b - a;",
		},
		{
			name:  "argument containing parameter name",
			def:   "function pair(a, b) { a, b }",
			input: "pair(b + 1, 2);",
			want:  "b + 1, 2;",
		},
		{
			name:  "default chaining",
			def:   "function f(a, b = a + 1) { a * b }",
			input: "f(2);",
			want:  "2 * 2 + 1;",
		},
		{
			name:  "default overridden",
			def:   "function f(a, b = a + 1) { a * b }",
			input: "f(2, 5);",
			want:  "2 * 5;",
		},
		{
			name:  "default with zero arguments",
			def:   "function h(a = 3) { a }",
			input: "h();",
			want:  "3;",
		},
		{
			name:  "body already terminated",
			def:   "function g() { v.x = 1; }",
			input: "g();",
			want:  "v.x = 1;",
		},
		{
			name:  "numeric literal not an identifier",
			def:   "function f(e5) { 1e5 + e5 }",
			input: "f(2);",
			want:  "1e5 + 2;",
		},
		{
			name:  "no call",
			def:   "function f() { 1 }",
			input: "v.x = 1;",
			want:  "v.x = 1;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fn := mustFunction(t, tt.def)
			if got := fn.Expand(tt.input); got != tt.want {
				t.Errorf("Expand(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"  ", nil},
		{"1", []string{"1"}},
		{"a, (b, c), 'd, e'", []string{"a", "(b, c)", "'d, e'"}},
		{", 1", []string{"", "1"}},
		{"1, ", []string{"1"}},
		{"1, , ", []string{"1", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := Arguments(tt.input)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Arguments(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestFunctionBind(t *testing.T) {
	t.Parallel()

	fn := mustFunction(t, "function f(a, b = a * 2, c = b + a, d) { a }")

	got := fn.Bind([]string{"x"})
	want := map[string]string{
		"a": "x",
		"b": "x * 2",
		"c": "x * 2 + x",
		"d": "",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bind mismatch (-want +got):\n%s", diff)
	}
}
