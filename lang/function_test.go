package lang

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestExtractFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantFns  []*Function
		wantRest string
	}{
		{
			name:  "single definition",
			input: "function add(a, b) { a + b } v.x = add(1, 2);",
			wantFns: []*Function{
				{Name: "add", Params: []Param{{Name: "a"}, {Name: "b"}}, Body: "a + b"},
			},
			wantRest: " v.x = add(1, 2);",
		},
		{
			name:  "default parameters",
			input: "function f(a, b = a + 1, c = max(a, b)) { a + b }",
			wantFns: []*Function{{
				Name: "f",
				Params: []Param{
					{Name: "a"},
					{Name: "b", Default: "a + 1", HasDefault: true},
					{Name: "c", Default: "max(a, b)", HasDefault: true},
				},
				Body: "a + b",
			}},
		},
		{
			name:     "no parameters",
			input:    "function g() {\n  v.x = 1;\n}\nq",
			wantFns:  []*Function{{Name: "g", Body: "v.x = 1;"}},
			wantRest: "\nq",
		},
		{
			name:  "nested braces in body",
			input: "function f(x) { loop(2, {x;}); } q",
			wantFns: []*Function{
				{Name: "f", Params: []Param{{Name: "x"}}, Body: "loop(2, {x;});"},
			},
			wantRest: " q",
		},
		{
			name:  "declaration order",
			input: "function b() { 2 } x function a() { 1 }",
			wantFns: []*Function{
				{Name: "b", Body: "2"},
				{Name: "a", Body: "1"},
			},
			wantRest: " x ",
		},
		{
			name:  "invalid and duplicate parameters skipped",
			input: "function f(a, 1b, a, c, ) { a }",
			wantFns: []*Function{
				{Name: "f", Params: []Param{{Name: "a"}, {Name: "c"}}, Body: "a"},
			},
		},
		{
			name:  "body braces are not string aware",
			input: "function f() { '}' } tail",
			wantFns: []*Function{
				{Name: "f", Body: "'"},
			},
			wantRest: "' } tail",
		},
		{
			name:     "invalid name",
			input:    "function 1x() {}",
			wantRest: "function 1x() {}",
		},
		{
			name:     "unbalanced parameters",
			input:    "function f(a {",
			wantRest: "function f(a {",
		},
		{
			name:     "missing body",
			input:    "function f(a) x",
			wantRest: "function f(a) x",
		},
		{
			name:     "unbalanced body",
			input:    "function f(a) { a",
			wantRest: "function f(a) { a",
		},
		{
			name:     "keyword prefix",
			input:    "functional(1);",
			wantRest: "functional(1);",
		},
		{
			name:     "keyword suffix",
			input:    "myfunction f() {}",
			wantRest: "myfunction f() {}",
		},
		{
			name:  "failed definition resumes after keyword",
			input: "function function g() { 1 }",
			wantFns: []*Function{
				{Name: "g", Body: "1"},
			},
			wantRest: "function ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fns, rest := ExtractFunctions(context.Background(), tt.input)

			if diff := cmp.Diff(tt.wantFns, fns, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("functions mismatch (-want +got):\n%s", diff)
			}

			if rest != tt.wantRest {
				t.Errorf("rest = %q; want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestFunctionSignature(t *testing.T) {
	t.Parallel()

	fns, _ := ExtractFunctions(context.Background(),
		"function f(a, b = a + 1) { a + b } function g() { 1 }")

	want := []string{"f(a, b = a + 1)", "g()"}
	for i, fn := range fns {
		if got := fn.Signature(); got != want[i] {
			t.Errorf("Signature() = %q; want %q", got, want[i])
		}
	}
}

func TestFunctionString(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	fns, _ := ExtractFunctions(ctx,
		"function f(a, b = math.max(a, 1)) { a * b; } function g() { {1} }")

	for _, fn := range fns {
		again, rest := ExtractFunctions(ctx, fn.String())
		if rest != "" || len(again) != 1 {
			t.Fatalf("ExtractFunctions(%q) = %d functions, rest %q", fn.String(), len(again), rest)
		}

		if diff := cmp.Diff(fn, again[0]); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}
