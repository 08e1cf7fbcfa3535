package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squash collapses whitespace so layout left behind by removed text does
// not matter.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestTokenize_RoundTrip(t *testing.T) {
	t.Parallel()

	src := "struct A { const char* s = \"a // b\"; char c = '\\''; }; /* x */ // y\n#define Z 1\n"
	toks, err := tokenize("", src)
	require.NoError(t, err)
	assert.Equal(t, src, join(toks))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "line and block comments",
			src:  "int a; // note\nint b; /* multi\nline */ int c;",
			want: "int a; int b; int c;",
		},
		{
			name: "comments glue nothing",
			src:  "unsigned/* gap */long x;",
			want: "unsigned long x;",
		},
		{
			name: "comment markers inside literals",
			src:  `const char* url = "http://host/*path*/"; char slash = '/';`,
			want: `const char* url = "http://host/*path*/"; char slash = '/';`,
		},
		{
			name: "directives",
			src:  "#include <vector>\n  #define WRAP(a) \\\n    (a)\nint x;\n#pragma once",
			want: "int x;",
		},
		{
			name: "nested namespaces",
			src:  "namespace a { namespace b::c { struct S { int v; }; } }\nnamespace { struct T {}; }",
			want: "struct S { int v; }; struct T {};",
		},
		{
			name: "extern C block",
			src:  `extern "C" { struct C { int v; }; }`,
			want: "struct C { int v; };",
		},
		{
			name: "namespace alias is not a scope",
			src:  "namespace fs = std::filesystem; struct F { int v; };",
			want: "namespace fs = std::filesystem; struct F { int v; };",
		},
		{
			name: "non-scope braces survive",
			src:  "namespace n { struct S { struct I { int x; } i; }; }",
			want: "struct S { struct I { int x; } i; };",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, squash(Normalize(tt.src)))
		})
	}
}

func TestNormalize_Diagnostics(t *testing.T) {
	t.Parallel()

	_, diags := Parse("struct A { int x; }; /* never closed")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unterminated block comment")

	_, diags = Parse("namespace outer {\nstruct A { int x; };")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "namespace scope is not closed")
}

func TestStripDeclarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "enum class with underlying type",
			src:  "enum class Color : uint8_t { Red, Green };\nstruct S { int enumerated; int using_count; };",
			want: "struct S { int enumerated; int using_count; };",
		},
		{
			name: "enum forward declaration",
			src:  "enum class Mode : int;\nstruct S { int v; };",
			want: "struct S { int v; };",
		},
		{
			name: "enum declarators and elaborated types",
			src:  "struct S { enum Mode { A, B } mode; enum Mode other; };",
			want: "struct S { Mode mode; Mode other; };",
		},
		{
			name: "typedefs",
			src:  "typedef struct { int x; } Point;\ntypedef struct node_s { struct node_s* next; } node_t;\ntypedef unsigned int uint;\ntypedef void (*cb_t)(int);",
			want: "struct Point { int x; }; struct node_s { struct node_s* next; };",
		},
		{
			name: "using declarations",
			src:  "template <typename T> using Vec = std::vector<T>;\nusing namespace std;\nstruct S { using Base::Base; int v; };",
			want: "struct S { int v; };",
		},
		{
			name: "keywords inside identifiers",
			src:  "struct Enumerator { Using usingThing; Typedefs t; };",
			want: "struct Enumerator { Using usingThing; Typedefs t; };",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, squash(StripDeclarations(tt.src)))
		})
	}
}

func TestExtractRecords(t *testing.T) {
	t.Parallel()

	records := ExtractRecords(`
struct Outer {
    int before;
    struct Inner { int x; } inner;
    void method() { if (ok) { run(); } }
    int after;
};
class Derived final : public Base<int> { int d; };
struct Forward;
struct Open {
    int a;`)

	require.Len(t, records, 4)

	assert.Equal(t, "Outer", records[0].Name)
	assert.Equal(t, "struct", records[0].Keyword)
	assert.Empty(t, records[0].Parent)
	assert.True(t, records[0].Closed)
	assert.Equal(t, "int before; Inner inner; void method() { if (ok) { run(); } } int after;", squash(records[0].Body))

	assert.Equal(t, "Inner", records[1].Name)
	assert.Equal(t, "Outer", records[1].Parent)
	assert.Equal(t, "int x;", records[1].Body)

	assert.Equal(t, "Derived", records[2].Name)
	assert.Equal(t, "class", records[2].Keyword)
	assert.Equal(t, "int d;", records[2].Body)

	assert.Equal(t, "Open", records[3].Name)
	assert.False(t, records[3].Closed)
	assert.Equal(t, "int a;", records[3].Body)
}

func TestExtractRecords_EmptyBody(t *testing.T) {
	t.Parallel()

	records := ExtractRecords("struct Empty {};")
	require.Len(t, records, 1)
	assert.Equal(t, "Empty", records[0].Name)
	assert.Empty(t, records[0].Body)
	assert.True(t, records[0].Closed)
}

func TestParseFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []FieldDecl
	}{
		{
			name: "multi-word types",
			body: "unsigned long long counter; const char* message; const char *other;",
			want: []FieldDecl{
				{Name: "counter", Type: "unsigned long long"},
				{Name: "message", Type: "const char*"},
				{Name: "other", Type: "const char*"},
			},
		},
		{
			name: "default initializers",
			body: "double pi = 3.14159; bool enabled = a < b; int n{4}; std::string s = \"x;y\";",
			want: []FieldDecl{
				{Name: "pi", Type: "double"},
				{Name: "enabled", Type: "bool"},
				{Name: "n", Type: "int"},
				{Name: "s", Type: "std::string"},
			},
		},
		{
			name: "templates with commas",
			body: "std::array<float, 3> coordinates; std::map<K, std::pair<A, B>> m; std::function<void(int, float)> cb;",
			want: []FieldDecl{
				{Name: "coordinates", Type: "std::array<float, 3>"},
				{Name: "m", Type: "std::map<K, std::pair<A, B>>"},
				{Name: "cb", Type: "std::function<void(int, float)>"},
			},
		},
		{
			name: "multiple declarators",
			body: "int a, *b, c[4]; std::vector<int> v = {1, 2, 3}, w;",
			want: []FieldDecl{
				{Name: "a", Type: "int"},
				{Name: "b", Type: "int*"},
				{Name: "c", Type: "int[4]"},
				{Name: "v", Type: "std::vector<int>"},
				{Name: "w", Type: "std::vector<int>"},
			},
		},
		{
			name: "arrays and bit-fields",
			body: "char buffer[BUF_SIZE + 1]; float m[3][4]; unsigned flags : 3;",
			want: []FieldDecl{
				{Name: "buffer", Type: "char[BUF_SIZE + 1]"},
				{Name: "m", Type: "float[3][4]"},
				{Name: "flags", Type: "unsigned"},
			},
		},
		{
			name: "methods and function pointers are skipped",
			body: "void reset(); int get() const { return x_; } double ratio; void (*callback)(int); int x_;",
			want: []FieldDecl{
				{Name: "ratio", Type: "double"},
				{Name: "x_", Type: "int"},
			},
		},
		{
			name: "labels attributes and specifiers",
			body: "public: int x; private: [[no_unique_address]] Empty e; static int count; friend class F; mutable int cache;",
			want: []FieldDecl{
				{Name: "x", Type: "int"},
				{Name: "e", Type: "Empty"},
				{Name: "cache", Type: "int"},
			},
		},
		{
			name: "malformed statements",
			body: ";; int; garbage; Foo::Bar; struct Forward; * p; int x",
			want: []FieldDecl{
				{Name: "x", Type: "int"},
			},
		},
		{
			name: "tolerates leftover comments",
			body: "int a; // note\nint /* inline */ b;",
			want: []FieldDecl{
				{Name: "a", Type: "int"},
				{Name: "b", Type: "int"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseFields(tt.body))
		})
	}
}

func TestSplitStatements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "parens and braces inside template arguments",
			body: "std::function<void()> cb{}; Tag<Foo{}> t; int n;",
			want: []string{"std::function<void()> cb{};", "Tag<Foo{}> t;", "int n;"},
		},
		{
			name: "nested template arguments",
			body: "std::map<K, std::pair<A, B>> m{}; int k;",
			want: []string{"std::map<K, std::pair<A, B>> m{};", "int k;"},
		},
		{
			name: "inline method body ends the statement",
			body: "int get() const { return x; } double r;",
			want: []string{"int get() const { return x; }", "double r;"},
		},
		{
			name: "operator and comparisons are not template arguments",
			body: "bool operator<(const A& o) const { return x < o.x; } bool b = x < y; int z;",
			want: []string{"bool operator<(const A& o) const { return x < o.x; }", "bool b = x < y;", "int z;"},
		},
		{
			name: "stray angle bracket is reset by semicolon",
			body: "Broken<Thing x; int y;",
			want: []string{"Broken<Thing x;", "int y;"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			toks, err := tokenize("", tt.body)
			require.NoError(t, err)

			var got []string
			for _, stmt := range splitStatements(toks) {
				got = append(got, squash(join(stmt)))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFields_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, ParseFields(""))
	assert.Empty(t, ParseFields("   \n  "))
}
