package parser

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structscan/internal/model"
)

func TestParseFile_ReferenceHeader(t *testing.T) {
	t.Parallel()

	reg, diags, err := New().ParseFile("testdata/reference.hpp")
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, []string{
		"InnerStruct",
		"SampleStruct",
		"EmptyStruct",
		"NestedContainerStruct",
		"ContainedStruct",
		"AnotherStruct",
	}, reg.Names())

	assert.Equal(t, map[string]map[string]string{
		"InnerStruct": {
			"inner_value": "int",
			"inner_name":  "StringAlias",
		},
		"SampleStruct": {
			"id":                "int",
			"value":             "float",
			"flag":              "bool",
			"color":             "Color",
			"inner_data":        "InnerStruct",
			"data_points":       "std::vector<int>",
			"coordinates":       "std::array<float, 3>",
			"name":              "StringAlias",
			"counter":           "unsigned long long",
			"message":           "const char*",
			"from_other_header": "ExternalType",
		},
		"EmptyStruct": {},
		"NestedContainerStruct": {
			"item":  "ContainedStruct",
			"items": "std::vector<ContainedStruct>",
		},
		"ContainedStruct": {
			"x": "int",
			"y": "int",
		},
		"AnotherStruct": {
			"pi": "double",
		},
	}, reg.ExportMap())
}

func TestParseFile_Missing(t *testing.T) {
	t.Parallel()

	_, _, err := New().ParseFile("testdata/does-not-exist.hpp")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	src, err := os.ReadFile("testdata/reference.hpp")
	require.NoError(t, err)

	first, _ := Parse(string(src))
	second, _ := Parse(string(src))
	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}

func TestParse_FieldOrderFollowsSource(t *testing.T) {
	t.Parallel()

	reg, _ := Parse(`struct Z { int zeta; int alpha; int mid; };`)
	rec, ok := reg.Lookup("Z")
	require.True(t, ok)

	var names []string
	for _, f := range rec.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestParse_CommentsAreInvisible(t *testing.T) {
	t.Parallel()

	plain, _ := Parse("struct P { int a; int b; };")
	commented, _ := Parse("struct P { int a; // trailing note\n /* block\n comment */ int b; };")
	assert.Equal(t, plain, commented)
}

func TestParse_NestedRecordIsolation(t *testing.T) {
	t.Parallel()

	reg, diags := Parse(`
struct Outer {
    int before;
    struct Inner { int x; double y; } inner;
    Inner copy;
    int after;
};`)
	assert.Empty(t, diags)
	assert.Equal(t, []string{"Outer", "Inner"}, reg.Names())

	outer, ok := reg.Lookup("Outer")
	require.True(t, ok)
	assert.False(t, outer.IsNested())
	assert.Equal(t, map[string]string{
		"before": "int",
		"inner":  "Inner",
		"copy":   "Inner",
		"after":  "int",
	}, reg.ExportMap()["Outer"])

	f, ok := outer.Field("inner")
	require.True(t, ok)
	assert.False(t, f.Type.IsParameterized)
	assert.Equal(t, model.KindNamed, f.Type.Kind())

	inner, ok := reg.Lookup("Inner")
	require.True(t, ok)
	assert.Equal(t, "Outer", inner.Parent)
	assert.Equal(t, map[string]string{"x": "int", "y": "double"}, reg.ExportMap()["Inner"])
}

func TestParse_DefaultInitializerStripped(t *testing.T) {
	t.Parallel()

	reg, _ := Parse("struct AnotherStruct { double pi = 3.14159; };")
	rec, ok := reg.Lookup("AnotherStruct")
	require.True(t, ok)

	fields := rec.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "pi", fields[0].Name)
	assert.Equal(t, "double", fields[0].Type.Raw)
	assert.True(t, fields[0].Type.IsPrimitive)
}

func TestParse_TemplateClassification(t *testing.T) {
	t.Parallel()

	reg, _ := Parse("struct T { std::vector<int> v; std::array<float, 3> a; std::vector<Point> p; };")
	rec, ok := reg.Lookup("T")
	require.True(t, ok)

	v, _ := rec.Field("v")
	assert.True(t, v.Type.IsParameterized)
	assert.True(t, v.Type.IsPrimitive)
	assert.Equal(t, "int", v.Type.Parameter)
	assert.Equal(t, model.KindParameterized, v.Type.Kind())

	a, _ := rec.Field("a")
	assert.True(t, a.Type.IsParameterized)
	assert.True(t, a.Type.IsPrimitive)
	assert.Equal(t, "float, 3", a.Type.Parameter)

	p, _ := rec.Field("p")
	assert.True(t, p.Type.IsParameterized)
	assert.False(t, p.Type.IsPrimitive)
}

func TestParse_EmptyRecordIsPresent(t *testing.T) {
	t.Parallel()

	reg, _ := Parse("struct Empty {};")
	rec, ok := reg.Lookup("Empty")
	require.True(t, ok)
	assert.Empty(t, rec.Fields())
}

func TestParse_ForwardReference(t *testing.T) {
	t.Parallel()

	reg, diags := Parse("struct A { int x; B y; };\nstruct B { float z; };")
	assert.Empty(t, diags)
	assert.Equal(t, map[string]map[string]string{
		"A": {"x": "int", "y": "B"},
		"B": {"z": "float"},
	}, reg.ExportMap())
}

func TestParse_RedeclarationLastWins(t *testing.T) {
	t.Parallel()

	reg, _ := Parse("struct A { int x; };\nstruct B {};\nstruct A { float y; int y; };")
	assert.Equal(t, []string{"A", "B"}, reg.Names())
	assert.Equal(t, map[string]string{"y": "int"}, reg.ExportMap()["A"])
}

func TestParse_TypedefRecords(t *testing.T) {
	t.Parallel()

	reg, _ := Parse(`
typedef struct { float x, y; } Vec2;
typedef struct node_s { struct node_s* next; int value; } node_t;
typedef unsigned int uint;`)

	assert.Equal(t, map[string]map[string]string{
		"Vec2":   {"x": "float", "y": "float"},
		"node_s": {"next": "struct node_s*", "value": "int"},
	}, reg.ExportMap())
}

func TestParse_ClassesWithMethods(t *testing.T) {
	t.Parallel()

	reg, diags := Parse(`
namespace geo { namespace detail {
class Shape final : public Base<int>, private Mixin {
public:
    Shape() : id_(0), tags_{} {}
    virtual ~Shape() = default;
    bool operator<(const Shape& other) const { return id_ < other.id_; }
    int id() const { return id_; }
    static constexpr int kMax = 8;
private:
    int id_;
    std::map<std::string, std::vector<int>> tags_;
    unsigned visible : 1;
    char label[16];
};
} }`)
	assert.Empty(t, diags)

	rec, ok := reg.Lookup("Shape")
	require.True(t, ok)
	assert.Equal(t, "class", rec.Keyword)

	var got [][2]string
	for _, f := range rec.Fields() {
		got = append(got, [2]string{f.Name, f.Type.Raw})
	}
	assert.Equal(t, [][2]string{
		{"id_", "int"},
		{"tags_", "std::map<std::string, std::vector<int>>"},
		{"visible", "unsigned"},
		{"label", "char[16]"},
	}, got)
}

func TestParse_RecordKeywordsOption(t *testing.T) {
	t.Parallel()

	reg, _ := New(WithRecordKeywords("struct")).ParseString("class C { int a; };\nstruct S { int b; };")
	assert.Equal(t, []string{"S"}, reg.Names())
}

func TestParse_UnterminatedBodyIsDiagnosed(t *testing.T) {
	t.Parallel()

	reg, diags := Parse("struct Good { int a; };\nstruct Broken {\n  int a;\n  int b;")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Broken")
	assert.Equal(t, 2, diags[0].Pos.Line)
	require.Error(t, diags.Err())

	assert.Equal(t, map[string]map[string]string{
		"Good":   {"a": "int"},
		"Broken": {"a": "int", "b": "int"},
	}, reg.ExportMap())
}

func TestParse_StrayBraceIsDiagnosed(t *testing.T) {
	t.Parallel()

	reg, diags := Parse("};\nstruct A { int x; };")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unmatched")
	assert.Equal(t, []string{"A"}, reg.Names())
}

func TestParse_AnonymousRecordIsDiagnosed(t *testing.T) {
	t.Parallel()

	reg, diags := Parse("struct S {\n  struct { int a; } anon;\n  int b;\n};")
	require.Len(t, diags, 1)
	assert.Equal(t, "anonymous struct: members are not extracted", diags[0].Message)
	assert.Equal(t, 2, diags[0].Pos.Line)

	assert.Equal(t, []string{"S"}, reg.Names())
	assert.Equal(t, map[string]string{"b": "int"}, reg.ExportMap()["S"])
}

func TestParse_NeverPanics(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"struct",
		"struct {",
		"struct A {{{{",
		"}}}}",
		"/* open",
		"\"unterminated",
		"enum class E {",
		"typedef struct {",
		"using",
		"struct A { int x = ; ; , <<< >>> };",
		"struct A { [[ int x; };",
		"namespace { namespace {",
		"struct \xff\xfe { int \x00 x; };",
	}
	for _, src := range inputs {
		assert.NotPanics(t, func() {
			reg, _ := Parse(src)
			require.NotNil(t, reg)
		}, "input %q", src)
	}
}

func TestDiagnostics_ErrNil(t *testing.T) {
	t.Parallel()

	var diags Diagnostics
	assert.NoError(t, diags.Err())
}
