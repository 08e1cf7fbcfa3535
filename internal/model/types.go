// Package model defines the intermediate representation for parsed record declarations.
package model

// TypeKind represents the category of a declared type.
type TypeKind string

const (
	KindPrimitive     TypeKind = "primitive"
	KindParameterized TypeKind = "parameterized"
	KindNamed         TypeKind = "named"
)

// TypeRef represents a declared type as written in source.
// Classification fields are derived from Raw by Classify.
type TypeRef struct {
	Raw             string // Whitespace-normalized type text (e.g., "std::vector<int>")
	IsPrimitive     bool   // Contains a built-in scalar keyword as a whole token
	IsParameterized bool   // Contains a balanced <...> region
	Parameter       string // Text between the first '<' and the final '>' (parameterized only)
}

// Kind returns the category of the type. Parameterized wins over primitive.
func (t TypeRef) Kind() TypeKind {
	switch {
	case t.IsParameterized:
		return KindParameterized
	case t.IsPrimitive:
		return KindPrimitive
	default:
		return KindNamed
	}
}

// String returns the raw type text.
func (t TypeRef) String() string {
	return t.Raw
}

// Field represents one named field within a record.
type Field struct {
	Name string  // Field name
	Type TypeRef // Declared type
}

// Record represents a struct, class or union declaration.
type Record struct {
	Name    string // Record name (e.g., "SampleStruct")
	Keyword string // Declaring keyword: struct, class or union
	Parent  string // Enclosing record for nested declarations, empty at top level

	fields []Field
	index  map[string]int
}

// NewRecord creates an empty record.
func NewRecord(name, keyword string) *Record {
	return &Record{
		Name:    name,
		Keyword: keyword,
		index:   make(map[string]int),
	}
}

// AddField appends a field. A repeated name overwrites the earlier
// declaration in place.
func (r *Record) AddField(f Field) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[f.Name]; ok {
		r.fields[i] = f
		return
	}
	r.index[f.Name] = len(r.fields)
	r.fields = append(r.fields, f)
}

// Fields returns the fields in declaration order.
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Field looks up a field by name.
func (r *Record) Field(name string) (Field, bool) {
	i, ok := r.index[name]
	if !ok {
		return Field{}, false
	}
	return r.fields[i], true
}

// IsNested reports whether the record was declared inside another record.
func (r *Record) IsNested() bool {
	return r.Parent != ""
}

// clone returns a deep copy of the record.
func (r *Record) clone() *Record {
	c := NewRecord(r.Name, r.Keyword)
	c.Parent = r.Parent
	for _, f := range r.fields {
		c.AddField(f)
	}
	return c
}
