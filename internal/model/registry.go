package model

import (
	"strings"
)

// Registry is the result of one parse: record name to record, in
// declaration order. A zero Registry is not usable; use NewRegistry.
type Registry struct {
	order   []string
	records map[string]*Record
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*Record),
	}
}

// Add inserts a record or overwrites an earlier one with the same name.
// Overwritten records keep their original position.
func (r *Registry) Add(rec *Record) {
	if _, ok := r.records[rec.Name]; !ok {
		r.order = append(r.order, rec.Name)
	}
	r.records[rec.Name] = rec
}

// Lookup returns the record with the given name.
func (r *Registry) Lookup(name string) (*Record, bool) {
	rec, ok := r.records[name]
	return rec, ok
}

// Records returns all records in declaration order.
func (r *Registry) Records() []*Record {
	out := make([]*Record, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.records[name])
	}
	return out
}

// Names returns record names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of records.
func (r *Registry) Len() int {
	return len(r.order)
}

// ExportMap projects the registry to record name -> field name -> raw type.
// Go maps are unordered; use Names and Record.Fields when order matters.
func (r *Registry) ExportMap() map[string]map[string]string {
	out := make(map[string]map[string]string, len(r.order))
	for _, rec := range r.Records() {
		fields := make(map[string]string, len(rec.fields))
		for _, f := range rec.fields {
			fields[f.Name] = f.Type.Raw
		}
		out[rec.Name] = fields
	}
	return out
}

// String renders the registry for humans: each record name followed by
// "  <field>: <type>" lines, records separated by a blank line.
func (r *Registry) String() string {
	var b strings.Builder
	for i, rec := range r.Records() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(rec.Name)
		b.WriteString("\n")
		for _, f := range rec.fields {
			b.WriteString("  ")
			b.WriteString(f.Name)
			b.WriteString(": ")
			b.WriteString(f.Type.Raw)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Clone returns a deep copy that shares no state with r.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for _, rec := range r.Records() {
		c.Add(rec.clone())
	}
	return c
}
