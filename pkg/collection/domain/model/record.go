package model

import "sort"

// Record is one addressable entity of a Collection. The field map is never
// shared with callers: constructors and accessors copy it.
type Record struct {
	ID     string
	fields map[string]Value
}

func NewRecord(id string, fields map[string]Value) Record {
	r := Record{ID: id, fields: make(map[string]Value, len(fields))}
	for name, v := range fields {
		r.fields[name] = v
	}
	return r
}

func (r Record) Get(field string) (Value, bool) {
	v, ok := r.fields[field]
	return v, ok
}

func (r Record) Text(field string) string {
	return r.fields[field].Text()
}

func (r Record) Flag(field string) bool {
	return r.fields[field].Flag()
}

func (r Record) Fields() map[string]Value {
	out := make(map[string]Value, len(r.fields))
	for name, v := range r.fields {
		out[name] = v
	}
	return out
}

// FieldNames returns the names of the populated fields in lexical order.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of r with field set to v.
func (r Record) With(field string, v Value) Record {
	out := NewRecord(r.ID, r.fields)
	out.fields[field] = v
	return out
}

func (r Record) Equal(o Record) bool {
	if r.ID != o.ID || len(r.fields) != len(o.fields) {
		return false
	}
	for name, v := range r.fields {
		ov, ok := o.fields[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
