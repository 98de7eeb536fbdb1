package metadata

import (
	"iter"
	"slices"
)

// Field describes one data member of a type: its declared type as reported
// by the analyzer and its fully qualified name. Both values are fixed at
// creation.
type Field struct {
	typ      string
	variable string
}

// Type returns the member's type description.
func (f *Field) Type() string { return f.typ }

// Variable returns the member's fully qualified name.
func (f *Field) Variable() string { return f.variable }

// Type is one recorded declaration and its fields in declaration order.
type Type struct {
	name   string
	fields []*Field
}

// Name returns the fully qualified type name.
func (t *Type) Name() string { return t.name }

// AddField appends a field to the end of the type's field list and returns it.
func (t *Type) AddField(typ, variable string) *Field {
	f := &Field{typ: typ, variable: variable}
	t.fields = append(t.fields, f)
	return f
}

// Fields iterates the fields in insertion order.
func (t *Type) Fields() iter.Seq[*Field] {
	return slices.Values(t.fields)
}

// Len returns the number of fields.
func (t *Type) Len() int { return len(t.fields) }

// Database is the ordered collection of every type recorded during one
// traversal. It is append-only while the traversal runs and read-only once
// rendering starts. A Database must not be populated from more than one
// goroutine.
type Database struct {
	types []*Type
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{}
}

// AddType appends a new, empty type named name and returns it. Names are not
// checked for duplicates: the same qualified name seen twice yields two
// entries.
func (db *Database) AddType(name string) *Type {
	t := &Type{name: name}
	db.types = append(db.types, t)
	return t
}

// Types iterates the types in insertion order.
func (db *Database) Types() iter.Seq[*Type] {
	return slices.Values(db.types)
}

// Len returns the number of types.
func (db *Database) Len() int { return len(db.types) }
