package metadata

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the metadata model:
// - A new database is empty
// - AddType appends in call order and does not deduplicate names
// - AddField appends in call order and stores both values unchanged
// - Fields added to an earlier type after a later type was created stay with the earlier type

func TestDatabase_NewIsEmpty(t *testing.T) {
	t.Parallel()

	db := NewDatabase()
	assert.Equal(t, 0, db.Len())
	assert.Empty(t, slices.Collect(db.Types()))
}

func TestDatabase_AddTypePreservesOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	db := NewDatabase()
	db.AddType("b::Second")
	db.AddType("a::First")
	db.AddType("b::Second")

	var names []string
	for typ := range db.Types() {
		names = append(names, typ.Name())
	}
	assert.Equal(t, []string{"b::Second", "a::First", "b::Second"}, names)
	assert.Equal(t, 3, db.Len())
}

func TestType_AddFieldPreservesOrder(t *testing.T) {
	t.Parallel()

	db := NewDatabase()
	point := db.AddType("ns::Point")
	other := db.AddType("ns::Other")

	f := point.AddField("int", "ns::Point::x")
	other.AddField("bool", "ns::Other::flag")
	point.AddField(`const char "*"`, "ns::Point::label")

	assert.Equal(t, "int", f.Type())
	assert.Equal(t, "ns::Point::x", f.Variable())

	fields := slices.Collect(point.Fields())
	require.Len(t, fields, 2)
	assert.Equal(t, "ns::Point::x", fields[0].Variable())
	assert.Equal(t, `const char "*"`, fields[1].Type())
	assert.Equal(t, "ns::Point::label", fields[1].Variable())

	assert.Equal(t, 1, other.Len())
}
