package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kezhuw/tomldoc/internal/tomlerr"
)

// Scenario 2 from spec.md §8: a.b.c = 1 followed by a.b.d = 2 leaves
// root.a as an Implicit Dotted table and root.a.b holding both keys.
func TestDottedKeysReopenImplicitTable(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.AddKeyValue([]string{"a", "b", "c"}, Integer(1)))
	require.NoError(t, root.AddKeyValue([]string{"a", "b", "d"}, Integer(2)))

	a, ok := root.Get("a")
	require.True(t, ok)
	aTable := a.(*Table)
	assert.Equal(t, Dotted, aTable.Kind)
	assert.Equal(t, Implicit, aTable.Origin)

	bVal, ok := aTable.Get("b")
	require.True(t, ok)
	bTable := bVal.(*Table)
	assert.Equal(t, []string{"c", "d"}, bTable.Keys())
}

// Scenario 3: [a.b] ... [a] ... promotes a from Implicit to Explicit
// without redefining it.
func TestHeaderPromotesImplicitTable(t *testing.T) {
	root := NewRoot()
	ab, err := root.CreateTable([]string{"a", "b"}, Header)
	require.NoError(t, err)
	require.NoError(t, ab.AddKeyValue([]string{"x"}, Integer(1)))

	aAgain, err := root.CreateTable([]string{"a"}, Header)
	require.NoError(t, err)
	require.NoError(t, aAgain.AddKeyValue([]string{"y"}, Integer(2)))

	a, ok := root.Get("a")
	require.True(t, ok)
	aTable := a.(*Table)
	assert.Equal(t, Explicit, aTable.Origin)
	assert.Equal(t, []string{"y", "b"}, aTable.Keys())
}

// Scenario 4: [a] twice is a TableRedefinition.
func TestDuplicateHeaderIsRedefinition(t *testing.T) {
	root := NewRoot()
	_, err := root.CreateTable([]string{"a"}, Header)
	require.NoError(t, err)

	_, err = root.CreateTable([]string{"a"}, Header)
	var structErr *tomlerr.StructError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, tomlerr.TableRedefinition, structErr.Kind)
}

// Scenario 5: t = {x=1}; t.y = 2 is ImmutableInlineTable.
func TestInlineTableIsImmutable(t *testing.T) {
	root := NewRoot()
	inline := NewTable(Inline, Explicit)
	require.NoError(t, inline.AddKeyValue([]string{"x"}, Integer(1)))
	require.NoError(t, root.AddKeyValue([]string{"t"}, inline))

	err := root.AddKeyValue([]string{"t", "y"}, Integer(2))
	var structErr *tomlerr.StructError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, tomlerr.ImmutableInlineTable, structErr.Kind)
}

// Scenario 6: nested array-of-tables.
func TestNestedArrayOfTables(t *testing.T) {
	root := NewRoot()

	fruitsArr, err := root.GetOrCreateArray([]string{"fruits"})
	require.NoError(t, err)
	apple := NewTable(ArrayElement, Explicit)
	require.NoError(t, apple.AddKeyValue([]string{"name"}, String("apple")))
	fruitsArr.Elems = append(fruitsArr.Elems, apple)

	fruitsArr2, err := root.GetOrCreateArray([]string{"fruits"})
	require.NoError(t, err)
	require.Same(t, fruitsArr, fruitsArr2)
	banana := NewTable(ArrayElement, Explicit)
	require.NoError(t, banana.AddKeyValue([]string{"name"}, String("banana")))
	fruitsArr.Elems = append(fruitsArr.Elems, banana)

	varietiesArr, err := root.GetOrCreateArray([]string{"fruits", "varieties"})
	require.NoError(t, err)
	plantain := NewTable(ArrayElement, Explicit)
	require.NoError(t, plantain.AddKeyValue([]string{"name"}, String("plantain")))
	varietiesArr.Elems = append(varietiesArr.Elems, plantain)

	require.Len(t, fruitsArr.Elems, 2)
	second := fruitsArr.Elems[1].(*Table)
	varieties, ok := second.Get("varieties")
	require.True(t, ok)
	varietiesTable := varieties.(*Array)
	require.Len(t, varietiesTable.Elems, 1)
	name, ok := varietiesTable.Elems[0].(*Table).Get("name")
	require.True(t, ok)
	assert.Equal(t, String("plantain"), name)
}

func TestAddKeyValueDuplicateRejected(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.AddKeyValue([]string{"a"}, Integer(1)))
	err := root.AddKeyValue([]string{"a"}, Integer(2))
	var structErr *tomlerr.StructError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, tomlerr.DuplicateKeyValuePair, structErr.Kind)
}

func TestArrayIsArrayOfTables(t *testing.T) {
	arr := &Array{Elems: []Value{NewTable(ArrayElement, Explicit)}}
	assert.True(t, arr.IsArrayOfTables())

	plain := &Array{Elems: []Value{Integer(1), Integer(2)}}
	assert.False(t, plain.IsArrayOfTables())
}

func TestPutOrderedKeepsHeadersLast(t *testing.T) {
	root := NewRoot()
	_, err := root.CreateTable([]string{"child"}, Header)
	require.NoError(t, err)
	require.NoError(t, root.AddKeyValue([]string{"scalar"}, Integer(1)))
	assert.Equal(t, []string{"scalar", "child"}, root.Keys())
}

func TestGetLastArrayReturnsMostRecentElement(t *testing.T) {
	root := NewRoot()
	arr, err := root.GetOrCreateArray([]string{"fruits"})
	require.NoError(t, err)
	first := NewTable(ArrayElement, Explicit)
	second := NewTable(ArrayElement, Explicit)
	arr.Elems = append(arr.Elems, first, second)

	last, err := root.GetLastArray("fruits")
	require.NoError(t, err)
	require.Same(t, second, last)
}

func TestGetLastArrayRejectsNonArray(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.AddKeyValue([]string{"fruits"}, Integer(1)))

	_, err := root.GetLastArray("fruits")
	var structErr *tomlerr.StructError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, tomlerr.ExpectedArrayOfTables, structErr.Kind)
}

// [a] followed by [[a]] names the same path with conflicting header forms.
func TestArrayHeaderAfterPlainHeaderIsDuplicate(t *testing.T) {
	root := NewRoot()
	_, err := root.CreateTable([]string{"a"}, Header)
	require.NoError(t, err)

	_, err = root.GetOrCreateArray([]string{"a"})
	var structErr *tomlerr.StructError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, tomlerr.DuplicateTableHeader, structErr.Kind)
}

// a = [1, 2]; [[a]] tries to append a table onto a plain scalar array.
func TestArrayHeaderOnScalarArrayIsExpectedArray(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.AddKeyValue([]string{"a"}, &Array{Elems: []Value{Integer(1), Integer(2)}}))

	_, err := root.GetOrCreateArray([]string{"a"})
	var structErr *tomlerr.StructError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, tomlerr.ExpectedArray, structErr.Kind)
}

// a = 1; a.b = 2 tries to extend a scalar's type via a dotted key.
func TestDottedKeyThroughScalarIsTypeOverride(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.AddKeyValue([]string{"a"}, Integer(1)))

	err := root.AddKeyValue([]string{"a", "b"}, Integer(2))
	var structErr *tomlerr.StructError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, tomlerr.KeyValueTypeOverride, structErr.Kind)
}
