package model

import (
	"fmt"
	"strings"

	"github.com/kezhuw/tomldoc/internal/key"
	"github.com/kezhuw/tomldoc/internal/tomlerr"
)

// Kind classifies why a Table exists and how the TOML encoder should
// render it.
type Kind int

const (
	Root Kind = iota
	Header
	ArrayElement
	Inline
	Dotted
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case Header:
		return "header"
	case ArrayElement:
		return "array-element"
	case Inline:
		return "inline"
	case Dotted:
		return "dotted"
	default:
		return "kind(?)"
	}
}

// Origin records whether a Table was named explicitly (by a [header] or
// as the terminal of a dotted key) or came into being only as an
// intermediate path step.
type Origin int

const (
	Implicit Origin = iota
	Explicit
)

type entry struct {
	key   string
	value Value
}

// Table is an ordered mapping from canonical keys to Values, carrying
// the Kind/Origin metadata that the parser uses to enforce TOML's
// nesting and redefinition rules and that the encoders use to choose a
// representation.
//
// The teacher's internal/types.Table is a bare map[string]Value plus an
// Implicit bool; this generalizes it into a parallel entry slice with a
// name index, per the Design Notes' "linked hash map equivalent",
// because encoders must walk keys in insertion order.
type Table struct {
	Kind    Kind
	Origin  Origin
	entries []entry
	index   map[string]int
}

func (*Table) tomlValue() {}

// NewTable constructs an empty Table of the given kind/origin.
func NewTable(kind Kind, origin Origin) *Table {
	return &Table{Kind: kind, Origin: origin, index: make(map[string]int)}
}

// NewRoot constructs the root table of a fresh document.
func NewRoot() *Table {
	return NewTable(Root, Explicit)
}

// Keys returns the table's keys in insertion order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.key
	}
	return keys
}

// Len reports the number of direct entries in t.
func (t *Table) Len() int {
	return len(t.entries)
}

// Get canonicalizes key and looks it up among this table's entries.
func (t *Table) Get(k string) (Value, bool) {
	canon, err := key.Canonicalize(k)
	if err != nil {
		return nil, false
	}
	return t.getCanonical(canon)
}

func (t *Table) getCanonical(canon string) (Value, bool) {
	i, ok := t.index[canon]
	if !ok {
		return nil, false
	}
	return t.entries[i].value, true
}

// putOrdered inserts key/value (key already canonical). Header-kind
// tables and array-of-tables are appended at the tail; every other
// value is inserted immediately before the first such sibling, or
// appended if there is none, per the TOML convention that scalar/dotted
// assignments precede sibling table headers in source order.
func (t *Table) putOrdered(canon string, value Value) {
	if i, ok := t.index[canon]; ok {
		t.entries[i].value = value
		return
	}
	pos := len(t.entries)
	if !isHeaderLike(value) {
		for i, e := range t.entries {
			if isHeaderLike(e.value) {
				pos = i
				break
			}
		}
	}
	t.entries = append(t.entries, entry{})
	copy(t.entries[pos+1:], t.entries[pos:])
	t.entries[pos] = entry{key: canon, value: value}
	t.reindex()
}

func (t *Table) reindex() {
	if t.index == nil {
		t.index = make(map[string]int, len(t.entries))
	}
	for i, e := range t.entries {
		t.index[e.key] = i
	}
}

func pathString(parts []string) string {
	return strings.Join(parts, ".")
}

// descend walks path, creating missing intermediate tables with the
// given kind (Implicit origin) and transparently stepping into the last
// element of any array-of-tables encountered along the way, per
// get_or_create_array's "may traverse into the last element of any
// array-of-tables encountered" and the equivalent rule for header paths.
//
// dotted selects I4's stricter re-entry check: walking through a Table
// that is already an Explicit Header or ArrayElement table is only
// legal when dotted is false (a genuine header path); a dotted key may
// not reach back into one to add keys outside a subsequent explicit
// header.
func (t *Table) descend(path []string, kind Kind, dotted bool) (*Table, error) {
	cur := t
	for i, name := range path {
		v, ok := cur.getCanonical(name)
		if !ok {
			child := NewTable(kind, Implicit)
			cur.putOrdered(name, child)
			cur = child
			continue
		}
		switch val := v.(type) {
		case *Table:
			if val.Kind == Inline {
				return nil, &tomlerr.StructError{Kind: tomlerr.ImmutableInlineTable, Path: pathString(path[:i+1])}
			}
			if dotted && val.Origin == Explicit && (val.Kind == Header || val.Kind == ArrayElement) {
				return nil, &tomlerr.StructError{Kind: tomlerr.TableRedefinition, Path: pathString(path[:i+1])}
			}
			cur = val
		case *Array:
			last, err := cur.GetLastArray(name)
			if err != nil {
				return nil, &tomlerr.StructError{Kind: tomlerr.ExpectedTable, Path: pathString(path[:i+1])}
			}
			cur = last
		default:
			if dotted {
				return nil, &tomlerr.StructError{Kind: tomlerr.KeyValueTypeOverride, Path: pathString(path[:i+1])}
			}
			return nil, &tomlerr.StructError{Kind: tomlerr.ExpectedTable, Path: pathString(path[:i+1])}
		}
	}
	return cur, nil
}

// GetLastArray returns the last element of the array-of-tables stored
// under name in t — the table a continuation header descends into when
// resolving a path that passes through an existing array-of-tables, per
// spec.md §4.3's get_last_array (e.g. [[a.b.c]] walking through the most
// recent element of [[a.b]]).
func (t *Table) GetLastArray(name string) (*Table, error) {
	v, ok := t.getCanonical(name)
	if !ok {
		return nil, &tomlerr.StructError{Kind: tomlerr.ExpectedArrayOfTables, Path: name}
	}
	arr, ok := v.(*Array)
	if !ok || !arr.IsArrayOfTables() {
		return nil, &tomlerr.StructError{Kind: tomlerr.ExpectedArrayOfTables, Path: name}
	}
	return arr.Elems[len(arr.Elems)-1].(*Table), nil
}

// CreateTable walks path from t, creating or validating a table of kind
// at every step and marking the terminal table's origin Explicit. It is
// called on the root for [header] path parsing, and on a dotted key's
// own table (with kind Dotted) to materialize the path up to its
// penultimate segment. [[array]] headers go through GetOrCreateArray.
func (t *Table) CreateTable(path []string, kind Kind) (*Table, error) {
	if len(path) == 0 {
		return nil, &tomlerr.StructError{Kind: tomlerr.InvalidTableNesting}
	}
	parent, err := t.descend(path[:len(path)-1], kind, kind == Dotted)
	if err != nil {
		return nil, err
	}
	leaf := path[len(path)-1]
	v, ok := parent.getCanonical(leaf)
	if !ok {
		child := NewTable(kind, Explicit)
		parent.putOrdered(leaf, child)
		return child, nil
	}
	table, ok := v.(*Table)
	if !ok {
		if _, isArray := v.(*Array); !isArray && kind == Dotted {
			return nil, &tomlerr.StructError{Kind: tomlerr.KeyValueTypeOverride, Path: pathString(path)}
		}
		return nil, &tomlerr.StructError{Kind: tomlerr.ExpectedTable, Path: pathString(path)}
	}
	if table.Kind == Inline {
		return nil, &tomlerr.StructError{Kind: tomlerr.ImmutableInlineTable, Path: pathString(path)}
	}
	if table.Origin == Explicit {
		// A dotted key may re-descend through a Dotted table it (or a
		// sibling dotted statement) previously made Explicit, per I4 —
		// "a.b.c = 1" followed by "a.b.d = 2" reopens "a.b" without
		// redefining it. Reopening an already-Explicit Header or
		// ArrayElement table this way, or a second [header] naming the
		// same path, is a genuine redefinition.
		if kind == Dotted && table.Kind == Dotted {
			return table, nil
		}
		return nil, &tomlerr.StructError{Kind: tomlerr.TableRedefinition, Path: pathString(path)}
	}
	table.Origin = Explicit
	table.Kind = kind
	return table, nil
}

// GetOrCreateArray resolves path to an array-of-tables slot, creating an
// empty one if absent. It descends path[:-1] the same way CreateTable
// does (transparently stepping into the last element of any array of
// tables along the way), matching the behavior a continuation header
// like [[fruits.varieties]] needs after [[fruits]] has already appended
// an element (the spec's get_last_array case: the innermost array is
// whatever this descent bottoms out at).
func (t *Table) GetOrCreateArray(path []string) (*Array, error) {
	if len(path) == 0 {
		return nil, &tomlerr.StructError{Kind: tomlerr.InvalidTableNesting}
	}
	parent, err := t.descend(path[:len(path)-1], Header, false)
	if err != nil {
		return nil, err
	}
	leaf := path[len(path)-1]
	v, ok := parent.getCanonical(leaf)
	if !ok {
		// The new array is still empty, so putOrdered could not tell it
		// from a plain array; append it at the tail as an array of tables.
		arr := &Array{}
		parent.entries = append(parent.entries, entry{key: leaf, value: arr})
		parent.reindex()
		return arr, nil
	}
	if tbl, isTable := v.(*Table); isTable {
		// [[a]] naming a path already declared by a plain [a] header is a
		// duplicate of the table name under a conflicting header form,
		// distinct from CreateTable's same-form TableRedefinition.
		if tbl.Kind == Header && tbl.Origin == Explicit {
			return nil, &tomlerr.StructError{Kind: tomlerr.DuplicateTableHeader, Path: pathString(path)}
		}
		return nil, &tomlerr.StructError{Kind: tomlerr.ExpectedArrayOfTables, Path: pathString(path)}
	}
	arr, ok := v.(*Array)
	if !ok {
		return nil, &tomlerr.StructError{Kind: tomlerr.ExpectedArrayOfTables, Path: pathString(path)}
	}
	if len(arr.Elems) > 0 && !arr.IsArrayOfTables() {
		// The array exists but already holds plain scalars, not tables.
		return nil, &tomlerr.StructError{Kind: tomlerr.ExpectedArray, Path: pathString(path)}
	}
	return arr, nil
}

// AddKeyValue materializes the dotted path up to its penultimate part as
// Dotted tables (marking the last of those explicit), then installs
// value at the final part, which must not already exist.
func (t *Table) AddKeyValue(parts []string, value Value) error {
	if len(parts) == 0 {
		return &tomlerr.StructError{Kind: tomlerr.InvalidTableNesting}
	}
	parent := t
	if len(parts) > 1 {
		var err error
		parent, err = t.CreateTable(parts[:len(parts)-1], Dotted)
		if err != nil {
			return err
		}
	}
	leaf := parts[len(parts)-1]
	if existing, ok := parent.getCanonical(leaf); ok {
		if _, isTable := existing.(*Table); isTable {
			return &tomlerr.StructError{Kind: tomlerr.KeyValueRedefinition, Path: pathString(parts)}
		}
		return &tomlerr.StructError{Kind: tomlerr.DuplicateKeyValuePair, Path: pathString(parts)}
	}
	parent.putOrdered(leaf, value)
	return nil
}

// Describe renders a human-readable "kind/origin" tag, used in error
// messages and debugging; not part of the encoded output.
func (t *Table) Describe() string {
	return fmt.Sprintf("%s/%s table", t.Kind, originString(t.Origin))
}

func originString(o Origin) string {
	if o == Explicit {
		return "explicit"
	}
	return "implicit"
}

// Range calls fn for every entry in insertion order.
func (t *Table) Range(fn func(key string, value Value)) {
	for _, e := range t.entries {
		fn(e.key, e.value)
	}
}
