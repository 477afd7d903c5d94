package tomldoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kezhuw/tomldoc/internal/model"
)

// ToTOML renders d's tree back into TOML source. Dispatch follows
// Table.Kind exactly: Inline tables render as "{ k = v, ... }", Dotted
// tables flatten into "prefix.leaf = value" lines, Header/ArrayElement
// tables render as "[prefix]"/"[[prefix]]" blocks followed by their
// scalar assignments and then their child headers, prefix-extended.
// The put_ordered insertion discipline already guarantees scalar
// assignments precede sibling headers in entry order.
func (d *Document) ToTOML() []byte {
	var sb strings.Builder
	writeTOMLTable(&sb, d.root, nil)
	return []byte(sb.String())
}

func writeTOMLTable(sb *strings.Builder, t *model.Table, prefix []string) {
	var headers []tomlHeaderChild
	t.Range(func(k string, v model.Value) {
		switch val := v.(type) {
		case *model.Table:
			switch val.Kind {
			case model.Dotted:
				writeDottedEntries(sb, []string{k}, val)
			case model.Header:
				headers = append(headers, tomlHeaderChild{path: append(append([]string{}, prefix...), k), table: val})
			default:
				writeScalarLine(sb, nil, k, v)
			}
		case *model.Array:
			if val.IsArrayOfTables() {
				headers = append(headers, tomlHeaderChild{path: append(append([]string{}, prefix...), k), array: val})
			} else {
				writeScalarLine(sb, nil, k, v)
			}
		default:
			writeScalarLine(sb, nil, k, v)
		}
	})
	for _, h := range headers {
		if h.array != nil {
			for _, elemVal := range h.array.Elems {
				elem := elemVal.(*model.Table)
				fmt.Fprintf(sb, "[[%s]]\n", tomlPathString(h.path))
				writeTOMLTable(sb, elem, h.path)
			}
			continue
		}
		if h.table.Origin == model.Explicit {
			fmt.Fprintf(sb, "[%s]\n", tomlPathString(h.path))
		}
		writeTOMLTable(sb, h.table, h.path)
	}
}

type tomlHeaderChild struct {
	path  []string
	table *model.Table
	array *model.Array
}

// writeDottedEntries flattens a Dotted table's own entries (recursing
// into further Dotted children) into "prefix.leaf = value" lines at the
// point the dotted key was declared.
func writeDottedEntries(sb *strings.Builder, prefix []string, t *model.Table) {
	t.Range(func(k string, v model.Value) {
		if tbl, ok := v.(*model.Table); ok && tbl.Kind == model.Dotted {
			writeDottedEntries(sb, append(append([]string{}, prefix...), k), tbl)
			return
		}
		writeScalarLine(sb, prefix, k, v)
	})
}

func writeScalarLine(sb *strings.Builder, prefix []string, key string, v model.Value) {
	path := append(append([]string{}, prefix...), key)
	sb.WriteString(tomlPathString(path))
	sb.WriteString(" = ")
	writeTOMLValue(sb, v)
	sb.WriteByte('\n')
}

func tomlPathString(path []string) string {
	return strings.Join(path, ".")
}

func writeTOMLValue(sb *strings.Builder, v model.Value) {
	switch val := v.(type) {
	case model.String:
		writeTOMLString(sb, string(val))
	case model.Integer:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case model.Float:
		sb.WriteString(formatFloatValue(float64(val)))
	case model.Bool:
		if val {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case model.Date:
		sb.WriteString(formatDate(val))
	case model.Time:
		sb.WriteString(formatTime(val))
	case model.DateTime:
		sb.WriteString(formatDateTime(val))
	case *model.Array:
		writeTOMLArray(sb, val)
	case *model.Table:
		writeTOMLInline(sb, val)
	}
}

// writeTOMLString quotes and escapes a string for the basic-string
// form, a deliberate departure from the teacher's emit-as-written
// strings (see SPEC_FULL.md's Open Questions: this encoder always
// round-trips instead of only being safe on already-clean input).
func writeTOMLString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\u%04X`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}

func writeTOMLArray(sb *strings.Builder, a *model.Array) {
	sb.WriteByte('[')
	for i, v := range a.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeTOMLValue(sb, v)
	}
	sb.WriteByte(']')
}

func writeTOMLInline(sb *strings.Builder, t *model.Table) {
	sb.WriteString("{ ")
	first := true
	t.Range(func(k string, v model.Value) {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(k)
		sb.WriteString(" = ")
		writeTOMLValue(sb, v)
	})
	sb.WriteString(" }")
}
