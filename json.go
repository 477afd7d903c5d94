package tomldoc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kezhuw/tomldoc/internal/model"
)

// ToJSON renders d's tree as plain JSON: dates/times/datetimes become
// ISO-8601 strings, and every other scalar maps to the obvious JSON
// shape. Tables and arrays keep insertion order.
func (d *Document) ToJSON() []byte {
	var sb strings.Builder
	writeJSONTable(&sb, d.root, false)
	return []byte(sb.String())
}

// ToJSONTyped renders d's tree with every scalar wrapped as
// {"type": <tag>, "value": <stringified>}, matching the schema the
// toml-lang conformance corpus uses. A datetime's tag is "datetime" when
// it carries an offset and "datetime-local" otherwise, per P6.
func (d *Document) ToJSONTyped() []byte {
	var sb strings.Builder
	writeJSONTable(&sb, d.root, true)
	return []byte(sb.String())
}

func writeJSONTable(sb *strings.Builder, t *model.Table, typed bool) {
	sb.WriteByte('{')
	first := true
	t.Range(func(k string, v model.Value) {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		writeJSONKey(sb, k)
		sb.WriteByte(':')
		writeJSONValue(sb, v, typed)
	})
	sb.WriteByte('}')
}

// writeJSONKey renders a canonical table key as JSON object key text,
// per spec.md §4.5.
func writeJSONKey(sb *strings.Builder, k string) {
	sb.WriteString(strconv.Quote(jsonKeyText(k)))
}

// jsonKeyText returns the logical text of a canonical table key: a bare
// key is used as-is, and a key key.Canonicalize left quoted (because
// stripping its quotes would change the key, e.g. "a.b") has its outer
// quote delimiter stripped and, for basic-string keys, its escapes
// decoded.
func jsonKeyText(k string) string {
	if len(k) < 2 {
		return k
	}
	first, last := k[0], k[len(k)-1]
	if first != last || (first != '"' && first != '\'') {
		return k
	}
	inner := k[1 : len(k)-1]
	if first == '\'' {
		return inner
	}
	return decodeBasicStringEscapes(inner)
}

// decodeBasicStringEscapes decodes the escape sequences a basic
// (double-quoted) TOML string allows, over the already-unquoted inner
// text. An unparseable escape falls back to emitting it verbatim.
func decodeBasicStringEscapes(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case 'b':
			sb.WriteByte('\b')
			i++
		case 't':
			sb.WriteByte('\t')
			i++
		case 'n':
			sb.WriteByte('\n')
			i++
		case 'f':
			sb.WriteByte('\f')
			i++
		case 'r':
			sb.WriteByte('\r')
			i++
		case '"':
			sb.WriteByte('"')
			i++
		case '\\':
			sb.WriteByte('\\')
			i++
		case 'u':
			if i+6 <= len(s) {
				if r, err := strconv.ParseUint(s[i+2:i+6], 16, 32); err == nil {
					sb.WriteRune(rune(r))
					i += 5
					continue
				}
			}
			sb.WriteByte(c)
		case 'U':
			if i+10 <= len(s) {
				if r, err := strconv.ParseUint(s[i+2:i+10], 16, 32); err == nil {
					sb.WriteRune(rune(r))
					i += 9
					continue
				}
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func writeJSONArray(sb *strings.Builder, a *model.Array, typed bool) {
	sb.WriteByte('[')
	for i, v := range a.Elems {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeJSONValue(sb, v, typed)
	}
	sb.WriteByte(']')
}

func writeJSONValue(sb *strings.Builder, v model.Value, typed bool) {
	switch val := v.(type) {
	case *model.Table:
		writeJSONTable(sb, val, typed)
	case *model.Array:
		writeJSONArray(sb, val, typed)
	default:
		if !typed {
			writeJSONPlainScalar(sb, v)
			return
		}
		tag, str := typedScalar(v)
		sb.WriteByte('{')
		sb.WriteString(`"type":`)
		sb.WriteString(strconv.Quote(tag))
		sb.WriteString(`,"value":`)
		sb.WriteString(strconv.Quote(str))
		sb.WriteByte('}')
	}
}

func writeJSONPlainScalar(sb *strings.Builder, v model.Value) {
	switch val := v.(type) {
	case model.String:
		sb.WriteString(strconv.Quote(string(val)))
	case model.Integer:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case model.Float:
		sb.WriteString(formatJSONFloat(float64(val)))
	case model.Bool:
		if val {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case model.Date:
		sb.WriteString(strconv.Quote(formatDate(val)))
	case model.Time:
		sb.WriteString(strconv.Quote(formatTime(val)))
	case model.DateTime:
		sb.WriteString(strconv.Quote(formatDateTime(val)))
	}
}

func formatJSONFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return `"nan"`
	case math.IsInf(f, 1):
		return `"inf"`
	case math.IsInf(f, -1):
		return `"-inf"`
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// typedScalar returns the {"type","value"} pair for a leaf scalar.
func typedScalar(v model.Value) (tag, str string) {
	switch val := v.(type) {
	case model.String:
		return "string", string(val)
	case model.Integer:
		return "integer", strconv.FormatInt(int64(val), 10)
	case model.Float:
		return "float", formatFloatValue(float64(val))
	case model.Bool:
		if val {
			return "bool", "true"
		}
		return "bool", "false"
	case model.Date:
		return "date-local", formatDate(val)
	case model.Time:
		return "time-local", formatTime(val)
	case model.DateTime:
		if val.HasOffset() {
			return "datetime", formatDateTime(val)
		}
		return "datetime-local", formatDateTime(val)
	default:
		return "unknown", fmt.Sprintf("%v", v)
	}
}

func formatFloatValue(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func formatDate(d model.Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func formatTime(t model.Time) string {
	if t.Nanosecond == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%09d", t.Hour, t.Minute, t.Second, t.Nanosecond)
}

func formatDateTime(dt model.DateTime) string {
	s := formatDate(dt.Date) + "T" + formatTime(dt.Time)
	if dt.Offset == nil {
		return s
	}
	off := *dt.Offset
	sign := "+"
	if off < 0 {
		sign = "-"
		off = -off
	}
	return s + fmt.Sprintf("%s%02d:%02d", sign, off/60, off%60)
}
