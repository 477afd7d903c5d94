// Package scalar implements the TOML scalar interpreters: each function
// takes a trimmed byte slice and returns a typed model.Value or a typed
// error, never looking outside its slice. Integer/Float/Bool return
// tomlerr.ErrNotThisShape on a non-match so the parser's dispatch chain
// (int, float, bool, datetime, date, time) can fall through cheaply.
//
// Grounded on the teacher's numParser (parse.go), which joins
// underscore-separated digit runs before handing them to strconv; this
// package keeps that division of labor (strconv does the actual
// overflow/format validation) but works over already-trimmed slices
// instead of a scanner's incremental join buffer, since the parser here
// records a whole token before dispatching to a scalar interpreter.
package scalar

import (
	"strconv"
	"strings"

	"github.com/kezhuw/tomldoc/internal/model"
	"github.com/kezhuw/tomldoc/internal/tomlerr"
)

// ParseInteger parses a trimmed decimal, 0x/0o/0b-prefixed integer
// literal with optional sign and underscore digit separators.
func ParseInteger(s string) (model.Integer, error) {
	if s == "" {
		return 0, tomlerr.ErrNotThisShape
	}
	sign := ""
	rest := s
	if rest[0] == '+' || rest[0] == '-' {
		sign = string(rest[0])
		rest = rest[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(rest, "0x"):
		base, rest = 16, rest[2:]
	case strings.HasPrefix(rest, "0o"):
		base, rest = 8, rest[2:]
	case strings.HasPrefix(rest, "0b"):
		base, rest = 2, rest[2:]
	}
	if rest == "" || !validDigitRun(rest, base) {
		return 0, tomlerr.ErrNotThisShape
	}
	if base == 10 && len(rest) > 1 && rest[0] == '0' {
		return 0, tomlerr.ErrNotThisShape
	}
	clean := strings.ReplaceAll(rest, "_", "")
	i, err := strconv.ParseInt(sign+clean, base, 64)
	if err != nil {
		return 0, tomlerr.ErrNotThisShape
	}
	return model.Integer(i), nil
}

func validDigitRun(s string, base int) bool {
	if s == "" || s[0] == '_' || s[len(s)-1] == '_' {
		return false
	}
	prevUnderscore := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			if prevUnderscore {
				return false
			}
			prevUnderscore = true
			continue
		}
		prevUnderscore = false
		if !isDigitInBase(c, base) {
			return false
		}
	}
	return true
}

func isDigitInBase(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	case 16:
		return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
	default:
		return c >= '0' && c <= '9'
	}
}

// ParseFloat parses a decimal float (with optional underscore
// separators) or one of the literal forms inf/+inf/-inf/nan/+nan/-nan.
func ParseFloat(s string) (model.Float, error) {
	if s == "" {
		return 0, tomlerr.ErrNotThisShape
	}
	switch s {
	case "inf", "+inf":
		return model.Float(posInf()), nil
	case "-inf":
		return model.Float(negInf()), nil
	case "nan", "+nan", "-nan":
		return model.Float(nan()), nil
	}
	sign := ""
	rest := s
	if rest[0] == '+' || rest[0] == '-' {
		sign = string(rest[0])
		rest = rest[1:]
	}
	if rest == "" {
		return 0, tomlerr.ErrNotThisShape
	}
	hasDot := strings.ContainsRune(rest, '.')
	hasExp := strings.ContainsAny(rest, "eE")
	if !hasDot && !hasExp {
		return 0, tomlerr.ErrNotThisShape
	}
	if !validFloatDigits(rest) {
		return 0, tomlerr.ErrNotThisShape
	}
	clean := strings.ReplaceAll(rest, "_", "")
	f, err := strconv.ParseFloat(sign+clean, 64)
	if err != nil {
		return 0, tomlerr.ErrNotThisShape
	}
	return model.Float(f), nil
}

func validFloatDigits(s string) bool {
	i := 0
	n := len(s)
	digits := func() bool {
		start := i
		prevUnderscore := true // leading underscore illegal
		for i < n && (isDigitInBase(s[i], 10) || s[i] == '_') {
			if s[i] == '_' {
				if prevUnderscore {
					return false
				}
				prevUnderscore = true
			} else {
				prevUnderscore = false
			}
			i++
		}
		return i > start && !prevUnderscore
	}
	if !digits() {
		return false
	}
	if i < n && s[i] == '.' {
		i++
		if !digits() {
			return false
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if !digits() {
			return false
		}
	}
	return i == n
}

// ParseBool matches the literal bare words "true"/"false".
func ParseBool(s string) (model.Bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, tomlerr.ErrNotThisShape
	}
}
