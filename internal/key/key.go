// Package key implements TOML key canonicalization and dotted-key
// splitting, independent of the parser and table model that use them.
package key

import (
	"strings"

	"github.com/kezhuw/tomldoc/internal/tomlerr"
)

func isBareKeyChar(r byte) bool {
	switch {
	case 'A' <= r && r <= 'Z':
	case 'a' <= r && r <= 'z':
	case '0' <= r && r <= '9':
	case r == '-' || r == '_':
	default:
		return false
	}
	return true
}

func isBareKey(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isBareKeyChar(s[i]) {
			return false
		}
	}
	return true
}

// Canonicalize trims surrounding ASCII space/tab from s and reduces it
// to the table model's canonical form: a redundantly-quoted bare key is
// stripped of its quotes, any other quoted key keeps its quotes, and a
// bare key is returned unchanged.
func Canonicalize(s string) (string, error) {
	s = strings.Trim(s, " \t")
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && last == first {
			inner := s[1 : len(s)-1]
			if isBareKey(inner) {
				return inner, nil
			}
			return s, nil
		}
	}
	if isBareKey(s) {
		return s, nil
	}
	return "", &tomlerr.LexError{Kind: tomlerr.InvalidKey, Detail: s}
}

// SplitDotted splits s on '.', ignoring dots inside a matched '"' or '\''
// quoted span. Each returned part is trimmed of surrounding space/tab but
// is otherwise exactly as it appeared between dots; the caller
// canonicalizes each part separately.
func SplitDotted(s string) ([]string, error) {
	parts := make([]string, 0, 5)
	start := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '.':
			parts = append(parts, strings.Trim(s[start:i], " \t"))
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, &tomlerr.LexError{Kind: tomlerr.InvalidKey, Detail: s}
	}
	parts = append(parts, strings.Trim(s[start:], " \t"))
	return parts, nil
}
