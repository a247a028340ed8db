package gedcom

import (
	"regexp"
	"strconv"
	"strings"
)

// lineRE matches "<level> <tag-or-@id@> [value]".
var lineRE = regexp.MustCompile(`^(\d+)\s+(@\w+@|\w+)(?:\s+(.*))?$`)

// Token is one parsed statement line.
type Token struct {
	Level    int    // Nesting depth (0 = record header)
	Tag      string // Bare tag (NAME) or bracketed identifier (@I1@)
	Value    string // Trimmed remainder of the line, empty when absent
	HasValue bool   // Whether a value followed the tag
	Line     int    // 1-based line number in the source, 0 if unknown
	Raw      string // Trimmed source line
}

// IsPointer reports whether the token's tag is a bracketed identifier.
func (t Token) IsPointer() bool { return IsXref(t.Tag) }

// Tokenize parses a single line. It returns false for blank or malformed
// lines, which callers skip.
func Tokenize(line string) (Token, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Token{}, false
	}
	m := lineRE.FindStringSubmatch(line)
	if m == nil {
		return Token{}, false
	}
	level, err := strconv.Atoi(m[1])
	if err != nil {
		return Token{}, false
	}
	value := strings.TrimSpace(m[3])
	return Token{
		Level:    level,
		Tag:      m[2],
		Value:    value,
		HasValue: value != "",
		Raw:      line,
	}, true
}

// IsXref reports whether s has the bracketed identifier form "@token@".
func IsXref(s string) bool {
	return len(s) > 2 && s[0] == '@' && s[len(s)-1] == '@'
}

// NormalizeID turns "I1" or "@I1@" into the bracketed form used as registry key.
// Surrounding whitespace is removed; an empty input stays empty.
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || IsXref(s) {
		return s
	}
	return "@" + strings.Trim(s, "@") + "@"
}
