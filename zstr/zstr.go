package zstr

import (
	"fmt"
	"strings"
)

// Concatinates parts, adding divider if prev or current added is not empty
// Doesn't add divider if prev ends in divider or next part begins with it
func Concat(divider string, parts ...any) string {
	var str string
	for _, p := range parts {
		s := fmt.Sprintf("%v", p)
		if s == "" {
			continue
		}
		if str == "" {
			str = s
			continue
		}
		prevHas := strings.HasSuffix(str, divider)
		currentHas := strings.HasPrefix(s, divider)
		if !prevHas && !currentHas {
			str += divider
		}
		if prevHas && currentHas {
			str = TruncatedCharsAtEnd(str, len([]rune(divider)))
		}
		str += s
	}
	return str
}

func Spaced(parts ...any) string {
	return Concat(" ", parts...)
}

func TruncatedCharsAtEnd(str string, chars int) string {
	r := []rune(str)
	if chars < len(r) {
		return string(r[:len(r)-chars])
	}
	return ""
}

// SplitTrimmed splits str on sep, trimming space from each part and skipping empty ones.
func SplitTrimmed(str, sep string) []string {
	var out []string
	for _, s := range strings.Split(str, sep) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
