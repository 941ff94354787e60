package zstr

import "regexp"

const (
	EscBlack   = "\x1B[30m"
	EscRed     = "\x1B[31m"
	EscGreen   = "\x1B[32m"
	EscYellow  = "\x1B[33m"
	EscBlue    = "\x1B[34m"
	EscMagenta = "\x1B[35m"
	EscCyan    = "\x1B[36m"
	EscWhite   = "\x1B[37m"
	EscNoColor = "\x1b[0m"
)

var colorEscapeReg = regexp.MustCompile(`\x1B\[[0-9;]+m`)

// StripColorEscapes removes any terminal color escape sequence, not just the ones above.
func StripColorEscapes(str string) string {
	return colorEscapeReg.ReplaceAllString(str, "")
}

// Colored wraps str in the col escape and a reset, or returns str as is if col is empty.
func Colored(col, str string) string {
	if col == "" {
		return str
	}
	return col + str + EscNoColor
}
