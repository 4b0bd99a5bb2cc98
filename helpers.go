package tomlbind

import "unsafe"

// GetString converts a byte slice to a string without allocation. The
// caller must not mutate b while the string is live; arena-backed array
// elements rely on this for the zero-allocation guarantee.
func GetString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// isDigit returns true if c is an ASCII digit.
func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c int) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlpha(c int) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c int) bool {
	return isAlpha(c) || isDigit(c)
}

// isSpace matches the whitespace set a multiline line-continuation eats.
func isSpace(c int) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
