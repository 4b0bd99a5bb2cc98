package tomlbind

import "fmt"

// Token types
const (
	tokenError = iota
	tokenEOF
	tokenNewline
	tokenBareKey
	tokenString
	tokenInteger
	tokenFloat
	tokenBool
	tokenTime
	tokenLBracket  // '['
	tokenRBracket  // ']'
	tokenLBrackets // '[['
	tokenRBrackets // ']]'
	tokenLBrace    // '{'
	tokenRBrace    // '}'
	tokenEqual     // '='
	tokenComma     // ','
	tokenDot       // '.'
)

// eof is returned by next when the input is exhausted.
const eof = -1

// itemSize bounds a single lexeme. Exceeding it is a scan error, never a
// reallocation.
const itemSize = 1024

func newScanner(data []byte) *scanner {
	return &scanner{
		data: data,
		line: 1,
		item: getItemBuf(),
	}
}

// release returns the pooled lexeme buffer. The scanner must not be used
// afterwards.
func (s *scanner) release() {
	putItemBuf(s.item)
	s.item = nil
}

// next returns the next character in the input.
func (s *scanner) next() int {
	if s.pos >= len(s.data) {
		s.atEOF = true
		return eof
	}
	c := s.data[s.pos]
	if c == '\n' {
		s.line++
	}
	s.pos++
	return int(c)
}

// backup steps back one character.
func (s *scanner) backup() {
	if s.atEOF {
		s.atEOF = false
		return
	}
	if s.pos > 0 {
		s.pos--
		if s.data[s.pos] == '\n' {
			s.line--
		}
	}
}

// peek returns but does not consume the next character in the input.
func (s *scanner) peek() int {
	c := s.next()
	s.backup()
	return c
}

// accept consumes and returns the next character if it is from the valid
// set.
func (s *scanner) accept(valid string) (int, bool) {
	c := s.next()
	if c != eof {
		for i := 0; i < len(valid); i++ {
			if int(valid[i]) == c {
				return c, true
			}
		}
	}
	s.backup()
	return c, false
}

// endOfLine checks for and consumes \r, \n, or \r\n.
func (s *scanner) endOfLine(c int) bool {
	eol := c == '\r' || c == '\n'
	if c == '\r' {
		c = s.next()
		if c != '\n' && c != eof {
			s.backup() // read too far, put it back
		}
	}
	return eol
}

// put appends one character to the current lexeme. Overflow is recorded
// and reported once by emit.
func (s *scanner) put(c int) {
	if len(s.item) >= itemSize {
		s.overflow = true
		return
	}
	s.item = append(s.item, byte(c))
}

// emit finalizes the current token.
func (s *scanner) emit(typ int) int {
	if s.overflow {
		return s.errorf("token exceeds %d bytes", itemSize)
	}
	s.typ = typ
	return typ
}

// errorf records an error item and terminates the scan.
func (s *scanner) errorf(format string, args ...interface{}) int {
	s.errMsg = fmt.Sprintf(format, args...)
	s.typ = tokenError
	return tokenError
}

// startToken records the source position of the token that begins at the
// character just consumed.
func (s *scanner) startToken() {
	i := s.pos
	if i > 0 {
		i--
	}
	last := -1
	for j := i - 1; j >= 0; j-- {
		if s.data[j] == '\n' {
			last = j
			break
		}
	}
	s.tokLine = s.line
	s.tokCol = i - last
}

// scan scans the next token from the input and returns its type. The
// lexeme is left in s.item.
func (s *scanner) scan() int {
	s.item = s.item[:0]
	s.overflow = false

	// ignore whitespaces
	c := s.next()
	for c == ' ' || c == '\t' {
		c = s.next()
	}
	s.startToken()

	// ignore comments; consecutive comment lines collapse into one newline
	if c == '#' {
		for {
			for c = s.next(); c != eof && c != '\r' && c != '\n'; c = s.next() {
			}
			if s.peek() != '#' {
				break
			}
		}
	}

	if c == eof {
		return s.emit(tokenEOF)
	}
	if s.endOfLine(c) {
		return s.emit(tokenNewline)
	}

	switch c {
	case '[':
		if s.next() == '[' {
			return s.emit(tokenLBrackets)
		}
		s.backup()
		return s.emit(tokenLBracket)
	case ']':
		if s.next() == ']' {
			return s.emit(tokenRBrackets)
		}
		s.backup()
		return s.emit(tokenRBracket)
	case '=':
		return s.emit(tokenEqual)
	case '{':
		return s.emit(tokenLBrace)
	case '}':
		return s.emit(tokenRBrace)
	case ',':
		return s.emit(tokenComma)
	case '.':
		return s.emit(tokenDot)
	case '"':
		if s.next() == '"' {
			if s.next() == '"' { // got """
				return s.scanMultilineString()
			}
			s.backup()
			return s.emit(tokenString) // got an empty string
		}
		s.backup()
		return s.scanString()
	case '\'':
		if s.next() == '\'' {
			if s.next() == '\'' { // got '''
				return s.scanMultilineLiteralString()
			}
			s.backup()
			return s.emit(tokenString) // got an empty string
		}
		s.backup()
		return s.scanLiteralString()
	}

	if c == '-' {
		if cc := s.peek(); isAlpha(cc) || cc == '-' || cc == '_' {
			s.backup() // put '-' back
			return s.scanIdentifier()
		}
	}

	if c == '+' || c == '-' {
		cc := s.next()
		if cc == 'i' {
			if s.next() != 'n' || s.next() != 'f' {
				return s.errorf("invalid float")
			}
			if p := s.peek(); p != eof && p != '\r' && p != '\n' && p != ' ' {
				return s.errorf("invalid float")
			}
			s.put(c)
			s.put('i')
			s.put('n')
			s.put('f')
			return s.emit(tokenFloat)
		}
		if cc == 'n' {
			if s.next() != 'a' || s.next() != 'n' {
				return s.errorf("invalid float")
			}
			if p := s.peek(); p != eof && p != '\r' && p != '\n' && p != ' ' {
				return s.errorf("invalid float")
			}
			s.put(c)
			s.put('n')
			s.put('a')
			s.put('n')
			return s.emit(tokenFloat)
		}
		if cc == '.' {
			return s.errorf("floats cannot start with a '.'")
		}
		if cc == '0' {
			if p := s.peek(); p == 'x' || p == 'o' || p == 'b' {
				return s.errorf("cannot use sign with non-decimal numbers")
			}
		}
		s.backup() // put cc back
		s.backup() // put c back
		return s.scanDecimalNumber()
	}
	if isDigit(c) {
		s.backup()
		return s.scanNumberOrDate()
	}
	if isAlpha(c) || c == '_' {
		s.backup()
		return s.scanIdentifier()
	}
	return s.errorf("unexpected character %q", byte(c))
}

// scanDecimalNumber scans a decimal integer or float.
func (s *scanner) scanDecimalNumber() int {
	if c, ok := s.accept("+-"); ok {
		s.put(c)
	}
	c := s.next()
	for isDigit(c) {
		s.put(c)
		c = s.next()
	}
	if c == '.' || c == 'e' || c == 'E' {
		s.put(c)
		for {
			cc, ok := s.accept("0123456789eE+-._")
			if !ok {
				break
			}
			if cc != '_' {
				s.put(cc)
			}
		}
		return s.emit(tokenFloat)
	}
	s.backup()
	for c = s.next(); isDigit(c) || c == '_'; c = s.next() {
		if c != '_' {
			s.put(c)
		}
	}
	s.backup()
	return s.emit(tokenInteger)
}

// scanNumberOrDate scans a number or a date.
func (s *scanner) scanNumberOrDate() int {
	if s.peek() == '0' {
		s.put(s.next())
		c := s.next()
		switch c {
		case 'x': // hexadecimal
			s.put(c)
			for c = s.next(); isHexDigit(c) || c == '_'; c = s.next() {
				if c != '_' {
					s.put(c)
				}
			}
			s.backup()
			return s.emit(tokenInteger)
		case 'o': // octal
			s.put(c)
			for c = s.next(); (c >= '0' && c <= '7') || c == '_'; c = s.next() {
				if c != '_' {
					s.put(c)
				}
			}
			s.backup()
			return s.emit(tokenInteger)
		case 'b': // binary
			s.put(c)
			for c = s.next(); c == '0' || c == '1' || c == '_'; c = s.next() {
				if c != '_' {
					s.put(c)
				}
			}
			s.backup()
			return s.emit(tokenInteger)
		}
		s.backup()
	}

	c := s.next()
	for isDigit(c) {
		s.put(c)
		c = s.next()
	}
	if c == '.' || c == 'e' || c == 'E' {
		s.put(c)
		for {
			cc, ok := s.accept("0123456789eE+-._")
			if !ok {
				break
			}
			if cc != '_' {
				s.put(cc)
			}
		}
		return s.emit(tokenFloat)
	}
	if c == '_' {
		for c = s.next(); isDigit(c) || c == '_'; c = s.next() {
			if c != '_' {
				s.put(c)
			}
		}
		s.backup()
		return s.emit(tokenInteger)
	}
	if c == '-' || c == ':' {
		s.put(c)
		for {
			cc, ok := s.accept("0123456789+-.tT: Zz")
			if !ok {
				break
			}
			s.put(cc)
		}
		return s.emit(tokenTime)
	}
	s.backup()
	return s.emit(tokenInteger)
}

// escape consumes an escaped character.
func (s *scanner) escape() (int, bool) {
	c := s.next()
	switch c {
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case '"', '\\':
		return c, true
	case 'u', 'U': // \uXXXX and \UXXXXXXXX
		s.errorf("unicode escapes are not supported")
		return 0, false
	case eof:
		s.errorf("saw eof in escape sequence")
		return 0, false
	}
	s.errorf("invalid escape sequence '\\%c'", byte(c))
	return 0, false
}

// scanString scans a basic string.
func (s *scanner) scanString() int {
	for {
		c := s.next()
		switch {
		case c == eof:
			return s.errorf(`saw eof before '"'`)
		case c == '"':
			return s.emit(tokenString)
		case c == '\r' || c == '\n':
			return s.errorf(`saw '\n' before '"'`)
		case c == '\\':
			var ok bool
			if c, ok = s.escape(); !ok {
				return tokenError
			}
			s.put(c)
		default:
			s.put(c)
		}
	}
}

// scanLiteralString scans a literal string.
func (s *scanner) scanLiteralString() int {
	for {
		c := s.next()
		switch {
		case c == eof:
			return s.errorf(`saw eof before "'"`)
		case c == '\'':
			return s.emit(tokenString)
		case c == '\r' || c == '\n':
			return s.errorf(`saw '\n' before "'"`)
		default:
			s.put(c)
		}
	}
}

// scanMultilineString scans a multiline basic string. The string can
// contain " and "", including at the end: """str""""". Six or more
// quotes at the end is an error.
func (s *scanner) scanMultilineString() int {
	// a newline immediately following the opening delimiter is trimmed
	if c := s.next(); !s.endOfLine(c) {
		s.backup() // was not a newline, put it back
	}

	for {
		n := 0
		c := s.next()
		for c == '"' {
			n++
			c = s.next()
		}
		if n >= 3 && n <= 5 {
			s.backup() // probably \r or \n
			if n == 4 { // one double quote at the end: """"
				s.put('"')
			} else if n == 5 { // two double quotes at the end: """""
				s.put('"')
				s.put('"')
			}
			return s.emit(tokenString)
		}
		if c == eof {
			return s.errorf(`saw eof before '"""'`)
		}
		if n > 5 {
			return s.errorf("too many double quotes at the end of multiline string")
		}
		for i := 0; i < n; i++ {
			s.put('"')
		}
		if c == '\\' {
			// a backslash before a line ending eats all following
			// whitespace (line continuation)
			if isSpace(s.peek()) {
				for c = s.next(); isSpace(c); c = s.next() {
				}
				s.backup()
				continue
			}
			var ok bool
			if c, ok = s.escape(); !ok {
				return tokenError
			}
		}
		s.put(c)
	}
}

// scanMultilineLiteralString scans a multiline literal string. Same
// trailing-quote rules as multiline basic strings, but no escapes and no
// line continuation.
func (s *scanner) scanMultilineLiteralString() int {
	if c := s.next(); !s.endOfLine(c) {
		s.backup()
	}

	for {
		n := 0
		c := s.next()
		for c == '\'' {
			n++
			c = s.next()
		}
		if n >= 3 && n <= 5 {
			s.backup()
			if n == 4 {
				s.put('\'')
			} else if n == 5 {
				s.put('\'')
				s.put('\'')
			}
			return s.emit(tokenString)
		}
		if c == eof {
			return s.errorf(`saw eof before "'''"`)
		}
		if n > 5 {
			return s.errorf("too many single quotes at the end of multiline literal string")
		}
		for i := 0; i < n; i++ {
			s.put('\'')
		}
		s.put(c)
	}
}

// scanIdentifier scans an alphanumeric. The literals true/false become
// bool tokens, inf/-inf/nan/-nan become float tokens, anything else is a
// bare key.
func (s *scanner) scanIdentifier() int {
	c := s.next()
	for isAlnum(c) || c == '_' || c == '-' {
		s.put(c)
		c = s.next()
	}
	s.backup()
	switch GetString(s.item) {
	case "true", "false":
		return s.emit(tokenBool)
	case "inf", "-inf", "nan", "-nan":
		return s.emit(tokenFloat)
	}
	return s.emit(tokenBareKey)
}
