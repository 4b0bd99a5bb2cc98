package tomlbind

import "fmt"

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{
		Msg:  fmt.Sprintf(format, args...),
		Line: p.sc.tokLine,
		Col:  p.sc.tokCol,
	}
}

// scanError converts the scanner's pending error item.
func (p *parser) scanError() error {
	return &ParseError{Msg: p.sc.errMsg, Line: p.sc.tokLine, Col: p.sc.tokCol}
}

// find resolves a key name in a scope by linear scan.
func find(scope []Key, name string) *Key {
	for i := range scope {
		if scope[i].Name == name {
			return &scope[i]
		}
	}
	return nil
}

// run parses the whole document: one expression per non-blank line, each
// a key/value pair, a [table] header, or a [[array-of-table]] header.
// The first rule violation aborts the parse; values already written stay
// written.
func (p *parser) run() error {
	for {
		tok := p.sc.scan()
		switch tok {
		case tokenEOF:
			return nil
		case tokenNewline:
			continue
		case tokenError:
			return p.scanError()
		case tokenLBracket:
			if err := p.tableHeader(); err != nil {
				return err
			}
		case tokenLBrackets:
			if err := p.arrayTableHeader(); err != nil {
				return err
			}
		case tokenBareKey, tokenString:
			if err := p.keyValue(p.scope); err != nil {
				return err
			}
			if err := p.expectEndOfLine(); err != nil {
				return err
			}
		default:
			return p.errorf("expected a key or a table header")
		}
	}
}

// expectEndOfLine requires the expression to be the last thing on its
// line.
func (p *parser) expectEndOfLine() error {
	switch tok := p.sc.scan(); tok {
	case tokenNewline, tokenEOF:
		return nil
	case tokenError:
		return p.scanError()
	default:
		return p.errorf("expected a newline after expression")
	}
}

// tableHeader parses '[ key ]'. The name resolves in the root scope and
// its sub-schema becomes the active scope until the next header.
func (p *parser) tableHeader() error {
	tok := p.sc.scan()
	if tok == tokenError {
		return p.scanError()
	}
	if tok != tokenBareKey && tok != tokenString {
		return p.errorf("expected a table name")
	}
	cursor := find(p.root, GetString(p.sc.item))
	if cursor == nil {
		return p.errorf("unknown table name '%s'", p.sc.item)
	}
	if cursor.Kind != KindTable {
		return p.errorf("'%s' is not a table", cursor.Name)
	}
	switch tok = p.sc.scan(); tok {
	case tokenRBracket:
	case tokenDot:
		return p.errorf("dotted keys are not supported")
	case tokenError:
		return p.scanError()
	default:
		return p.errorf("missing ']'")
	}
	if err := p.expectEndOfLine(); err != nil {
		return err
	}
	p.scope = cursor.Table
	p.arr = nil
	return nil
}

// arrayTableHeader parses '[[ key ]]'. Consecutive headers naming the
// same key advance the element cursor; a different key resets it to
// zero. The element count is published to the array's Count output as
// elements appear.
func (p *parser) arrayTableHeader() error {
	tok := p.sc.scan()
	if tok == tokenError {
		return p.scanError()
	}
	if tok != tokenBareKey && tok != tokenString {
		return p.errorf("expected an array name")
	}
	cursor := find(p.root, GetString(p.sc.item))
	if cursor == nil {
		return p.errorf("unknown array name '%s'", p.sc.item)
	}
	if cursor.Kind != KindArray || cursor.Array == nil ||
		cursor.Array.Kind != KindTable || cursor.Array.Tables == nil {
		return p.errorf("'%s' is not an array of tables", cursor.Name)
	}
	switch tok = p.sc.scan(); tok {
	case tokenRBrackets:
	case tokenDot:
		return p.errorf("dotted keys are not supported")
	case tokenError:
		return p.scanError()
	default:
		return p.errorf("missing ']]'")
	}
	if err := p.expectEndOfLine(); err != nil {
		return err
	}

	if cursor == p.arrCur {
		p.elem++
	} else {
		p.arrCur = cursor
		p.elem = 0
	}
	ta := cursor.Array.Tables
	if p.elem >= ta.Cap {
		return p.errorf("too many elements in array '%s'", cursor.Name)
	}
	p.arr = cursor.Array
	p.scope = ta.Subtype
	if cursor.Array.Count != nil {
		*cursor.Array.Count = p.elem + 1
	}
	return nil
}

// keyValue parses '<key> = <value>' with the key name already scanned
// into the lexeme buffer.
func (p *parser) keyValue(scope []Key) error {
	cursor := find(scope, GetString(p.sc.item))
	if cursor == nil {
		return p.errorf("unknown key name '%s'", p.sc.item)
	}
	switch tok := p.sc.scan(); tok {
	case tokenEqual:
	case tokenDot:
		return p.errorf("dotted keys are not supported")
	case tokenError:
		return p.scanError()
	default:
		return p.errorf("missing '='")
	}
	switch tok := p.sc.scan(); tok {
	case tokenError:
		return p.scanError()
	case tokenLBracket: // key = [ ... ]
		if cursor.Kind != KindArray || cursor.Array == nil {
			return p.errorf("'%s' is not an array", cursor.Name)
		}
		return p.loadArray(cursor.Array)
	case tokenLBrace: // key = { ... }
		if cursor.Kind != KindTable {
			return p.errorf("'%s' is not a table", cursor.Name)
		}
		return p.inlineTable(cursor.Table)
	case tokenString, tokenInteger, tokenFloat, tokenBool, tokenTime, tokenBareKey:
		return p.bind(cursor, tok)
	default:
		return p.errorf("invalid value")
	}
}

// inlineTable parses '{ k = v, ... }' against the given scope. Inline
// tables must not span lines.
func (p *parser) inlineTable(scope []Key) error {
	tok := p.sc.scan()
	if tok == tokenRBrace { // empty table
		return nil
	}
	for {
		if tok == tokenError {
			return p.scanError()
		}
		if tok != tokenBareKey && tok != tokenString {
			return p.errorf("expected a key in inline table")
		}
		if err := p.keyValue(scope); err != nil {
			return err
		}
		switch tok = p.sc.scan(); tok {
		case tokenRBrace:
			return nil
		case tokenComma:
		case tokenError:
			return p.scanError()
		default:
			return p.errorf("expected ',' or '}' in inline table")
		}
		tok = p.sc.scan()
	}
}

// loadArray parses '[ elem, ... ]' into the array's fixed storage.
// Newlines are allowed between elements; an immediate ']' yields length
// zero.
func (p *parser) loadArray(arr *Array) error {
	n := 0
	arenaUsed := 0
	for {
		tok := p.sc.scan()
		switch tok {
		case tokenError:
			return p.scanError()
		case tokenEOF:
			return p.errorf("saw eof before ']'")
		case tokenNewline, tokenComma:
			continue
		case tokenRBracket:
			if arr.Count != nil {
				*arr.Count = n
			}
			return nil
		case tokenLBrace: // [ { }, { } ]
			if arr.Kind != KindTable || arr.Tables == nil {
				return p.errorf("saw '{' in an array of %s", arr.Kind)
			}
			if n >= arr.Tables.Cap {
				return p.errorf("too many elements in array")
			}
			savedArr, savedCur, savedElem := p.arr, p.arrCur, p.elem
			p.arr, p.arrCur, p.elem = arr, nil, n
			err := p.inlineTable(arr.Tables.Subtype)
			p.arr, p.arrCur, p.elem = savedArr, savedCur, savedElem
			if err != nil {
				return err
			}
			n++
		case tokenString, tokenInteger, tokenFloat, tokenBool, tokenTime, tokenBareKey:
			used, err := p.bindElement(arr, n, arenaUsed, tok)
			if err != nil {
				return err
			}
			arenaUsed = used
			n++
		default:
			return p.errorf("invalid array syntax")
		}
	}
}
