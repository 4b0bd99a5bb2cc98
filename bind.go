package tomlbind

import (
	"errors"
	"strconv"
)

// target resolves the output cell for cursor. Inside an array of tables
// the indexed accessor yields the field of the current element; a plain
// scalar resolves to its own stored target. Every kind resolves to its
// own cell — the string case in particular never reaches a neighbouring
// kind's pointer.
func (p *parser) target(cursor *Key) Value {
	if cursor.Elem != nil && p.arr != nil {
		return cursor.Elem(p.elem)
	}
	return cursor.Value
}

// bind converts the scanned value token and writes it to the resolved
// cell. Type agreement is checked both ways: quoted values only bind to
// string kinds, unquoted values only to non-string kinds.
func (p *parser) bind(cursor *Key, tok int) error {
	if tok == tokenString && cursor.Kind != KindString {
		return p.errorf("saw quoted value when expecting non-string for key '%s'", cursor.Name)
	}
	if tok != tokenString && cursor.Kind == KindString {
		return p.errorf("didn't see quoted value when expecting string for key '%s'", cursor.Name)
	}

	v := p.target(cursor)
	switch cursor.Kind {
	case KindString:
		writeText(v.String, p.sc.item)
	case KindTime:
		if tok != tokenTime {
			return p.errorf("expected a date-time for key '%s'", cursor.Name)
		}
		writeText(v.Time, trimTrailingSpaces(p.sc.item))
	case KindBool:
		if tok != tokenBool {
			return p.errorf("boolean for key '%s' must be 'true' or 'false'", cursor.Name)
		}
		if v.Bool != nil {
			*v.Bool = GetString(p.sc.item) == "true"
		}
	case KindShort, KindUShort, KindInt, KindUInt, KindLong, KindULong:
		if tok != tokenInteger {
			return p.errorf("expected an integer for key '%s'", cursor.Name)
		}
		n, err := p.parseInt64()
		if err != nil {
			return err
		}
		storeInteger(v, cursor.Kind, n)
	case KindFloat:
		if tok != tokenFloat && tok != tokenInteger {
			return p.errorf("expected a float for key '%s'", cursor.Name)
		}
		f, err := p.parseFloat64()
		if err != nil {
			return err
		}
		if v.Float != nil {
			*v.Float = f
		}
	case KindTable:
		return p.errorf("expected an inline table for key '%s'", cursor.Name)
	case KindArray:
		return p.errorf("expected an array for key '%s'", cursor.Name)
	}
	return nil
}

// bindElement converts one scalar array element into the fixed storage
// at index n. It returns the updated string-arena watermark.
func (p *parser) bindElement(arr *Array, n, arenaUsed, tok int) (int, error) {
	switch arr.Kind {
	case KindLong:
		if tok != tokenInteger {
			return arenaUsed, p.errorf("expected an integer array element")
		}
		if n >= len(arr.Ints) {
			return arenaUsed, p.errorf("too many elements in array")
		}
		v, err := p.parseInt64()
		if err != nil {
			return arenaUsed, err
		}
		arr.Ints[n] = v
	case KindFloat:
		if tok != tokenFloat && tok != tokenInteger {
			return arenaUsed, p.errorf("expected a float array element")
		}
		if n >= len(arr.Floats) {
			return arenaUsed, p.errorf("too many elements in array")
		}
		f, err := p.parseFloat64()
		if err != nil {
			return arenaUsed, err
		}
		arr.Floats[n] = f
	case KindBool:
		if tok != tokenBool {
			return arenaUsed, p.errorf("expected a boolean array element")
		}
		if n >= len(arr.Bools) {
			return arenaUsed, p.errorf("too many elements in array")
		}
		arr.Bools[n] = GetString(p.sc.item) == "true"
	case KindString:
		if tok != tokenString {
			return arenaUsed, p.errorf("expected a string array element")
		}
		sa := arr.Strings
		if sa == nil || n >= len(sa.Out) {
			return arenaUsed, p.errorf("too many elements in array")
		}
		if arenaUsed+len(p.sc.item) > len(sa.Store) {
			return arenaUsed, p.errorf("string store exhausted in array")
		}
		copy(sa.Store[arenaUsed:], p.sc.item)
		sa.Out[n] = GetString(sa.Store[arenaUsed : arenaUsed+len(p.sc.item)])
		arenaUsed += len(p.sc.item)
	case KindTable:
		return arenaUsed, p.errorf("expected an inline table element")
	default:
		return arenaUsed, p.errorf("invalid array element kind %s", arr.Kind)
	}
	return arenaUsed, nil
}

// parseInt64 converts the current lexeme with the full prefix-aware
// radix (the scanner has already stripped underscores and kept the
// 0x/0o/0b prefix). Overflow of int64 is a bind error.
func (p *parser) parseInt64() (int64, error) {
	n, err := strconv.ParseInt(GetString(p.sc.item), 0, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, p.errorf("integer '%s' out of range", p.sc.item)
		}
		return 0, p.errorf("invalid integer '%s'", p.sc.item)
	}
	return n, nil
}

// parseFloat64 converts the current lexeme, including the signed
// inf/nan spellings the scanner produces.
func (p *parser) parseFloat64() (float64, error) {
	f, err := strconv.ParseFloat(GetString(p.sc.item), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, p.errorf("float '%s' out of range", p.sc.item)
		}
		return 0, p.errorf("invalid float '%s'", p.sc.item)
	}
	return f, nil
}

// storeInteger narrows n to the declared width by truncating assignment.
// The narrowing is deliberate and explicit; a nil cell skips the write.
func storeInteger(v Value, k Kind, n int64) {
	switch k {
	case KindShort:
		if v.Short != nil {
			*v.Short = int16(n)
		}
	case KindUShort:
		if v.UShort != nil {
			*v.UShort = uint16(n)
		}
	case KindInt:
		if v.Int != nil {
			*v.Int = int32(n)
		}
	case KindUInt:
		if v.UInt != nil {
			*v.UInt = uint32(n)
		}
	case KindLong:
		if v.Long != nil {
			*v.Long = n
		}
	case KindULong:
		if v.ULong != nil {
			*v.ULong = uint64(n)
		}
	}
}

// writeText copies at most len(dst)-1 bytes into the fixed cell and
// zero-fills the remainder; the final byte always stays zero.
// Truncation is silent.
func writeText(dst, src []byte) {
	if len(dst) == 0 {
		return
	}
	for i := range dst {
		dst[i] = 0
	}
	n := len(dst) - 1
	if len(src) < n {
		n = len(src)
	}
	copy(dst, src[:n])
}

func trimTrailingSpaces(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}
	return b
}
