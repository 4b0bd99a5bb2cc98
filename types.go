package tomlbind

// ### Type Definitions ###

// Kind tags the type of value a Key expects.
type Kind uint8

const (
	KindShort Kind = iota
	KindUShort
	KindInt
	KindUInt
	KindLong
	KindULong
	KindFloat
	KindBool
	KindString
	KindTime
	KindTable
	KindArray
)

var kindNames = [...]string{
	KindShort:  "short",
	KindUShort: "ushort",
	KindInt:    "int",
	KindUInt:   "uint",
	KindLong:   "long",
	KindULong:  "ulong",
	KindFloat:  "float",
	KindBool:   "bool",
	KindString: "string",
	KindTime:   "time",
	KindTable:  "table",
	KindArray:  "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is the binding target of a scalar key. Exactly one field is set,
// and it must agree with the owning Key's Kind. A nil target means the
// caller does not want the value; the parse still validates it.
//
// String and Time are fixed-capacity cells: len() is the declared
// capacity, the decoded text is copied in (truncated to capacity-1 bytes)
// and the remainder zero-filled.
type Value struct {
	Short  *int16
	UShort *uint16
	Int    *int32
	UInt   *uint32
	Long   *int64
	ULong  *uint64
	Float  *float64
	Bool   *bool
	String []byte
	Time   []byte
}

// Key is one descriptor in a schema: a key name, the kind of value it
// accepts, and where the decoded value goes. An ordered []Key slice forms
// a scope (the root table or a nested table).
//
// For plain scalars the embedded Value holds the target. For fields of an
// array of tables, Elem resolves the target inside element i of the
// caller's array; it replaces the base+index*stride+offset arithmetic the
// equivalent C template would use.
type Key struct {
	Name  string
	Table []Key             // sub-schema, KindTable only
	Array *Array            // element description, KindArray only
	Elem  func(i int) Value // indexed target, fields of an array of tables
	Value                   // direct target, plain scalars
	Kind  Kind
}

// Array describes the storage of an array value. All elements must be of
// Kind; capacity is the length of the storage. Count, when non-nil,
// receives the number of elements written once the array's parse
// completes.
//
// Scalar arrays use Ints (KindLong), Floats (KindFloat), or Bools
// (KindBool). String arrays use Strings, arrays of tables use Tables.
type Array struct {
	Ints    []int64
	Floats  []float64
	Bools   []bool
	Strings *StringArray
	Tables  *TableArray
	Count   *int
	Kind    Kind
}

// StringArray stores decoded string elements in a fixed byte arena.
// Out[i] is a zero-copy view into Store; exhausting Store is a parse
// error.
type StringArray struct {
	Out   []string
	Store []byte
}

// TableArray describes an array of table-shaped elements. Subtype is the
// per-element schema; its keys carry Elem accessors into the caller's
// array of structs. Cap is the number of elements the caller owns.
type TableArray struct {
	Subtype []Key
	Cap     int
}

// ParseError reports the first (and only) failure of a parse.
type ParseError struct {
	Msg  string // 16 bytes (ptr + len)
	Line int    // 8 bytes
	Col  int    // 8 bytes
}

// scanner holds the lexing state for one parse. The item buffer comes
// from a pool and is returned when the parse finishes.
type scanner struct {
	data     []byte // 24 bytes (ptr + len + cap)
	item     []byte // 24 bytes, lexeme scratch, cap itemSize
	errMsg   string // 16 bytes (ptr + len)
	pos      int    // 8 bytes
	line     int    // 8 bytes
	tokLine  int    // 8 bytes, position of the current token
	tokCol   int    // 8 bytes
	typ      int    // 8 bytes
	atEOF    bool   // 1 byte
	overflow bool   // 1 byte
}

// parser is the document driver state for one parse. It is created per
// Unmarshal call and never shared, so concurrent parses over independent
// outputs are safe.
type parser struct {
	sc     *scanner
	root   []Key
	scope  []Key
	arr    *Array // active array of tables, nil outside [[...]]
	arrCur *Key   // identity of the current [[...]] key
	elem   int    // element index within arr
}
