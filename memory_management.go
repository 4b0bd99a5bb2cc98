package tomlbind

import "sync"

// ### Lexeme Buffer Pool Management ###

// The scanner's lexeme scratch buffer is the only transient allocation
// the core needs. Pooling it keeps repeated and concurrent parses from
// allocating; everything else is written straight into caller memory.
var itemBufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, itemSize)
		return &b
	},
}

func init() {
	WarmupPools()
}

// WarmupPools pre-populates the lexeme buffer pool so the first parses do
// not pay the allocation.
func WarmupPools() {
	for i := 0; i < 4; i++ {
		b := make([]byte, 0, itemSize)
		itemBufPool.Put(&b)
	}
}

func getItemBuf() []byte {
	return (*(itemBufPool.Get().(*[]byte)))[:0]
}

func putItemBuf(buf []byte) {
	if cap(buf) != itemSize {
		return // don't pool foreign buffers
	}
	buf = buf[:0]
	itemBufPool.Put(&buf)
}
