package tomlbind

import (
	"bytes"
	"testing"
)

// TestStringTargetRegression pins down target resolution for string
// cells: a string bind must land in the key's own cell and leave the
// neighbouring descriptor's integer target untouched.
func TestStringTargetRegression(t *testing.T) {
	var (
		device [16]byte
		count  int32 = -1
	)
	tmpl := []Key{
		{Name: "device", Kind: KindString, Value: Value{String: device[:]}},
		{Name: "count", Kind: KindInt, Value: Value{Int: &count}},
	}
	if err := Unmarshal([]byte("device = \"/dev/ttyUSB0\"\n"), tmpl); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if count != -1 {
		t.Fatalf("count = %d, the string bind spilled into the next cell", count)
	}
	if i := bytes.IndexByte(device[:], 0); string(device[:i]) != "/dev/ttyUSB0" {
		t.Fatalf("device = %q", device[:i])
	}
}

func TestWriteText(t *testing.T) {
	tests := []struct {
		cap  int
		src  string
		want string
	}{
		{8, "short", "short"},
		{8, "exactly7", "exactly"},
		{8, "much too long", "much to"},
		{1, "x", ""},
		{0, "x", ""},
	}
	for _, tc := range tests {
		dst := make([]byte, tc.cap)
		for i := range dst {
			dst[i] = 0xff
		}
		writeText(dst, []byte(tc.src))
		if tc.cap == 0 {
			continue
		}
		i := bytes.IndexByte(dst, 0)
		if i < 0 {
			t.Errorf("writeText(cap %d, %q): no terminator in %v", tc.cap, tc.src, dst)
			continue
		}
		if got := string(dst[:i]); got != tc.want {
			t.Errorf("writeText(cap %d, %q) = %q, want %q", tc.cap, tc.src, got, tc.want)
		}
		// everything past the text is zero-filled
		for j := i; j < len(dst); j++ {
			if dst[j] != 0 {
				t.Errorf("writeText(cap %d, %q): trailing byte %d = %#x", tc.cap, tc.src, j, dst[j])
			}
		}
	}
}

func TestStoreIntegerNarrowing(t *testing.T) {
	var (
		s  int16
		us uint16
		i  int32
	)
	storeInteger(Value{Short: &s}, KindShort, 70000)
	if s != 4464 { // 70000 mod 2^16, reinterpreted signed
		t.Errorf("short = %d, want truncating assignment 4464", s)
	}
	storeInteger(Value{UShort: &us}, KindUShort, -1)
	if us != 0xffff {
		t.Errorf("ushort = %d, want 65535", us)
	}
	storeInteger(Value{Int: &i}, KindInt, 1<<40)
	if i != 0 { // low 32 bits of 2^40
		t.Errorf("int = %d, want 0", i)
	}
	// nil cells are skipped, not a fault
	storeInteger(Value{}, KindLong, 42)
}

func TestTrimTrailingSpaces(t *testing.T) {
	if got := trimTrailingSpaces([]byte("1979-05-27 07:32:00  ")); string(got) != "1979-05-27 07:32:00" {
		t.Errorf("got %q", got)
	}
	if got := trimTrailingSpaces([]byte("   ")); len(got) != 0 {
		t.Errorf("got %q, want empty", got)
	}
}
