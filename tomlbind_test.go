package tomlbind_test

import (
	"strings"
	"sync"
	"testing"

	"tomlbind"

	burntoml "github.com/BurntSushi/toml"
	pelletier "github.com/pelletier/go-toml/v2"
)

// configDoc is a realistic device configuration shared by the
// correctness tests and the rival benchmarks. It stays inside the
// subset all three decoders understand.
var configDoc = []byte(`
title = "frontend"
port = 8080
ratio = 0.25
debug = true
tags = ["alpha", "beta", "gamma"]

[server]
host = "localhost"
timeout = 30
`)

type rivalConfig struct {
	Title  string   `toml:"title"`
	Port   int64    `toml:"port"`
	Ratio  float64  `toml:"ratio"`
	Debug  bool     `toml:"debug"`
	Tags   []string `toml:"tags"`
	Server struct {
		Host    string `toml:"host"`
		Timeout int64  `toml:"timeout"`
	} `toml:"server"`
}

type configCells struct {
	title   [32]byte
	host    [32]byte
	tags    [8]string
	store   [128]byte
	ntags   int
	port    int64
	timeout int64
	ratio   float64
	debug   bool
}

func (c *configCells) template() []tomlbind.Key {
	return []tomlbind.Key{
		{Name: "title", Kind: tomlbind.KindString, Value: tomlbind.Value{String: c.title[:]}},
		{Name: "port", Kind: tomlbind.KindLong, Value: tomlbind.Value{Long: &c.port}},
		{Name: "ratio", Kind: tomlbind.KindFloat, Value: tomlbind.Value{Float: &c.ratio}},
		{Name: "debug", Kind: tomlbind.KindBool, Value: tomlbind.Value{Bool: &c.debug}},
		{Name: "tags", Kind: tomlbind.KindArray, Array: &tomlbind.Array{
			Kind:    tomlbind.KindString,
			Strings: &tomlbind.StringArray{Out: c.tags[:], Store: c.store[:]},
			Count:   &c.ntags,
		}},
		{Name: "server", Kind: tomlbind.KindTable, Table: []tomlbind.Key{
			{Name: "host", Kind: tomlbind.KindString, Value: tomlbind.Value{String: c.host[:]}},
			{Name: "timeout", Kind: tomlbind.KindLong, Value: tomlbind.Value{Long: &c.timeout}},
		}},
	}
}

func (c *configCells) check(t *testing.T) {
	t.Helper()
	if got := cstr(c.title[:]); got != "frontend" {
		t.Errorf("title = %q", got)
	}
	if c.port != 8080 || c.ratio != 0.25 || !c.debug {
		t.Errorf("port=%d ratio=%v debug=%v", c.port, c.ratio, c.debug)
	}
	if c.ntags != 3 || c.tags[0] != "alpha" || c.tags[1] != "beta" || c.tags[2] != "gamma" {
		t.Errorf("tags = %v (count %d)", c.tags[:c.ntags], c.ntags)
	}
	if got := cstr(c.host[:]); got != "localhost" {
		t.Errorf("server.host = %q", got)
	}
	if c.timeout != 30 {
		t.Errorf("server.timeout = %d", c.timeout)
	}
}

func TestEndToEnd(t *testing.T) {
	const doc = `
# serial link
device = "/dev/ttyUSB0"
count = 4
flag = true
speed = 3.76
`
	var (
		device [32]byte
		count  int32
		flag   bool
		speed  float64
	)
	tmpl := []tomlbind.Key{
		{Name: "device", Kind: tomlbind.KindString, Value: tomlbind.Value{String: device[:]}},
		{Name: "count", Kind: tomlbind.KindInt, Value: tomlbind.Value{Int: &count}},
		{Name: "flag", Kind: tomlbind.KindBool, Value: tomlbind.Value{Bool: &flag}},
		{Name: "speed", Kind: tomlbind.KindFloat, Value: tomlbind.Value{Float: &speed}},
	}
	if err := tomlbind.Unmarshal([]byte(doc), tmpl); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got := cstr(device[:]); got != "/dev/ttyUSB0" {
		t.Errorf("device = %q", got)
	}
	if count != 4 || !flag || speed != 3.76 {
		t.Errorf("count=%d flag=%v speed=%v", count, flag, speed)
	}
}

func TestDecodeReader(t *testing.T) {
	var c configCells
	if err := tomlbind.Decode(strings.NewReader(string(configDoc)), c.template()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	c.check(t)
}

// TestCrossImplementation decodes the same document with two full TOML
// decoders and compares the results field by field.
func TestCrossImplementation(t *testing.T) {
	var c configCells
	if err := tomlbind.Unmarshal(configDoc, c.template()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	c.check(t)

	var bs rivalConfig
	if err := burntoml.Unmarshal(configDoc, &bs); err != nil {
		t.Fatalf("BurntSushi Unmarshal: %v", err)
	}
	var pl rivalConfig
	if err := pelletier.Unmarshal(configDoc, &pl); err != nil {
		t.Fatalf("pelletier Unmarshal: %v", err)
	}

	for name, rival := range map[string]*rivalConfig{"BurntSushi": &bs, "pelletier": &pl} {
		if got := cstr(c.title[:]); got != rival.Title {
			t.Errorf("%s: title %q vs %q", name, got, rival.Title)
		}
		if c.port != rival.Port || c.ratio != rival.Ratio || c.debug != rival.Debug {
			t.Errorf("%s: scalars disagree: %d/%v/%v vs %d/%v/%v",
				name, c.port, c.ratio, c.debug, rival.Port, rival.Ratio, rival.Debug)
		}
		if len(rival.Tags) != c.ntags {
			t.Errorf("%s: %d tags vs %d", name, c.ntags, len(rival.Tags))
		} else {
			for i := 0; i < c.ntags; i++ {
				if c.tags[i] != rival.Tags[i] {
					t.Errorf("%s: tags[%d] %q vs %q", name, i, c.tags[i], rival.Tags[i])
				}
			}
		}
		if got := cstr(c.host[:]); got != rival.Server.Host || c.timeout != rival.Server.Timeout {
			t.Errorf("%s: server %q/%d vs %q/%d",
				name, got, c.timeout, rival.Server.Host, rival.Server.Timeout)
		}
	}
}

// TestConcurrentParses runs independent parses of the same input in
// parallel. Each goroutine owns its template and cells; the shared
// state is only the input bytes and the internal buffer pool.
func TestConcurrentParses(t *testing.T) {
	const goroutines = 8
	const iterations = 100

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var c configCells
			tmpl := c.template()
			for i := 0; i < iterations; i++ {
				if err := tomlbind.Unmarshal(configDoc, tmpl); err != nil {
					errs <- err
					return
				}
				if cstr(c.title[:]) != "frontend" || c.port != 8080 || c.ntags != 3 {
					errs <- &tomlbind.ParseError{Msg: "corrupted result"}
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

// ### Benchmarks ###

func BenchmarkUnmarshal(b *testing.B) {
	var c configCells
	tmpl := c.template()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := tomlbind.Unmarshal(configDoc, tmpl); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBurntSushiUnmarshal(b *testing.B) {
	for i := 0; i < b.N; i++ {
		var v rivalConfig
		if err := burntoml.Unmarshal(configDoc, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPelletierUnmarshal(b *testing.B) {
	for i := 0; i < b.N; i++ {
		var v rivalConfig
		if err := pelletier.Unmarshal(configDoc, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshalParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		var c configCells
		tmpl := c.template()
		for pb.Next() {
			if err := tomlbind.Unmarshal(configDoc, tmpl); err != nil {
				b.Fatal(err)
			}
		}
	})
}
