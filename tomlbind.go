// Package tomlbind decodes a line-oriented TOML subset directly into
// fixed-capacity, caller-supplied memory. No document tree is built: the
// caller declares the expected shape as a template of Key descriptors
// and every decoded value is written straight to the cell the template
// names. Inputs are US-ASCII; the parse is fail-fast and single-pass.
package tomlbind

import (
	"fmt"
	"io"
)

// Unmarshal parses the TOML-encoded data and stores the results into the
// locations the template describes. The template is read-only for the
// duration of the parse; keys present in the template but absent from
// the input are left untouched.
//
// On failure the returned error is a *ParseError locating the first
// violation. Values bound before the failing point remain written.
func Unmarshal(data []byte, template []Key) error {
	sc := newScanner(data)
	defer sc.release()
	p := &parser{sc: sc, root: template, scope: template}
	return p.run()
}

// Decode reads all of r and unmarshals it. Opening and closing the
// source is the caller's responsibility.
func Decode(r io.Reader, template []Key) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return Unmarshal(data, template)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("toml: line %d:%d: %s", e.Line, e.Col, e.Msg)
}
