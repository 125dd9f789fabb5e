package lowering

import (
	"fmt"
	"strings"
)

// writer is a small indent-tracked text builder for the emitter, in the
// shape of pkg/printer's indent/dedent/newline primitives: a
// strings.Builder-backed builder that the emitter writes to line by
// line.
type writer struct {
	sb          strings.Builder
	indent      int
	atLineStart bool
}

func newWriter() *writer {
	return &writer{atLineStart: true}
}

func (w *writer) Indent() { w.indent++ }
func (w *writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

func (w *writer) writeIndent() {
	if w.atLineStart {
		w.sb.WriteString(strings.Repeat("    ", w.indent))
		w.atLineStart = false
	}
}

// Raw writes s verbatim, honoring pending indentation.
func (w *writer) Raw(s string) {
	w.writeIndent()
	w.sb.WriteString(s)
}

// Keyword, Identifier, Symbol, and Number are distinct print methods
// matching transpiler.h's own print* helper split; each is a plain Raw
// call, and the emitter itself writes through Raw and Printf.
func (w *writer) Keyword(s string)    { w.Raw(s) }
func (w *writer) Identifier(s string) { w.Raw(s) }
func (w *writer) Symbol(s string)     { w.Raw(s) }
func (w *writer) Number(s string)     { w.Raw(s) }

func (w *writer) Printf(format string, args ...any) {
	w.Raw(fmt.Sprintf(format, args...))
}

// NewLine ends the current line and arranges for the next write to be
// indented.
func (w *writer) NewLine() {
	w.sb.WriteString("\n")
	w.atLineStart = true
}

func (w *writer) Blank() { w.NewLine() }

func (w *writer) String() string { return w.sb.String() }
