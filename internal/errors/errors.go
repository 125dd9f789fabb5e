// Package errors implements the single located-error type that aborts
// the pipeline on the first failure, and renders it with source context
// the way the teacher's own compiler errors are rendered.
package errors

import (
	"fmt"
	"strings"

	"github.com/tinycplus/tcppc/internal/token"
	"golang.org/x/text/width"
)

// CompilerError is a message plus the source location it applies to.
// Every lexical, syntactic, name-resolution, type, object-model, and
// lowering error in the pipeline is reported as one of these; the first
// one raised aborts the run (see spec §7).
type CompilerError struct {
	Message string
	Pos     token.Position
	Source  string
}

// New creates a CompilerError at pos.
func New(pos token.Position, format string, args ...any) *CompilerError {
	return &CompilerError{Message: fmt.Sprintf(format, args...), Pos: pos}
}

// WithSource attaches the full source text so Format can render a caret
// line. It returns the receiver for chaining.
func (e *CompilerError) WithSource(src string) *CompilerError {
	e.Source = src
	return e
}

// Error implements the error interface with the exact wire format
// required by spec §6: `[error] <message> in "<file>" at [<line>:<col>]`.
func (e *CompilerError) Error() string {
	file := e.Pos.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("[error] %s in %q at [%d:%d]", e.Message, file, e.Pos.Line, e.Pos.Column)
}

// Format renders the error message preceded by the offending source
// line and a caret pointing at the column. Caret alignment is done in
// display cells rather than raw rune counts so wide (east-asian) runes
// preceding the error column do not throw the caret off; color adds
// ANSI bold/red around the caret only, matching the optional
// colored CLI output toggle from spec §6.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	line := sourceLine(e.Source, e.Pos.Line)
	if line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+caretOffset(line, e.Pos.Column)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
	}
	return sb.String()
}

func sourceLine(src string, lineNum int) string {
	if src == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(src, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// caretOffset computes how many display cells precede column col on
// line, widening for runes x/text/width classifies as double-width.
func caretOffset(line string, col int) int {
	offset := 0
	runeIdx := 0
	for _, r := range line {
		runeIdx++
		if runeIdx >= col {
			break
		}
		if width.LookupRune(r).Kind() == width.EastAsianWide {
			offset += 2
		} else {
			offset++
		}
	}
	return offset
}

// FormatAll renders multiple errors, one after another, separated by a
// blank line.
func FormatAll(errs []*CompilerError, color bool) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Format(color)
	}
	return strings.Join(parts, "\n\n")
}
