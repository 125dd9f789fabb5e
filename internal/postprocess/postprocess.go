// Package postprocess implements the optional dialect rewrite that runs
// strictly after the lowering emitter: three literal substitutions over
// the emitted text, grounded on tinyc_to_cpp_converter.h's
// find_and_replace calls. It never touches AST or type state.
package postprocess

import "strings"

// Options configures the substitutions applied by Run. The zero value
// leaves emitted text untouched (each replacement is a no-op: old ==
// new), matching the "no --dialect flag" default.
type Options struct {
	// ThisSpelling replaces every occurrence of the text "this" (also
	// inside longer identifiers) with an alternate spelling, mirroring
	// find_and_replace(content, "this", "_this").
	ThisSpelling string

	// CastSpelling replaces "cast<" with an alternate cast-introducer
	// spelling, mirroring find_and_replace(content, "cast<",
	// "reinterpret_cast<").
	CastSpelling string

	// StripMarkerComment, when set, removes a literal marker substring
	// (e.g. "//CPP:") from the text entirely, mirroring
	// find_and_replace(content, "//CPP:", " ").
	StripMarkerComment string
}

// Default returns the original converter's own substitutions: "this" to
// "_this", "cast<" to "reinterpret_cast<", and "//CPP:" markers
// stripped to a single space.
func Default() Options {
	return Options{
		ThisSpelling:       "_this",
		CastSpelling:       "reinterpret_cast<",
		StripMarkerComment: "//CPP:",
	}
}

// Run applies every configured substitution to text, in the same order
// tinyc_to_cpp_converter.h::execute does: this, then cast<, then the
// marker comment.
func Run(text string, opts Options) string {
	if opts.ThisSpelling != "" && opts.ThisSpelling != "this" {
		text = strings.ReplaceAll(text, "this", opts.ThisSpelling)
	}
	if opts.CastSpelling != "" && opts.CastSpelling != "cast<" {
		text = strings.ReplaceAll(text, "cast<", opts.CastSpelling)
	}
	if opts.StripMarkerComment != "" {
		text = strings.ReplaceAll(text, opts.StripMarkerComment, " ")
	}
	return text
}
