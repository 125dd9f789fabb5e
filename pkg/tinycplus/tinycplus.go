// Package tinycplus is the embeddable entry point to the TinyC+
// pipeline, the same role pkg/dwscript plays for the teacher's
// interpreter: a single Compile call driving lex, parse, parent-link,
// analyze, lower, and (optionally) postprocess, without requiring a
// caller to wire internal/* packages together itself.
package tinycplus

import (
	"github.com/tinycplus/tcppc/internal/ast"
	"github.com/tinycplus/tcppc/internal/config"
	tcerrors "github.com/tinycplus/tcppc/internal/errors"
	"github.com/tinycplus/tcppc/internal/ident"
	"github.com/tinycplus/tcppc/internal/lexer"
	"github.com/tinycplus/tcppc/internal/lowering"
	"github.com/tinycplus/tcppc/internal/parser"
	"github.com/tinycplus/tcppc/internal/postprocess"
	"github.com/tinycplus/tcppc/internal/semantic"
	"github.com/tinycplus/tcppc/internal/types"
)

// options gathers every knob Compile accepts, built up from config.Default
// and then narrowed by the caller's Option values.
type options struct {
	cfg        config.Config
	dialect    postprocess.Options
	useDialect bool
}

// Option configures a Compile call.
type Option func(*options)

// WithConfig replaces the pipeline's configuration wholesale, e.g. one
// loaded from a file with config.Load.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithReservedPrefix overrides the configured mangling/reserved prefix.
func WithReservedPrefix(prefix string) Option {
	return func(o *options) { o.cfg.ReservedPrefix = prefix }
}

// WithEntryFunction overrides the function name that receives injected
// vtable-initializer calls. An empty string falls back to main.
func WithEntryFunction(name string) Option {
	return func(o *options) { o.cfg.EntryFunction = name }
}

// WithDialect runs the emitted text through internal/postprocess with
// opts after lowering completes.
func WithDialect(opts postprocess.Options) Option {
	return func(o *options) { o.dialect = opts; o.useDialect = true }
}

// Result is what Compile returns on success: the emitted text plus the
// analyzed program and type registry, useful to a caller that wants to
// run internal/astdump over the same pipeline state Compile used.
type Result struct {
	Output   string
	Program  *ast.Program
	Registry *types.Registry
}

// Compile runs source (from filename, used only for error positions)
// through the full pipeline and returns the emitted target text. The
// first located error encountered at any stage aborts the run; no
// partial output is returned alongside an error.
func Compile(source, filename string, opts ...Option) (Result, error) {
	o := options{cfg: config.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	l := lexer.New(source, filename)
	p := parser.New(l, filename)
	prog, err := p.ParseProgram()
	if err != nil {
		return Result{}, withSource(err, source)
	}
	ast.LinkParents(prog)

	reg := types.NewRegistry()
	mgl := ident.NewMangler(o.cfg.ReservedPrefix)
	analyzer := semantic.New(reg, mgl, o.cfg.ReservedPrefix)
	if err := analyzer.Analyze(prog); err != nil {
		return Result{}, withSource(err, source)
	}

	emitter := lowering.New(reg, mgl, o.cfg.EntryFunction)
	out, err := emitter.Emit(prog)
	if err != nil {
		return Result{}, withSource(err, source)
	}

	if o.useDialect {
		out = postprocess.Run(out, o.dialect)
	}

	return Result{Output: out, Program: prog, Registry: reg}, nil
}

// withSource attaches the original source text to a *tcerrors.CompilerError
// so its Format method can render a caret-pointed snippet, leaving any
// other error type untouched.
func withSource(err error, source string) error {
	if ce, ok := err.(*tcerrors.CompilerError); ok {
		return ce.WithSource(source)
	}
	return err
}
