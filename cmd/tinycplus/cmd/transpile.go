package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	tcerrors "github.com/tinycplus/tcppc/internal/errors"
	"github.com/tinycplus/tcppc/internal/postprocess"
	"github.com/tinycplus/tcppc/pkg/tinycplus"
)

var (
	outputFile string
	dialect    string
)

var transpileCmd = &cobra.Command{
	Use:   "transpile [file]",
	Short: "Translate a TinyC+ source file to plain TinyC",
	Long: `Run the full pipeline — lex, parse, analyze, lower, and (with
--dialect) postprocess — over a TinyC+ source file and write the
emitted TinyC text to stdout, or to --output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranspile,
}

func init() {
	rootCmd.AddCommand(transpileCmd)
	transpileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write emitted text here instead of stdout")
	transpileCmd.Flags().StringVar(&dialect, "dialect", "", `postprocess the output ("cpp" for the tinyc_to_cpp_converter substitutions)`)
}

func runTranspile(cmd *cobra.Command, args []string) error {
	filename, input, err := readInput(args)
	if err != nil {
		return err
	}

	opts := []tinycplus.Option{tinycplus.WithConfig(cfg)}
	if dialect == "cpp" {
		opts = append(opts, tinycplus.WithDialect(postprocess.Default()))
	}

	if isVerbose(cmd) {
		fmt.Fprintf(os.Stderr, "transpiling %s (%d bytes)\n", filename, len(input))
	}

	res, err := tinycplus.Compile(input, filename, opts...)
	if err != nil {
		printCompileError(err, cfg.ColorOutput)
		return fmt.Errorf("transpilation failed")
	}

	if isVerbose(cmd) {
		fmt.Fprintf(os.Stderr, "%# v\n", pretty.Formatter(res.Program))
	}

	out := res.Output
	if cfg.ColorOutput {
		out = colorize(out)
	}

	if outputFile != "" {
		return os.WriteFile(outputFile, []byte(out), 0o644)
	}
	fmt.Print(out)
	return nil
}

func readInput(args []string) (filename, input string, err error) {
	if len(args) == 1 {
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", filename, err)
		}
		return filename, string(data), nil
	}
	filename = "<stdin>"
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("reading stdin: %w", err)
	}
	return filename, string(data), nil
}

// printCompileError renders a located error the way spec §6 requires;
// it falls back to err.Error() for anything not already a
// *tcerrors.CompilerError.
func printCompileError(err error, color bool) {
	if ce, ok := err.(*tcerrors.CompilerError); ok {
		fmt.Fprintln(os.Stderr, ce.Format(color))
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}

// colorize lexes the emitted TinyC text with chroma's generic C lexer
// (the closest built-in match for this C-family dialect) and renders
// it with ANSI 256-color output.
func colorize(text string) string {
	l := lexers.Get("c")
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)
	it, err := l.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var sb strings.Builder
	if err := formatters.TTY256.Format(&sb, styles.Get("monokai"), it); err != nil {
		return text
	}
	return sb.String()
}
