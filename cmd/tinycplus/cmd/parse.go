package cmd

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/tinycplus/tcppc/internal/ast"
	"github.com/tinycplus/tcppc/internal/astdump"
	"github.com/tinycplus/tcppc/internal/lexer"
	"github.com/tinycplus/tcppc/internal/parser"
)

var (
	parseJSON bool
	parsePath string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Dump the parsed AST of a TinyC+ file",
	Long: `Parse a TinyC+ file and print its AST, either as a Go-syntax dump
(the default) or as JSON with --json. Combine --json with --path to
extract a single value out of the dumped document with gjson syntax.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "dump the AST as JSON instead of Go syntax")
	parseCmd.Flags().StringVar(&parsePath, "path", "", "with --json, extract only this gjson path")
}

func runParse(cmd *cobra.Command, args []string) error {
	filename, input, err := readInput(args)
	if err != nil {
		return err
	}

	l := lexer.New(input, filename)
	p := parser.New(l, filename)
	prog, err := p.ParseProgram()
	if err != nil {
		printCompileError(err, cfg.ColorOutput)
		return fmt.Errorf("parse failed")
	}
	ast.LinkParents(prog)

	if !parseJSON {
		fmt.Printf("%# v\n", pretty.Formatter(prog))
		return nil
	}

	doc, err := astdump.Dump(prog)
	if err != nil {
		return err
	}
	if parsePath == "" {
		fmt.Println(doc)
		return nil
	}
	val, err := astdump.Query(doc, parsePath)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}
	fmt.Fprintln(os.Stdout, val)
	return nil
}
