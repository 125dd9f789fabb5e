package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinycplus/tcppc/internal/lexer"
	"github.com/tinycplus/tcppc/internal/token"
)

var (
	lexShowType bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Dump the raw token stream of a TinyC+ file",
	Long: `Tokenize a TinyC+ file and print every token the lexer produces, for
debugging the external lexer collaborator independently of the parser.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "include the token kind's name")
}

func runLex(_ *cobra.Command, args []string) error {
	filename, input, err := readInput(args)
	if err != nil {
		return err
	}
	l := lexer.New(input, filename)
	for {
		tok := l.NextToken()
		printToken(tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

func printToken(tok token.Token) {
	if lexShowType {
		fmt.Printf("%-10s %q @%s\n", tok.Kind, tok.Literal, tok.Pos)
		return
	}
	fmt.Printf("%q @%s\n", tok.Literal, tok.Pos)
}
