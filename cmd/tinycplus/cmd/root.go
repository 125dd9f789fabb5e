// Package cmd implements the tinycplus command tree: a transpile
// command plus lex/parse debug commands, mirroring cmd/dwscript/cmd's
// shape (root.go persistent flags, one file per subcommand).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinycplus/tcppc/internal/config"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	configPath string
	cfg        = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "tinycplus",
	Short: "TinyC+ to TinyC transpiler",
	Long: `tinycplus translates TinyC+ — a small object-oriented extension of a
C-like language adding classes, single inheritance, virtual methods,
interfaces, and constructors — into plain TinyC: structs, function
pointers, and explicit vtable dispatch that a bare C-like back end can
compile with no runtime support.`,
	Version:           Version,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().Bool("color", false, "colorize emitted output")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if color, _ := cmd.Flags().GetBool("color"); color {
		cfg.ColorOutput = true
	}
	return nil
}

func isVerbose(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("verbose")
	return v
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
