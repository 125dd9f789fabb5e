// Command tinycplus is the CLI front end to pkg/tinycplus.
package main

import (
	"os"

	"github.com/tinycplus/tcppc/cmd/tinycplus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
