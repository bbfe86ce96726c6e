// Foqos - focus session engine and CLI
package main

import (
	"os"

	"github.com/foqos/foqos/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
