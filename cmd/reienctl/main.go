// Command reienctl prints plot inventory reports and manages the stored
// snapshot from a terminal.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
