// Command spead is a minimal SPEAD sender/receiver over UDP, useful for
// smoke-testing a stream end to end without writing Go.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
