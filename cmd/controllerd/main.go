// Command controllerd serves executor-backed HTTP routes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "controllerd: %v\n", err)
		os.Exit(1)
	}
}
