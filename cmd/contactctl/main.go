// Command contactctl manages the contact book from the command line, against
// the same store the HTTP server is configured with.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd(newApp(os.Stdout))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorMessage(err))
		os.Exit(1)
	}
}
