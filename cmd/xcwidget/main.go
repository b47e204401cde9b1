// Command xcwidget registers widget extension targets and shared source
// files in Xcode project descriptors.
package main

import (
	"fmt"
	"os"

	"github.com/ardonos/xcwidget/cmd/xcwidget/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
