// Package main implements the luis command-line client.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/stevengum97/botbuilder-tools/internal/runtime"
	"github.com/stevengum97/botbuilder-tools/pkg/manifest"
)

// version is set at build time.
var version = "2.2.0"

func main() {
	rt := &runtime.Runtime{Version: version}
	cmd := rt.NewLUISCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var argErr *manifest.ArgumentError
		if errors.As(err, &argErr) {
			fmt.Fprintln(os.Stderr)
			fmt.Fprint(os.Stderr, cmd.UsageString())
		}
		os.Exit(1)
	}
}
