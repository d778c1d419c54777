// Package main implements the chatdown transcript converter.
package main

import (
	"fmt"
	"os"

	"github.com/stevengum97/botbuilder-tools/internal/runtime"
)

// version is set at build time.
var version = "1.2.0"

func main() {
	rt := &runtime.Runtime{Version: version}
	if err := rt.NewChatdownCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
