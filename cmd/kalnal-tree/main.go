// cmd/kalnal-tree/main.go
package main

import (
	"os"

	"kalnal/internal/treeapp"
)

// Stdout and stderr are passed through directly so the progress bar can
// render live.
func main() {
	os.Exit(treeapp.Run(os.Args[1:], os.Stdout, os.Stderr))
}
