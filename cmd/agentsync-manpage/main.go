// Command agentsync-manpage writes the agentsync man pages, one per
// command, into the directory given as its only argument.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/agentsync/cmd/agentsync"
	"github.com/arthur-debert/agentsync/internal/version"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <output-dir>\n", os.Args[0])
		os.Exit(1)
	}
	dir := os.Args[1]

	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", dir, err)
		os.Exit(1)
	}

	header := &doc.GenManHeader{
		Title:   "AGENTSYNC",
		Section: "1",
		Source:  "agentsync " + version.Version,
		Manual:  "agentsync manual",
	}

	if err := doc.GenManTree(agentsync.NewRootCmd(), header, dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
		os.Exit(1)
	}
}
