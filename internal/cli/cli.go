// Package cli implements the pdfium command line tool: a dispatch table
// of independent subcommands, each a thin caller of the pdfium package.
package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/novvoo/go-pdfium/pkg/pdfium"
)

// Env carries the process dependencies of a CLI run, so tests can inject
// a fake-backed library and capture output.
type Env struct {
	// Lib lazily loads the native library. Subcommands that do not need
	// it (version, help) never call it.
	Lib func() (*pdfium.Library, error)
	// Stdout and Stderr receive command output and diagnostics.
	Stdout io.Writer
	Stderr io.Writer
}

// command is one subcommand of the dispatch table.
type command struct {
	summary string
	run     func(env Env, args []string) error
}

var commands = map[string]command{
	"render":       {"rasterize pages to image files", runRender},
	"pdfinfo":      {"print info on document and pages", runInfo},
	"extract-text": {"extract text", runExtractText},
	"toc":          {"print table of contents", runTOC},
	"version":      {"print version info", runVersion},
}

// Main dispatches a subcommand and returns the process exit code.
func Main(env Env, args []string) int {
	if len(args) < 1 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(env.Stderr)
		return 0
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(env.Stderr, "Unknown subcommand: %s\n\n", args[0])
		usage(env.Stderr)
		return 1
	}
	if err := cmd.run(env, args[1:]); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: pdfium <subcommand> [options]\n\n")
	fmt.Fprintf(w, "Command line interface to the go-pdfium library (Go binding to PDFium)\n\n")
	fmt.Fprintf(w, "Subcommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-14s %s\n", name, commands[name].summary)
	}
}
