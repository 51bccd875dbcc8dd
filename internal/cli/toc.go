package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/novvoo/go-pdfium/pkg/pdfium"
)

func runTOC(env Env, args []string) error {
	fs := flag.NewFlagSet("toc", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	password := fs.String("password", "", "document password")
	fs.Usage = func() {
		fmt.Fprintf(env.Stderr, "Usage: pdfium toc [options] <PDF-file>\n\n")
		fmt.Fprintf(env.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("missing input file")
	}

	lib, err := env.Lib()
	if err != nil {
		return err
	}
	doc, err := lib.OpenDocument(fs.Arg(0), *password)
	if err != nil {
		return err
	}
	defer doc.Close()

	outline, err := doc.Outline()
	if err != nil {
		return err
	}
	printOutline(env, outline, 0)
	return nil
}

func printOutline(env Env, items []pdfium.OutlineItem, depth int) {
	for _, item := range items {
		fmt.Fprintf(env.Stdout, "%s- %s\n", strings.Repeat("  ", depth), item.Title)
		printOutline(env, item.Children, depth+1)
	}
}
